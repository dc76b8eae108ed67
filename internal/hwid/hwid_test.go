package hwid

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

var fingerprintPattern = regexp.MustCompile(`^HW-[0-9a-f]{8}-[0-9a-f]{8}-[0-9a-f]{8}$`)

// fixtureFingerprinter builds a Fingerprinter over a synthetic filesystem.
func fixtureFingerprinter(t *testing.T) *Fingerprinter {
	t.Helper()
	root := t.TempDir()

	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("proc/cpuinfo", "processor\t: 0\nmodel name\t: AMD Ryzen 9 5950X 16-Core Processor\nflags\t: fpu\n")
	write("etc/machine-id", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6\n")
	write("proc/net/route", "Iface\tDestination\tGateway\nlo\t0000007F\t00000000\neth0\t00000000\t0102A8C0\n")
	write("sys/class/net/eth0/address", "aa:bb:cc:dd:ee:ff\n")

	return &Fingerprinter{
		ProcRoot:   filepath.Join(root, "proc"),
		SysRoot:    filepath.Join(root, "sys"),
		EtcRoot:    filepath.Join(root, "etc"),
		DbusRoot:   filepath.Join(root, "dbus"),
		DiskSerial: func() (string, error) { return "WD-1234567890ABCDEF", nil },
	}
}

func TestComputeFormat(t *testing.T) {
	fp := fixtureFingerprinter(t)
	id := fp.Compute()
	if !fingerprintPattern.MatchString(id) {
		t.Errorf("fingerprint %q does not match HW-xxxxxxxx-xxxxxxxx-xxxxxxxx", id)
	}
}

func TestComputeDeterministic(t *testing.T) {
	fp := fixtureFingerprinter(t)
	if fp.Compute() != fp.Compute() {
		t.Error("repeated Compute on one Fingerprinter differs")
	}

	// A fresh Fingerprinter over the same sources must agree.
	fp2 := fixtureFingerprinter(t)
	fp2.ProcRoot = fp.ProcRoot
	fp2.SysRoot = fp.SysRoot
	fp2.EtcRoot = fp.EtcRoot
	fp2.DbusRoot = fp.DbusRoot
	if fp.Compute() != fp2.Compute() {
		t.Error("two Fingerprinters over identical sources disagree")
	}
}

func TestComputeSurvivesMissingSources(t *testing.T) {
	// All sources absent: still a well-formed fingerprint, no panic.
	root := t.TempDir()
	fp := &Fingerprinter{
		ProcRoot:   filepath.Join(root, "proc"),
		SysRoot:    filepath.Join(root, "sys"),
		EtcRoot:    filepath.Join(root, "etc"),
		DbusRoot:   filepath.Join(root, "dbus"),
		DiskSerial: func() (string, error) { return "", os.ErrNotExist },
	}
	id := fp.Compute()
	if !fingerprintPattern.MatchString(id) {
		t.Errorf("fingerprint %q malformed with all sources missing", id)
	}
}

func TestComputeChangesWithSources(t *testing.T) {
	full := fixtureFingerprinter(t)

	partial := fixtureFingerprinter(t)
	partial.DiskSerial = func() (string, error) { return "", os.ErrNotExist }

	// An absent source is omitted, not replaced with a placeholder, so the
	// two machines must not collide.
	if full.Compute() == partial.Compute() {
		t.Error("fingerprint with missing disk serial collides with full fingerprint")
	}
}

func TestMachineIDFallsBackToDbus(t *testing.T) {
	fp := fixtureFingerprinter(t)
	withFallback := fixtureFingerprinter(t)

	// Remove /etc/machine-id and provide the dbus fallback with the same id.
	if err := os.Remove(filepath.Join(withFallback.EtcRoot, "machine-id")); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(withFallback.DbusRoot, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(withFallback.DbusRoot, "machine-id"), []byte("a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if fp.Compute() != withFallback.Compute() {
		t.Error("dbus machine-id fallback produced a different fingerprint")
	}
}

func TestMachineIDTruncation(t *testing.T) {
	fp := fixtureFingerprinter(t)
	mid, err := fp.machineID()
	if err != nil {
		t.Fatalf("machineID: %v", err)
	}
	if len(mid) != 16 {
		t.Errorf("machine id length = %d, want 16", len(mid))
	}
}

func TestCPUModelTruncation(t *testing.T) {
	fp := fixtureFingerprinter(t)
	cpu, err := fp.cpuModel()
	if err != nil {
		t.Fatalf("cpuModel: %v", err)
	}
	if len(cpu) > 32 {
		t.Errorf("cpu model length = %d, want <= 32", len(cpu))
	}
}

func TestPrimaryMACStripsColons(t *testing.T) {
	fp := fixtureFingerprinter(t)
	mac, err := fp.primaryMAC()
	if err != nil {
		t.Fatalf("primaryMAC: %v", err)
	}
	if mac != "aabbccddeeff" {
		t.Errorf("mac = %q, want aabbccddeeff", mac)
	}
}
