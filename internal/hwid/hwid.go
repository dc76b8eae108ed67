// Package hwid derives the deterministic machine identifier that licenses
// are bound to. Every producer and consumer of hardware ids in the system
// goes through this package; the source list, truncation lengths, and hash
// rendering are a single shared contract, never reimplemented per call site.
package hwid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Fingerprinter computes the hardware fingerprint from local system
// identifiers. The zero value is not usable; construct with New. Paths and
// the disk serial command are overridable so tests can supply fixtures.
// The computed fingerprint is cached for the lifetime of the Fingerprinter
// and is never persisted.
type Fingerprinter struct {
	ProcRoot string
	SysRoot  string
	EtcRoot  string
	DbusRoot string

	// DiskSerial returns the primary disk serial. The default runs a single
	// lsblk invocation; callers needing a timeout wrap Compute themselves.
	DiskSerial func() (string, error)

	once sync.Once
	id   string
}

func New() *Fingerprinter {
	return &Fingerprinter{
		ProcRoot:   "/proc",
		SysRoot:    "/sys",
		EtcRoot:    "/etc",
		DbusRoot:   "/var/lib/dbus",
		DiskSerial: lsblkSerial,
	}
}

// Compute returns the machine fingerprint, HW- followed by three 8-hex
// groups from the SHA-256 of the sorted, tagged source strings. Each source
// is best-effort: a failing source is omitted, never substituted with a
// placeholder. Missing sources therefore change the fingerprint but never
// make Compute fail.
func (f *Fingerprinter) Compute() string {
	f.once.Do(func() {
		var components []string

		if cpu, err := f.cpuModel(); err == nil && cpu != "" {
			components = append(components, "CPU:"+cpu)
		}
		if mid, err := f.machineID(); err == nil && mid != "" {
			components = append(components, "MID:"+mid)
		}
		if dsk, err := f.DiskSerial(); err == nil && dsk != "" {
			components = append(components, "DSK:"+truncate(dsk, 16))
		}
		if mac, err := f.primaryMAC(); err == nil && mac != "" {
			components = append(components, "MAC:"+mac)
		}

		// Sorting makes the digest independent of collection order.
		sort.Strings(components)
		digest := sha256.Sum256([]byte(strings.Join(components, "|")))
		hexDigest := hex.EncodeToString(digest[:])
		f.id = fmt.Sprintf("HW-%s-%s-%s", hexDigest[0:8], hexDigest[8:16], hexDigest[16:24])
	})
	return f.id
}

func (f *Fingerprinter) cpuModel() (string, error) {
	data, err := os.ReadFile(filepath.Join(f.ProcRoot, "cpuinfo"))
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "model name") {
			_, value, found := strings.Cut(line, ":")
			if !found {
				continue
			}
			return truncate(strings.TrimSpace(value), 32), nil
		}
	}
	return "", fmt.Errorf("no model name in cpuinfo")
}

func (f *Fingerprinter) machineID() (string, error) {
	paths := []string{
		filepath.Join(f.EtcRoot, "machine-id"),
		filepath.Join(f.DbusRoot, "machine-id"),
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		id := strings.TrimSpace(string(data))
		if id != "" {
			return truncate(id, 16), nil
		}
	}
	return "", fmt.Errorf("no machine id found")
}

// primaryMAC resolves the interface carrying the default route and returns
// its MAC address with colons stripped.
func (f *Fingerprinter) primaryMAC() (string, error) {
	iface, err := f.defaultRouteInterface()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(f.SysRoot, "class/net", iface, "address"))
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(strings.TrimSpace(string(data)), ":", ""), nil
}

func (f *Fingerprinter) defaultRouteInterface() (string, error) {
	data, err := os.ReadFile(filepath.Join(f.ProcRoot, "net/route"))
	if err != nil {
		return "", err
	}
	lines := strings.Split(string(data), "\n")
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		// Destination 00000000 marks the default route.
		if len(fields) >= 2 && fields[1] == "00000000" {
			return fields[0], nil
		}
	}
	return "", fmt.Errorf("no default route found")
}

func lsblkSerial() (string, error) {
	out, err := exec.Command("lsblk", "-ndo", "SERIAL", "/dev/sda").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
