package license

import (
	"regexp"
	"strings"
	"testing"

	"aegisd/internal/models"
)

func TestGenerateLicenseKeyFormat(t *testing.T) {
	keyPattern := regexp.MustCompile(`^[A-Z]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

	tests := []struct {
		edition models.Edition
		prefix  string
	}{
		{models.EditionBasic, "BSIC"},
		{models.EditionWorkplace, "WORK"},
		{models.EditionGamer, "GMRP"},
		{models.EditionAIDeveloper, "AIDV"},
		{models.EditionGamerAI, "GMAI"},
		{models.EditionServer, "SERV"},
		{models.EditionFreemium, "FREE"},
	}

	for _, tt := range tests {
		key, err := GenerateLicenseKey(tt.edition)
		if err != nil {
			t.Fatalf("GenerateLicenseKey(%s): %v", tt.edition, err)
		}
		if !strings.HasPrefix(key, tt.prefix+"-") {
			t.Errorf("GenerateLicenseKey(%s) = %s, want prefix %s", tt.edition, key, tt.prefix)
		}
		if !keyPattern.MatchString(key) {
			t.Errorf("GenerateLicenseKey(%s) = %s, bad format", tt.edition, key)
		}
	}

	if _, err := GenerateLicenseKey("deluxe"); err == nil {
		t.Error("expected error for unknown edition")
	}
}

func TestGenerateLicenseKeyRandomness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		key, err := GenerateLicenseKey(models.EditionBasic)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[key] {
			t.Fatalf("duplicate key generated: %s", key)
		}
		seen[key] = true
	}
}

func TestParseEdition(t *testing.T) {
	tests := []struct {
		input   string
		want    models.Edition
		wantErr bool
	}{
		{"basic", models.EditionBasic, false},
		{"Basic", models.EditionBasic, false},
		{" server ", models.EditionServer, false},
		{"gamer_ai", models.EditionGamerAI, false},
		{"pro", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEdition(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEdition(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseEdition(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
