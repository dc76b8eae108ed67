package license

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"aegisd/internal/models"
)

// editionPrefixes maps each edition to the 4-character prefix used in
// generated license keys, e.g. BSIC-7F2K-QQ1M-09ZX.
var editionPrefixes = map[models.Edition]string{
	models.EditionBasic:       "BSIC",
	models.EditionWorkplace:   "WORK",
	models.EditionGamer:       "GMRP",
	models.EditionAIDeveloper: "AIDV",
	models.EditionGamerAI:     "GMAI",
	models.EditionServer:      "SERV",
	models.EditionFreemium:    "FREE",
}

const keyCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ParseEdition validates an edition name from CLI or API input.
func ParseEdition(s string) (models.Edition, error) {
	e := models.Edition(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := editionPrefixes[e]; !ok {
		return "", fmt.Errorf("unknown edition: %q", s)
	}
	return e, nil
}

// Editions returns the known edition names, for CLI usage strings.
func Editions() []string {
	names := make([]string, 0, len(editionPrefixes))
	for e := range editionPrefixes {
		names = append(names, string(e))
	}
	return names
}

// GenerateLicenseKey produces a key of the form PREF-XXXX-XXXX-XXXX where the
// prefix identifies the edition and the three groups are drawn from
// crypto/rand over A-Z0-9.
func GenerateLicenseKey(edition models.Edition) (string, error) {
	prefix, ok := editionPrefixes[edition]
	if !ok {
		return "", fmt.Errorf("unknown edition: %q", edition)
	}

	groups := make([]string, 0, 4)
	groups = append(groups, prefix)
	for g := 0; g < 3; g++ {
		b := make([]byte, 4)
		for i := range b {
			num, err := rand.Int(rand.Reader, big.NewInt(int64(len(keyCharset))))
			if err != nil {
				return "", err
			}
			b[i] = keyCharset[num.Int64()]
		}
		groups = append(groups, string(b))
	}
	return strings.Join(groups, "-"), nil
}
