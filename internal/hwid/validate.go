package hwid

import "strings"

// Validate checks the format of a hardware id presented to the activation
// API, before any store access. Accepted forms: the TEST- marker prefix used
// by provisioning smoke tests, a plain hexadecimal string, or the HW- grouped
// hex rendering produced by Compute. Anything shorter than 10 characters is
// rejected outright.
func Validate(hw string) bool {
	if len(hw) < 10 {
		return false
	}
	if strings.HasPrefix(hw, "TEST-") {
		return true
	}
	h := strings.TrimPrefix(hw, "HW-")
	h = strings.ReplaceAll(h, "-", "")
	if h == "" {
		return false
	}
	for _, c := range h {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
