package utils

// MaskSensitiveString hides the middle of a secret, keeping just enough of
// the edges to let a user recognize which key it is.
func MaskSensitiveString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
