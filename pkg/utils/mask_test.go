package utils

import "testing"

func TestMaskSensitiveString(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"short", "****"},
		{"12345678", "****"},
		{"sk-abcdef123456", "sk-a****3456"},
	}
	for _, c := range cases {
		if got := MaskSensitiveString(c.in); got != c.want {
			t.Fatalf("MaskSensitiveString(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
