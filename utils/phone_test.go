package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"+38 (097) 324 46 68", "+380973244668"},
		{"097 324 46 68", "+380973244668"},
		{"0973244668", "+380973244668"},
		{"+380973244668", "+380973244668"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.raw)
		if err != nil {
			t.Errorf("NormalizePhone(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizePhoneRejectsJunk(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "123"} {
		if got, err := NormalizePhone(raw); err == nil {
			t.Errorf("NormalizePhone(%q) = %q, want error", raw, got)
		}
	}
}

func TestViberReceiver(t *testing.T) {
	if got := ViberReceiver("+38 (097) 324 46 68"); got != "380973244668" {
		t.Errorf("ViberReceiver = %q", got)
	}
}
