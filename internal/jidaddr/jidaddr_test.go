package jidaddr

import "testing"

func TestValid(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"room@example.com", true},
		{"alice@conference.example.org", true},
		{"", false},
		{"noatsign", false},
		{"@example.com", false},
		{"room@", false},
		{"room@nodot", false},
		{"ro om@example.com", false},
		{"room@exa mple.com", false},
		{"room@two@example.com", false},
	}
	for _, tc := range cases {
		if got := Valid(tc.name); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
