package store

import "testing"

func TestLikePattern(t *testing.T) {
	cases := map[string]string{
		"":       "%%",
		"go":     "%go%",
		"50%":    `%50\%%`,
		"a_b":    `%a\_b%`,
		`c:\tmp`: `%c:\\tmp%`,
	}
	for in, want := range cases {
		if got := LikePattern(in); got != want {
			t.Errorf("LikePattern(%q) = %q, want %q", in, got, want)
		}
	}
}
