package services

import "testing"

func TestNormalizeHandle(t *testing.T) {
	cases := map[string]string{
		"@Author":   "author",
		"author":    "author",
		" @Author ": "author",
		"@":         "",
		"":          "",
	}
	for input, want := range cases {
		if got := NormalizeHandle(input); got != want {
			t.Fatalf("NormalizeHandle(%q) = %q, want %q", input, got, want)
		}
	}
}
