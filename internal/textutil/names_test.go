package textutil_test

import (
	"testing"

	"fixtures/internal/textutil"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Clamp   Base ", "Clamp Base"},
		{"Cafe\u0301 Jig", "Caf\u00e9 Jig"},
		{"Pru\u0308fstand", "Pr\u00fcfstand"},
		{"\tLine\nBreak", "Line Break"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := textutil.NormalizeName(tc.in); got != tc.want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSameNameIgnoresComposition(t *testing.T) {
	if !textutil.SameName("Pr\u00fcfstand", "Pru\u0308fstand ") {
		t.Fatal("expected composed and decomposed forms to match")
	}
	if textutil.SameName("Clamp", "clamp") {
		t.Fatal("expected case to remain significant")
	}
}
