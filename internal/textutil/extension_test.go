package textutil_test

import (
	"testing"

	"fixtures/internal/textutil"
)

func TestFileExtension(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"drawing":                  "",
		"/tmp/drawing.pdf":         ".pdf",
		" model.STEP ":             ".STEP",
		"archive.tar.gz":           ".gz",
		"odd.p d*f":                ".pdf",
		"wide.ｐｄｆ":                 ".pdf",
		"trailing.":                "",
		"long.abcdefghijklmnopqrs": ".abcdefghijklmnop",
	}
	for in, want := range cases {
		if got := textutil.FileExtension(in); got != want {
			t.Fatalf("FileExtension(%q) = %q, want %q", in, got, want)
		}
	}
}
