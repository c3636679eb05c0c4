package textutil

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxExtensionLen = 16

// FileExtension returns the extension of path reduced to ASCII letters and
// digits, with its leading dot. Compatibility forms such as fullwidth letters
// fold to ASCII first. Anything that leaves no usable symbols yields "".
func FileExtension(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(strings.TrimSpace(path)), ".")
	ext = norm.NFKC.String(ext)

	var b strings.Builder
	for _, r := range ext {
		if b.Len() == maxExtensionLen {
			break
		}
		if r < 0x80 && (r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}
