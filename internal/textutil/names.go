package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName canonicalizes a catalog display name: Unicode NFC
// composition, surrounding whitespace trimmed, inner runs of whitespace
// collapsed to one space. Two names that render identically compare equal
// after normalization.
func NormalizeName(name string) string {
	name = norm.NFC.String(name)
	return strings.Join(strings.Fields(name), " ")
}

// SameName reports whether two names are equal after NormalizeName.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
