package version

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidVersion marks strings that are not VV or VVW.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrOrderViolation marks a numeric version older than the assembly
	// line's latest.
	ErrOrderViolation = errors.New("version order violation")
)

const ranks = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Version is a parsed assembly version. Major and Minor are the ranks of the
// two VV symbols in 0-9A-Z; for special versions they carry no ordering.
type Version struct {
	raw             string
	Major           int
	Minor           int
	Intermediate    int
	HasIntermediate bool
	IsSpecial       bool
}

// Parse reads a VV or VVW version string.
func Parse(s string) (Version, error) {
	if len(s) != 2 && len(s) != 3 {
		return Version{}, fmt.Errorf("%w: %q must be 2 or 3 symbols", ErrInvalidVersion, s)
	}
	v := Version{raw: s}
	var ok bool
	if v.Major, ok = rank(s[0]); !ok {
		return Version{}, fmt.Errorf("%w: %q has invalid major symbol", ErrInvalidVersion, s)
	}
	if v.Minor, ok = rank(s[1]); !ok {
		return Version{}, fmt.Errorf("%w: %q has invalid minor symbol", ErrInvalidVersion, s)
	}
	if len(s) == 3 {
		r, ok := rank(s[2])
		if !ok {
			return Version{}, fmt.Errorf("%w: %q has invalid intermediate symbol", ErrInvalidVersion, s)
		}
		// A=1 … Z=26; digits rank below every letter.
		v.Intermediate = r - 9
		v.HasIntermediate = true
	}
	v.IsSpecial = s[0] == 'X'
	return v, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func rank(c byte) (int, bool) {
	idx := strings.IndexByte(ranks, c)
	return idx, idx >= 0
}

// String returns the version as written.
func (v Version) String() string {
	return v.raw
}

// IsNewer reports whether next supersedes old. Special versions are always
// accepted as new and can never be superseded by a numeric one. Two special
// versions are not comparable, so IsNewer is false in both directions.
func IsNewer(old, next Version) bool {
	switch {
	case old.IsSpecial && next.IsSpecial:
		return false
	case next.IsSpecial:
		return true
	case old.IsSpecial:
		return false
	}
	return compareNumeric(old, next) < 0
}

// Compare orders two non-special versions: -1 when a is older, 1 when a is
// newer, 0 when they rank equal. Special versions sort after numeric ones
// and by their text among themselves, for display only.
func Compare(a, b Version) int {
	switch {
	case a.IsSpecial && b.IsSpecial:
		return strings.Compare(a.raw, b.raw)
	case a.IsSpecial:
		return 1
	case b.IsSpecial:
		return -1
	}
	return compareNumeric(a, b)
}

func compareNumeric(a, b Version) int {
	if a.Major != b.Major {
		return sign(a.Major - b.Major)
	}
	if a.Minor != b.Minor {
		return sign(a.Minor - b.Minor)
	}
	if a.HasIntermediate != b.HasIntermediate {
		if a.HasIntermediate {
			return 1
		}
		return -1
	}
	if a.HasIntermediate && a.Intermediate != b.Intermediate {
		return sign(a.Intermediate - b.Intermediate)
	}
	return 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Latest returns the newest non-special version. ok is false when the set is
// empty or holds only special versions.
func Latest(versions []Version) (latest Version, ok bool) {
	for _, v := range versions {
		if v.IsSpecial {
			continue
		}
		if !ok || IsNewer(latest, v) {
			latest, ok = v, true
		}
	}
	return latest, ok
}

// CheckOrder applies the insertion rule for an assembly line whose newest
// numeric version is latest (hasLatest false when there is none): next must
// equal latest, be newer than it, or be special.
func CheckOrder(latest Version, hasLatest bool, next Version) error {
	if !hasLatest || next.IsSpecial {
		return nil
	}
	if next.raw == latest.raw || IsNewer(latest, next) {
		return nil
	}
	return fmt.Errorf("%w: %s is older than latest %s", ErrOrderViolation, next.raw, latest.raw)
}
