package fixtureid

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrParse marks identifiers that do not match the grammar.
	ErrParse = errors.New("parse error")
	// ErrLabelAlphabet marks label fields using I, J, L, O or other symbols
	// outside the radix alphabet.
	ErrLabelAlphabet = fmt.Errorf("%w: label alphabet", ErrParse)
	// ErrPartOutOfRange marks a part number larger than the unique part count.
	ErrPartOutOfRange = fmt.Errorf("%w: part out of range", ErrParse)
)

// ParseError describes why an identifier was rejected.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse identifier %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

var grammar = regexp.MustCompile(
	`^([A-Z]{2,3})\.([A-Z0-9])([A-Z0-9]{2})\.([A-Z0-9])([A-Z0-9]{2})\.([A-Z0-9]{2})([A-Z0-9]{2})([A-Z0-9]{2})-([A-Z0-9]{2})([A-Z0-9]?)$`,
)

// Parse splits a canonical identifier into its fields.
func Parse(s string) (Fields, error) {
	m := grammar.FindStringSubmatch(s)
	if m == nil {
		return Fields{}, &ParseError{Input: s, Reason: diagnose(s)}
	}
	return Fields{
		Category:            m[1],
		Series:              m[2],
		ItemNumber:          m[3],
		Operation:           m[4],
		FixtureNumber:       m[5],
		UniqueParts:         m[6],
		PartInAssembly:      m[7],
		PartQuantity:        m[8],
		AssemblyVersion:     m[9],
		IntermediateVersion: m[10],
	}, nil
}

// Format joins fields into the canonical identifier. It does not validate;
// call Validate first when the fields come from user input.
func Format(f Fields) string {
	var b strings.Builder
	b.Grow(22)
	b.WriteString(f.Category)
	b.WriteByte('.')
	b.WriteString(f.Series)
	b.WriteString(f.ItemNumber)
	b.WriteByte('.')
	b.WriteString(f.Operation)
	b.WriteString(f.FixtureNumber)
	b.WriteByte('.')
	b.WriteString(f.UniqueParts)
	b.WriteString(f.PartInAssembly)
	b.WriteString(f.PartQuantity)
	b.WriteByte('-')
	b.WriteString(f.AssemblyVersion)
	b.WriteString(f.IntermediateVersion)
	return b.String()
}

// Normalize trims and upper-cases free-form input before Parse.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidCategoryCode reports whether code fits the KKK segment.
func ValidCategoryCode(code string) bool { return isCategory(code) }

// ValidSeriesCode reports whether code fits the S segment.
func ValidSeriesCode(code string) bool { return isAlnum(code, 1) }

// ValidItemCode reports whether code fits the NN segment.
func ValidItemCode(code string) bool { return isAlnum(code, 2) }

// ValidOperationCode reports whether code fits the D segment.
func ValidOperationCode(code string) bool { return isAlnum(code, 1) }

// diagnose produces a short reason for a grammar mismatch.
func diagnose(s string) string {
	if s == "" {
		return "empty identifier"
	}
	head, version, found := strings.Cut(s, "-")
	if !found {
		return "missing '-' before the assembly version"
	}
	segments := strings.Split(head, ".")
	if len(segments) != 4 {
		return fmt.Sprintf("expected 4 dot-separated segments before '-', got %d", len(segments))
	}
	switch {
	case !isCategory(segments[0]):
		return fmt.Sprintf("category %q must be 2-3 upper-case letters", segments[0])
	case !isAlnum(segments[1], 3):
		return fmt.Sprintf("series and item %q must be 3 upper-case alphanumerics", segments[1])
	case !isAlnum(segments[2], 3):
		return fmt.Sprintf("operation and fixture number %q must be 3 upper-case alphanumerics", segments[2])
	case !isAlnum(segments[3], 6):
		return fmt.Sprintf("part block %q must be 6 upper-case alphanumerics", segments[3])
	}
	if len(version) < 2 || len(version) > 3 || !isAlnum(version, len(version)) {
		return fmt.Sprintf("version %q must be 2 upper-case alphanumerics plus an optional intermediate", version)
	}
	return "does not match KKK.SNN.DTT.AABBCC-VVW"
}
