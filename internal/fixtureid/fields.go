package fixtureid

import (
	"fmt"
	"path/filepath"
	"strings"

	"fixtures/internal/radix"
)

// Fields holds the named segments of a fixture identifier
// KKK.SNN.DTT.AABBCC-VVW. IntermediateVersion is empty when W is absent.
type Fields struct {
	Category            string `json:"category"`
	Series              string `json:"series"`
	ItemNumber          string `json:"item_number"`
	Operation           string `json:"operation"`
	FixtureNumber       string `json:"fixture_number"`
	UniqueParts         string `json:"unique_parts"`
	PartInAssembly      string `json:"part_in_assembly"`
	PartQuantity        string `json:"part_quantity"`
	AssemblyVersion     string `json:"assembly_version"`
	IntermediateVersion string `json:"intermediate_version,omitempty"`
}

// Tuple is the classification scope used for fixture-number allocation.
type Tuple struct {
	Category   string `json:"category"`
	Series     string `json:"series"`
	ItemNumber string `json:"item_number"`
	Operation  string `json:"operation"`
}

// LineKey identifies one versioned assembly line.
type LineKey struct {
	Tuple
	FixtureNumber string `json:"fixture_number"`
	UniqueParts   string `json:"unique_parts"`
}

// HasIntermediate reports whether the W segment is present.
func (f Fields) HasIntermediate() bool {
	return f.IntermediateVersion != ""
}

// Version returns VV followed by W when present.
func (f Fields) Version() string {
	return f.AssemblyVersion + f.IntermediateVersion
}

// Tuple returns the four classification codes.
func (f Fields) Tuple() Tuple {
	return Tuple{
		Category:   f.Category,
		Series:     f.Series,
		ItemNumber: f.ItemNumber,
		Operation:  f.Operation,
	}
}

// LineKey returns the assembly line the identifier belongs to.
func (f Fields) LineKey() LineKey {
	return LineKey{
		Tuple:         f.Tuple(),
		FixtureNumber: f.FixtureNumber,
		UniqueParts:   f.UniqueParts,
	}
}

// String formats the tuple as KKK.SNN.D.
func (t Tuple) String() string {
	return t.Category + "." + t.Series + t.ItemNumber + "." + t.Operation
}

// Validate checks every field against the grammar's width and character
// class rules.
func (f Fields) Validate() error {
	checks := []struct {
		name  string
		value string
		ok    bool
	}{
		{"category", f.Category, isCategory(f.Category)},
		{"series", f.Series, isAlnum(f.Series, 1)},
		{"item number", f.ItemNumber, isAlnum(f.ItemNumber, 2)},
		{"operation", f.Operation, isAlnum(f.Operation, 1)},
		{"fixture number", f.FixtureNumber, isAlnum(f.FixtureNumber, 2)},
		{"unique parts", f.UniqueParts, isAlnum(f.UniqueParts, 2)},
		{"part in assembly", f.PartInAssembly, isAlnum(f.PartInAssembly, 2)},
		{"part quantity", f.PartQuantity, isAlnum(f.PartQuantity, 2)},
		{"assembly version", f.AssemblyVersion, isAlnum(f.AssemblyVersion, 2)},
		{"intermediate version", f.IntermediateVersion, f.IntermediateVersion == "" || isAlnum(f.IntermediateVersion, 1)},
	}
	for _, c := range checks {
		if !c.ok {
			return &ParseError{Input: Format(f), Reason: fmt.Sprintf("invalid %s %q", c.name, c.value)}
		}
	}
	return nil
}

// ValidateFixtureNumber checks that TT decodes in the radix alphabet. The
// allocator reads every stored fixture number of a tuple, so this holds
// whatever the label policy says.
func (f Fields) ValidateFixtureNumber() error {
	if !radix.ValidLabel(f.FixtureNumber, 2) {
		return fmt.Errorf("%w: fixture number %q uses symbols outside %s", ErrLabelAlphabet, f.FixtureNumber, radix.Alphabet)
	}
	return nil
}

// ValidateLabels applies the printable-label policy: part counts and
// versions may only use the radix alphabet, and the part number within the
// assembly may not exceed the unique part count. The fixture number is
// checked too.
func (f Fields) ValidateLabels() error {
	if err := f.ValidateFixtureNumber(); err != nil {
		return err
	}
	labels := []struct {
		name  string
		value string
		width int
	}{
		{"unique parts", f.UniqueParts, 2},
		{"part in assembly", f.PartInAssembly, 2},
		{"part quantity", f.PartQuantity, 2},
		{"assembly version", f.AssemblyVersion, 2},
	}
	if f.HasIntermediate() {
		labels = append(labels, struct {
			name  string
			value string
			width int
		}{"intermediate version", f.IntermediateVersion, 1})
	}
	for _, l := range labels {
		if !radix.ValidLabel(l.value, l.width) {
			return fmt.Errorf("%w: %s %q uses symbols outside %s", ErrLabelAlphabet, l.name, l.value, radix.Alphabet)
		}
	}

	unique, err := radix.Decode(f.UniqueParts)
	if err != nil {
		return err
	}
	part, err := radix.Decode(f.PartInAssembly)
	if err != nil {
		return err
	}
	if part > unique {
		return fmt.Errorf("%w: part %s exceeds unique part count %s", ErrPartOutOfRange, f.PartInAssembly, f.UniqueParts)
	}
	return nil
}

// FolderName is the version folder for the identifier. PartInAssembly and
// PartQuantity are replaced by zeros so every part of one assembly version
// shares a folder.
func (f Fields) FolderName() string {
	return f.Category + "." + f.Series + f.ItemNumber + "." + f.Operation + f.FixtureNumber + "." +
		f.UniqueParts + "0000-" + f.AssemblyVersion + f.IntermediateVersion
}

// RelativeDir returns the nested storage path for the identifier:
// KKK/KKK.SNN/KKK.SNN.DTT/<FolderName>.
func (f Fields) RelativeDir() string {
	category := f.Category
	seriesItem := category + "." + f.Series + f.ItemNumber
	operationFixture := seriesItem + "." + f.Operation + f.FixtureNumber
	return filepath.Join(category, seriesItem, operationFixture, f.FolderName())
}

// FileName returns the attachment name for a file with extension ext.
func (f Fields) FileName(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return Format(f) + ext
}

func isCategory(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

func isAlnum(s string, width int) bool {
	if len(s) != width {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
