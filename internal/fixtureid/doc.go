// Package fixtureid parses and formats fixture identifiers.
//
// The canonical form is KKK.SNN.DTT.AABBCC-VVW: category (2-3 letters),
// series and item number, operation and fixture number, the part block
// (unique parts, part in assembly, part quantity), then the assembly version
// with an optional one-symbol intermediate version. Parse and Format are exact
// inverses over well-formed input.
//
// The grammar accepts any upper-case alphanumeric in the label fields;
// ValidateLabels layers the narrower printable-label alphabet on top for
// values that are meant to be read off a physical label. Fields also derives
// the assembly line key, the allocation tuple and the storage folder layout
// so every caller agrees on them.
package fixtureid
