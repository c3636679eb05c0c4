// Package radix converts non-negative integers to and from the 32-symbol
// alphabet printed on fixture labels.
//
// The alphabet is 0-9 followed by A-Z without I, J, L and O. Fixture numbers
// are stored as two-symbol encodings; the other two-symbol identifier fields
// (part counts, versions) share the same character class without being
// treated as numbers, so ValidLabel is exported for them.
package radix
