// Package version orders assembly versions.
//
// A version is VV or VVW. Versions whose first symbol is X are "special":
// they are always accepted on insert, never count towards the latest version
// of an assembly line, and are not ordered against each other.
package version
