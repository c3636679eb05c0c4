// Package textutil provides text helpers for catalog names and attachment names.
//
// NormalizeName canonicalizes display names before they are compared or
// stored, so re-importing the same catalog never reports spurious updates.
// FileExtension reduces a source file's extension to the ASCII letters and
// digits an attachment name may carry.
package textutil
