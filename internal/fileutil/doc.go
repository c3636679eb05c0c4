// Package fileutil copies attachment files into fixture folders with size and
// SHA-256 verification.
package fileutil
