package store

import "errors"

var (
	// ErrNotFound marks lookups of ids, identifiers or codes that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate marks inserts colliding with an existing identifier or
	// storage folder.
	ErrDuplicate = errors.New("duplicate")
	// ErrReferentialIntegrity marks rows whose parent catalog entry is missing.
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	// ErrInvalidCode marks catalog codes of the wrong width or character class.
	ErrInvalidCode = errors.New("invalid catalog code")
	// ErrLocked is returned by Open when another process holds the store.
	ErrLocked = errors.New("store locked by another process")
	// ErrSchemaMismatch indicates the database schema version doesn't match
	// the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)
