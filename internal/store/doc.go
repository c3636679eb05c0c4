// Package store persists the fixture catalog and fixture records in SQLite.
//
// The catalog half holds the four classification levels (categories, series,
// item numbers, operations). Catalog rows are only ever upserted; the upsert
// reports whether a row was added, updated, skipped because nothing changed,
// or rejected. The fact half holds one row per fixture identifier together
// with its derived storage folder.
//
// Open takes an advisory lock next to the database so only one process writes
// at a time. Schema changes bump schemaVersion in schema.go; an existing
// database with a different version is refused rather than migrated.
package store
