// Package catalogimport loads catalog rows from a YAML file into the store.
//
// The file holds four lists (categories, series, items, operations). Rows
// are upserted parents first so a single file can introduce a whole
// category tree. Nothing is deleted: keys present in the store but absent
// from the file are reported for reconciliation.
package catalogimport
