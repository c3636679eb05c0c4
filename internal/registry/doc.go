// Package registry creates, looks up and deletes fixture records.
//
// Create parses the identifier, checks it against the catalog and the
// version order of its assembly line, creates the storage folder under the
// fixture root and stores the record, all or nothing. Delete removes the
// record and, once no other record shares the folder, the folder itself.
// The registry also hands out fixture numbers and copies attachments into a
// fixture's folder.
package registry
