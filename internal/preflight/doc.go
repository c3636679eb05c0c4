// Package preflight provides readiness checks for the directories and
// database the fixture registry depends on.
//
// The CLI "fixtures doctor" command runs RunAll plus CheckDatabase and
// prints one line per Result.
package preflight
