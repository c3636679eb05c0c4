// Command fixtures manages manufacturing fixture identifiers: it parses and
// formats identifiers, allocates fixture numbers, registers fixtures with
// their storage folders, and maintains the classification catalog.
package main
