// Package config loads, normalizes, and validates fixtures configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the FIXTURES_ROOT environment
// fallback for the fixture storage root. Always obtain settings through this
// package so downstream code receives absolute paths and canonical log
// formats.
package config
