// Package dataio reads spectral data and band initialisations, and stores
// fit result tables.
//
// Arrays are decoded from nested JSON or YAML lists keyed by name, for
// example {"E": [...], "V": [[[...]]]}. Result tables are written as CSV,
// JSON, YAML or an SQLite table; the format is chosen by file extension.
package dataio
