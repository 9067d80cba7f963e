// Package ops drives batch operations over one or more bags: CSV export,
// channel pick/remove filtering, bag inspection, and JSON-lines import.
//
// Per-file and per-channel failures are logged with enough context to locate
// the offending input and the batch continues with the next job; a partially
// written CSV is removed so surviving files always carry a consistent header.
package ops
