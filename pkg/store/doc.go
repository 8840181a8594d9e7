// Package store implements the persistent fact store backing the
// hasFact builtin.
//
// Facts are plain text keyed by subject and kept in a SQLite database
// (WAL mode, busy timeout). Match checks whether any stored subject
// matches a caller-supplied pattern; the pattern goes through the same
// structural validation as patterns written inside conditions, so a
// hostile pattern is rejected before it ever reaches the regexp engine.
package store
