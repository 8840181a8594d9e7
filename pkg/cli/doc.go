// Package cli provides small helpers shared by the sigil commands:
// typed command errors and signal-aware shutdown plumbing.
package cli
