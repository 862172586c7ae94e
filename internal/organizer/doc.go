// Package organizer finalizes classified items by moving files into their
// category folder under the library root.
//
// Moves are collision-safe: an occupied destination gets a " (N)" suffix
// before the extension rather than being overwritten. Transient failures
// retry with a fixed backoff, vanished sources are skipped, and a
// cross-process pass guard keeps concurrent runs from racing over the same
// watch directory.
package organizer
