// Package daemon coordinates the long-running watch process.
//
// It wires configuration, queue storage, the workflow manager, and the
// change monitor into a single lifecycle with flock-based locking to
// prevent multiple instances. Startup rolls stranded items back to their
// stage entry status and optionally queues files already sitting in the
// watch directory.
package daemon
