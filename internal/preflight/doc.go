// Package preflight validates the environment before organization runs:
// directory permissions, disk headroom, and the model artifact.
package preflight
