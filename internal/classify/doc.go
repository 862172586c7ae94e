// Package classify defines the fixed category set, the file metadata
// snapshot taken at observation time, and the feature extractor that turns
// that snapshot into the numeric vector the classifier consumes.
//
// Extraction is deterministic and performs no I/O beyond the metadata
// already captured on the FileRecord. The feature schema is versioned;
// model artifacts trained against a different schema are rejected at load.
package classify
