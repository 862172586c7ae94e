// Package forest loads serialized decision-tree ensembles and runs
// inference over feature vectors produced by the classify package.
//
// A model artifact is a single JSON file carrying the trained trees, the
// feature schema version and ordered feature-name list from training time,
// and the extension encoding table. Loading validates all of these against
// the running extractor; a mismatch is a load error, never a silent
// misclassification. A loaded Model is immutable and safe for concurrent
// Predict calls.
package forest
