// Package classifier runs model inference over queued files and applies
// confidence routing.
//
// The stage loads the decision-tree ensemble once at construction. A
// missing or invalid artifact never halts the pipeline: the classifier
// degrades and routes every item to manual review until a usable model is
// configured.
package classifier
