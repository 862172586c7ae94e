package testsupport

import (
	"testing"

	"downfileorg/internal/classify"
	"downfileorg/internal/forest"
)

// trainingColumnOrder matches the keyword and extension feature blocks in
// the canonical feature layout.
var trainingColumnOrder = []classify.Category{
	classify.CategoryEducation,
	classify.CategoryMovies,
	classify.CategoryGames,
	classify.CategoryApps,
	classify.CategoryEntertainment,
	classify.CategoryCareer,
	classify.CategoryFinance,
	classify.CategoryOthers,
}

// WriteModel writes a small deterministic model artifact to path. Its trees
// route on keyword counts first and extension matches second, so files with
// a recognizable name or extension classify with high confidence while
// everything else lands near the uniform distribution.
func WriteModel(t testing.TB, path string) {
	t.Helper()

	artifact := BuildModelArtifact()
	if err := artifact.Save(path); err != nil {
		t.Fatalf("save model artifact: %v", err)
	}
}

// BuildModelArtifact constructs the deterministic test ensemble without
// writing it to disk.
func BuildModelArtifact() *forest.Artifact {
	labels := make([]string, 0, classify.CategoryCount)
	for _, cat := range classify.Categories() {
		labels = append(labels, string(cat))
	}

	tree := buildDecisionChain()
	return &forest.Artifact{
		SchemaVersion: classify.SchemaVersion,
		FeatureNames:  classify.FeatureNames(),
		Labels:        labels,
		ExtensionCodes: map[string]int{
			".pdf": 0, ".docx": 1, ".txt": 2, ".mp4": 3, ".mkv": 4,
			".exe": 5, ".zip": 6, ".mp3": 7, ".xlsx": 8, ".csv": 9,
			".log": 10, ".tmp": 11,
		},
		Training: forest.TrainingInfo{
			Trees:           3,
			MaxDepth:        17,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
			ClassWeight:     "balanced",
		},
		Trees: []forest.Tree{tree, tree, tree},
	}
}

// buildDecisionChain produces one flattened tree: a chain of internal
// nodes testing each keyword count, then each extension flag, in training
// column order. A positive test routes right to a leaf concentrated on
// that category; exhausting the chain lands on a uniform leaf.
func buildDecisionChain() forest.Tree {
	var nodes []forest.Node

	labelIndex := make(map[classify.Category]int, classify.CategoryCount)
	for i, cat := range classify.Categories() {
		labelIndex[cat] = i
	}

	appendCheck := func(feature int, cat classify.Category) {
		dist := make([]float64, classify.CategoryCount)
		for i := range dist {
			dist[i] = 0.1 / float64(classify.CategoryCount-1)
		}
		dist[labelIndex[cat]] = 0.9

		internal := len(nodes)
		leaf := internal + 1
		next := internal + 2
		nodes = append(nodes,
			forest.Node{Feature: feature, Threshold: 0.5, Left: next, Right: leaf},
			forest.Node{Feature: -1, Left: -1, Right: -1, Dist: dist},
		)
	}

	const keywordBase = 8
	const extMatchBase = 16
	for i, cat := range trainingColumnOrder {
		// The others keyword list is mostly noise words ("file", "data"),
		// so the deterministic chain ignores it.
		if cat == classify.CategoryOthers {
			continue
		}
		appendCheck(keywordBase+i, cat)
	}
	for i, cat := range trainingColumnOrder {
		appendCheck(extMatchBase+i, cat)
	}

	uniform := make([]float64, classify.CategoryCount)
	for i := range uniform {
		uniform[i] = 1.0 / float64(classify.CategoryCount)
	}
	nodes = append(nodes, forest.Node{Feature: -1, Left: -1, Right: -1, Dist: uniform})

	return forest.Tree{Nodes: nodes}
}
