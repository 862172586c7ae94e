package forest

import (
	"fmt"

	"downfileorg/internal/classify"
	"downfileorg/internal/services"
)

// Result is the outcome of a single classification: the top label, the
// probability mass behind it, and the full distribution over all labels.
type Result struct {
	Category      classify.Category
	Confidence    float64
	Probabilities map[classify.Category]float64
}

// Model is a loaded, immutable decision-tree ensemble.
type Model struct {
	path     string
	labels   []classify.Category
	codes    map[string]int
	trees    []Tree
	training TrainingInfo
}

// Path returns the artifact location the model was loaded from.
func (m *Model) Path() string { return m.path }

// Labels returns the model's ordered label list.
func (m *Model) Labels() []classify.Category {
	cp := make([]classify.Category, len(m.labels))
	copy(cp, m.labels)
	return cp
}

// Training returns the training-time ensemble configuration.
func (m *Model) Training() TrainingInfo { return m.training }

// TreeCount returns the number of trees in the ensemble.
func (m *Model) TreeCount() int { return len(m.trees) }

// EncodeExtension maps an extension to its training-time ordinal. Unseen
// extensions map to the reserved unknown code rather than failing.
func (m *Model) EncodeExtension(ext string) int {
	if code, ok := m.codes[ext]; ok {
		return code
	}
	return UnknownExtensionCode
}

// Predict averages per-tree class distributions for the vector and returns
// the argmax label. Ties break toward the earlier label in canonical order,
// so repeated runs on the same input always agree.
func (m *Model) Predict(vector classify.FeatureVector) (Result, error) {
	if len(vector.Values) != classify.FeatureCount {
		return Result{}, services.Wrap(
			services.ErrFeatureSchema,
			"classifier",
			"validate vector",
			fmt.Sprintf("Vector has %d features, model expects %d", len(vector.Values), classify.FeatureCount),
			nil,
		)
	}

	values := make([]float64, len(vector.Values))
	copy(values, vector.Values)
	values[0] = float64(m.EncodeExtension(vector.Extension))

	sums := make([]float64, len(m.labels))
	voted := 0
	for _, tree := range m.trees {
		dist := tree.classify(values)
		total := 0.0
		for _, p := range dist {
			total += p
		}
		if total <= 0 {
			continue
		}
		for i, p := range dist {
			sums[i] += p / total
		}
		voted++
	}
	if voted == 0 {
		// Degenerate ensemble: fall back to a uniform distribution so the
		// routing policy sends the file to manual review.
		for i := range sums {
			sums[i] = 1
		}
		voted = len(sums)
	}

	probabilities := make(map[classify.Category]float64, len(m.labels))
	best := 0
	for i := range sums {
		sums[i] /= float64(voted)
		probabilities[m.labels[i]] = sums[i]
		if sums[i] > sums[best] {
			best = i
		}
	}

	return Result{
		Category:      m.labels[best],
		Confidence:    sums[best],
		Probabilities: probabilities,
	}, nil
}

// classify walks the tree from the root and returns the leaf distribution.
func (t Tree) classify(values []float64) []float64 {
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := t.Nodes[idx]
		if node.Left < 0 {
			return node.Dist
		}
		if values[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	// Cyclic tree; validation rejects anything that can reach this.
	return nil
}
