package forest

import (
	"encoding/json"
	"fmt"
	"os"

	"downfileorg/internal/classify"
	"downfileorg/internal/services"
)

// UnknownExtensionCode is the reserved ordinal for extensions absent from
// the training-time encoding table.
const UnknownExtensionCode = -1

// TrainingInfo records the ensemble configuration fixed at training time.
// It is provenance only; inference never consults it.
type TrainingInfo struct {
	Trees           int    `json:"trees"`
	MaxDepth        int    `json:"max_depth"`
	MinSamplesSplit int    `json:"min_samples_split"`
	MinSamplesLeaf  int    `json:"min_samples_leaf"`
	ClassWeight     string `json:"class_weight"`
}

// Node is a single decision-tree node. Internal nodes route on
// Values[Feature] <= Threshold; leaves (Left < 0) carry a class
// distribution over the artifact's label list.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Dist      []float64 `json:"dist,omitempty"`
}

// Tree is a flattened decision tree rooted at node 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Artifact is the on-disk model representation.
type Artifact struct {
	SchemaVersion  int            `json:"schema_version"`
	FeatureNames   []string       `json:"feature_names"`
	Labels         []string       `json:"labels"`
	ExtensionCodes map[string]int `json:"extension_codes"`
	Training       TrainingInfo   `json:"training"`
	Trees          []Tree         `json:"trees"`
}

// Load reads, parses, and validates a model artifact.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrModelLoad, "classifier", "read artifact", fmt.Sprintf("Model artifact %q unreadable", path), err)
	}

	var artifact Artifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, services.Wrap(services.ErrModelLoad, "classifier", "parse artifact", fmt.Sprintf("Model artifact %q is not valid JSON", path), err)
	}

	if err := validate(&artifact); err != nil {
		return nil, err
	}

	labels := make([]classify.Category, len(artifact.Labels))
	for i, label := range artifact.Labels {
		cat, _ := classify.ParseCategory(label)
		labels[i] = cat
	}

	codes := make(map[string]int, len(artifact.ExtensionCodes))
	for ext, code := range artifact.ExtensionCodes {
		codes[ext] = code
	}

	return &Model{
		path:     path,
		labels:   labels,
		codes:    codes,
		trees:    artifact.Trees,
		training: artifact.Training,
	}, nil
}

func validate(artifact *Artifact) error {
	if artifact.SchemaVersion != classify.SchemaVersion {
		return services.Wrap(
			services.ErrModelLoad,
			"classifier",
			"validate schema",
			fmt.Sprintf("Artifact feature schema v%d does not match extractor schema v%d; retrain or use a matching model", artifact.SchemaVersion, classify.SchemaVersion),
			nil,
		)
	}

	expected := classify.FeatureNames()
	if len(artifact.FeatureNames) != len(expected) {
		return services.Wrap(
			services.ErrModelLoad,
			"classifier",
			"validate features",
			fmt.Sprintf("Artifact has %d features, extractor emits %d", len(artifact.FeatureNames), len(expected)),
			nil,
		)
	}
	for i, name := range artifact.FeatureNames {
		if name != expected[i] {
			return services.Wrap(
				services.ErrModelLoad,
				"classifier",
				"validate features",
				fmt.Sprintf("Artifact feature %d is %q, extractor emits %q", i, name, expected[i]),
				nil,
			)
		}
	}

	known := classify.Categories()
	if len(artifact.Labels) != len(known) {
		return services.Wrap(
			services.ErrModelLoad,
			"classifier",
			"validate labels",
			fmt.Sprintf("Artifact carries %d labels, expected %d", len(artifact.Labels), len(known)),
			nil,
		)
	}
	for i, label := range artifact.Labels {
		if label != string(known[i]) {
			return services.Wrap(
				services.ErrModelLoad,
				"classifier",
				"validate labels",
				fmt.Sprintf("Artifact label %d is %q, expected %q (labels must be the fixed set in canonical order)", i, label, known[i]),
				nil,
			)
		}
	}

	if len(artifact.Trees) == 0 {
		return services.Wrap(services.ErrModelLoad, "classifier", "validate ensemble", "Artifact contains no trees", nil)
	}
	for ti, tree := range artifact.Trees {
		if len(tree.Nodes) == 0 {
			return services.Wrap(services.ErrModelLoad, "classifier", "validate ensemble", fmt.Sprintf("Tree %d is empty", ti), nil)
		}
		for ni, node := range tree.Nodes {
			if node.Left < 0 {
				if len(node.Dist) != len(known) {
					return services.Wrap(
						services.ErrModelLoad,
						"classifier",
						"validate ensemble",
						fmt.Sprintf("Tree %d leaf %d has %d-class distribution, expected %d", ti, ni, len(node.Dist), len(known)),
						nil,
					)
				}
				continue
			}
			if node.Feature < 0 || node.Feature >= len(expected) {
				return services.Wrap(
					services.ErrModelLoad,
					"classifier",
					"validate ensemble",
					fmt.Sprintf("Tree %d node %d routes on unknown feature %d", ti, ni, node.Feature),
					nil,
				)
			}
			if node.Left >= len(tree.Nodes) || node.Right < 0 || node.Right >= len(tree.Nodes) {
				return services.Wrap(
					services.ErrModelLoad,
					"classifier",
					"validate ensemble",
					fmt.Sprintf("Tree %d node %d references out-of-range children", ti, ni),
					nil,
				)
			}
		}
	}
	return nil
}

// Save serializes an artifact to path. Used by tooling and tests; the
// organizer pipeline only ever loads.
func (a *Artifact) Save(path string) error {
	raw, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}
