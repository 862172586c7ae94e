package stage

import (
	"encoding/json"
	"sort"

	"downfileorg/internal/services"
)

// EncodeProbabilities serializes a per-category probability map for storage
// on a queue item. Keys are emitted in sorted order so the stored form is
// deterministic.
func EncodeProbabilities(probs map[string]float64) (string, error) {
	if len(probs) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(probs)
	if err != nil {
		return "", services.Wrap(
			services.ErrValidation, "stage", "encode probabilities",
			"Classification probabilities could not be serialized", err)
	}
	return string(raw), nil
}

// ParseProbabilities decodes a stored probability map. An empty payload
// yields a nil map, not an error.
func ParseProbabilities(raw string) (map[string]float64, error) {
	if raw == "" {
		return nil, nil
	}
	var probs map[string]float64
	if err := json.Unmarshal([]byte(raw), &probs); err != nil {
		return nil, services.Wrap(
			services.ErrValidation, "stage", "parse probabilities",
			"Stored classification probabilities are corrupt; reclassify the item", err)
	}
	return probs, nil
}

// SortedCategories returns the probability map's keys ordered by descending
// probability, ties broken alphabetically.
func SortedCategories(probs map[string]float64) []string {
	keys := make([]string, 0, len(probs))
	for key := range probs {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if probs[keys[i]] != probs[keys[j]] {
			return probs[keys[i]] > probs[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
