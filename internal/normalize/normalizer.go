// Package normalize implements the team-name canonicalization layer (C1).
// It is the only layer permitted to alter team strings; every downstream
// component assumes names have already passed through Standardize.
package normalize

import (
	"encoding/json"
	"os"
)

// DefaultFuzzyThreshold is the similarity score (0-100) a fuzzy match must
// clear to be accepted, per SPEC_FULL.md §4.1.
const DefaultFuzzyThreshold = 85.0

// Normalizer maps raw, inconsistently-spelled team names onto a fixed set
// of canonical names.
type Normalizer struct {
	mapping        map[string]string
	canonicalNames []string
	threshold      float64
}

// New builds a Normalizer from a raw-to-canonical dictionary. Use Load to
// read one from the TEAM_MAPPING_PATH JSON file.
func New(mapping map[string]string, threshold float64) *Normalizer {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	seen := make(map[string]bool, len(mapping))
	canonical := make([]string, 0, len(mapping))
	for _, v := range mapping {
		if !seen[v] {
			seen[v] = true
			canonical = append(canonical, v)
		}
	}
	return &Normalizer{mapping: mapping, canonicalNames: canonical, threshold: threshold}
}

// Load reads a raw-to-canonical JSON dictionary from path and builds a
// Normalizer from it. An empty path or a missing file yields an empty
// mapping — Standardize then falls back to exact pass-through.
func Load(path string, threshold float64) (*Normalizer, error) {
	if path == "" {
		return New(nil, threshold), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(nil, threshold), nil
	}
	if err != nil {
		return nil, err
	}
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, err
	}
	return New(mapping, threshold), nil
}

// Standardize maps a raw team name to its canonical spelling.
//
//  1. Empty input maps to "Unknown".
//  2. An exact dictionary hit returns the mapped canonical name.
//  3. Otherwise the raw name is fuzzy-matched against the set of canonical
//     values; the best match is accepted if its similarity score is at
//     least the configured threshold (default 85).
//  4. Failing all of that, the raw name is returned unchanged.
func (n *Normalizer) Standardize(raw string) string {
	if raw == "" {
		return "Unknown"
	}
	if canonical, ok := n.mapping[raw]; ok {
		return canonical
	}

	best, bestScore := "", 0.0
	for _, candidate := range n.canonicalNames {
		score := similarityRatio(raw, candidate)
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if best != "" && bestScore >= n.threshold {
		return best
	}
	return raw
}
