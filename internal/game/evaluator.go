package game

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// maxEditDistance bounds the typo tolerance of the fuzzy match.
const maxEditDistance = 3

// minFuzzyRunes is the exclusive length floor for fuzzy matching; very
// short guesses would otherwise match half the short country names.
const minFuzzyRunes = 3

//go:embed aliases.yaml
var aliasesYAML []byte

// Evaluator matches free-text guesses against a target country name:
// exact match first, then the curated alias table, then bounded
// edit-distance fuzzy matching.
type Evaluator struct {
	aliases map[string][]string
}

func NewEvaluator() (*Evaluator, error) {
	aliases := make(map[string][]string)
	if err := yaml.Unmarshal(aliasesYAML, &aliases); err != nil {
		return nil, fmt.Errorf("parsing alias table: %w", err)
	}
	return &Evaluator{aliases: aliases}, nil
}

// Normalize lowercases and trims guess or target text for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Match reports whether guess names the target country. Both inputs are
// normalized internally; an empty normalized guess never matches and is
// expected to be rejected upstream as invalid input.
func (e *Evaluator) Match(guess, target string) bool {
	g := Normalize(guess)
	t := Normalize(target)
	if g == "" {
		return false
	}
	if g == t {
		return true
	}
	if alts, ok := e.aliases[t]; ok && slices.Contains(alts, g) {
		return true
	}
	if len([]rune(g)) > minFuzzyRunes && levenshtein.ComputeDistance(g, t) <= maxEditDistance {
		return true
	}
	return false
}
