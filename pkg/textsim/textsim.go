// Package textsim provides text normalization and pluggable similarity scorers
// used to compare free-text questions and interests.
package textsim

import (
	"strings"
	"unicode"
)

// Scorer rates the similarity of two strings in [0, 1].
// Implementations must be deterministic and symmetric.
type Scorer interface {
	Score(a, b string) float64
}

// Normalize trims, case-folds and collapses internal whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "from": {}, "as": {},
	"is": {}, "are": {}, "was": {}, "be": {}, "been": {}, "do": {}, "does": {}, "did": {},
	"i": {}, "me": {}, "my": {}, "you": {}, "your": {}, "we": {}, "it": {}, "its": {},
	"this": {}, "that": {}, "there": {}, "can": {}, "could": {}, "should": {}, "would": {},
	"will": {}, "what": {}, "how": {}, "which": {}, "who": {}, "when": {}, "where": {},
	"please": {}, "about": {}, "any": {}, "if": {}, "so": {},
}

// Tokenize splits text into lowercased alphanumeric terms and drops stopwords.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokenize(s) {
		set[t] = struct{}{}
	}
	return set
}

// TokenOverlap scores by the Dice coefficient of the two token sets.
type TokenOverlap struct{}

func (TokenOverlap) Score(a, b string) float64 {
	if Normalize(a) == Normalize(b) {
		return 1
	}

	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(setA)+len(setB))
}

// EditDistance scores by 1 - levenshtein(a, b) / max(len(a), len(b)) over normalized runes.
type EditDistance struct{}

func (EditDistance) Score(a, b string) float64 {
	ra, rb := []rune(Normalize(a)), []rune(Normalize(b))
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Weighted is one component of a Blend.
type Weighted struct {
	Scorer Scorer
	Weight float64
}

// Blend combines scorers by normalized weighted sum.
type Blend []Weighted

func (b Blend) Score(x, y string) float64 {
	total, weights := 0.0, 0.0
	for _, w := range b {
		if w.Weight <= 0 {
			continue
		}
		total += w.Weight * w.Scorer.Score(x, y)
		weights += w.Weight
	}
	if weights == 0 {
		return 0
	}
	return total / weights
}

// Default is the scorer used for FAQ matching: mostly token overlap, with
// edit distance to absorb typos and word-order changes.
func Default() Scorer {
	return Blend{
		{Scorer: TokenOverlap{}, Weight: 0.7},
		{Scorer: EditDistance{}, Weight: 0.3},
	}
}
