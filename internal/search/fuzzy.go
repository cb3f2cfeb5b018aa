package search

import (
	"sort"
	"strings"

	"wortwallet/internal/domain"

	"github.com/agext/levenshtein"
)

// Fuzzy matches wallet words against a keyword using a normalized
// edit-distance score over the front and back strings. A score of 0 is an
// exact or substring match, 1 means no similarity; a word is kept when its
// best score stays at or below the threshold, so a lower threshold is
// stricter. Matching is case-insensitive.
type Fuzzy struct {
	params *levenshtein.Params
}

// NewFuzzy creates a fuzzy search provider with default match parameters
func NewFuzzy() *Fuzzy {
	return &Fuzzy{params: levenshtein.NewParams()}
}

// Search returns the words matching keyword, best match first. An empty
// keyword returns no results; callers must substitute the unfiltered
// collection when no keyword is active.
func (f *Fuzzy) Search(words []domain.Word, keyword string, threshold float64) []domain.Word {
	if keyword == "" {
		return nil
	}

	needle := strings.ToLower(keyword)

	type scoredWord struct {
		word  domain.Word
		score float64
	}

	var hits []scoredWord
	for _, w := range words {
		score := f.score(needle, w.Front)
		if backScore := f.score(needle, w.Back); backScore < score {
			score = backScore
		}
		if score <= threshold {
			hits = append(hits, scoredWord{word: w, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score < hits[j].score
	})

	result := make([]domain.Word, len(hits))
	for i, h := range hits {
		result[i] = h.word
	}
	return result
}

func (f *Fuzzy) score(needle, field string) float64 {
	hay := strings.ToLower(field)
	if hay == "" {
		return 1
	}
	if strings.Contains(hay, needle) {
		return 0
	}
	return 1 - levenshtein.Similarity(hay, needle, f.params)
}
