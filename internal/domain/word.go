package domain

import "unicode"

// GrammaticalClass categorizes a word for article and capitalization rules
type GrammaticalClass string

const (
	ClassOther     GrammaticalClass = "other"
	ClassMasculine GrammaticalClass = "m"
	ClassFeminine  GrammaticalClass = "f"
	ClassNeuter    GrammaticalClass = "n"

	// LoadingClass marks the transient wallet entry used before storage resolves
	LoadingClass GrammaticalClass = "__LOADING__WALLET__"
)

// IsNoun reports whether the class carries a definite article
func (g GrammaticalClass) IsNoun() bool {
	return g == ClassMasculine || g == ClassFeminine || g == ClassNeuter
}

// Article returns the definite article for noun classes, empty otherwise
func (g GrammaticalClass) Article() string {
	switch g {
	case ClassMasculine:
		return "der"
	case ClassFeminine:
		return "die"
	case ClassNeuter:
		return "das"
	}
	return ""
}

// Word is a single vocabulary entry. Identity is the (Front, Back) pair;
// there is no surrogate key. Deck cards are independent value copies of
// wallet words, each with its own Mastered flag.
type Word struct {
	Front    string           `json:"front"`
	Back     string           `json:"back"`
	Class    GrammaticalClass `json:"class"`
	Mastered bool             `json:"mastered"`
}

// SamePair reports whether two words are the same entry, matching the
// (Front, Back) pair exactly and case-sensitively
func (w Word) SamePair(other Word) bool {
	return w.Front == other.Front && w.Back == other.Back
}

// FullString returns the canonical target-language rendering of the word:
// nouns get their definite article prefixed and the root capitalized, any
// other class renders Front unchanged. Pure and deterministic, it is used
// both for display and for answer validation.
func (w Word) FullString() string {
	if !w.Class.IsNoun() {
		return w.Front
	}
	return w.Class.Article() + " " + capitalize(w.Front)
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// LoadingWallet returns the sentinel collection a wallet holds before its
// snapshot has been loaded. Consumers must render it as "still loading",
// never as an empty wallet.
func LoadingWallet() []Word {
	return []Word{{Class: LoadingClass}}
}

// IsLoadingWallet reports whether the collection is the loading sentinel
func IsLoadingWallet(words []Word) bool {
	return len(words) > 0 && words[0].Class == LoadingClass
}
