package domain

import "math"

// MaxDecks is the ceiling of real decks a user may keep
const MaxDecks = 9

const (
	// PlaceholderDeckID marks the synthetic trailing "add new deck" entry.
	// The placeholder exists only at the presentation boundary and must
	// never be persisted or counted in deck-size logic.
	PlaceholderDeckID   = -1
	PlaceholderDeckName = "__ADD_PLACEHOLDER__"
)

// Deck is a named ordered collection of word copies drawn from the wallet.
// IDs are stable positive integers, never reused while the deck exists.
type Deck struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Cards []Word `json:"cards"`
}

// IsPlaceholder reports whether the deck is the "add new deck" entry
func (d Deck) IsPlaceholder() bool {
	return d.ID == PlaceholderDeckID
}

// MasteredCount returns the number of cards currently marked mastered
func (d Deck) MasteredCount() int {
	count := 0
	for _, c := range d.Cards {
		if c.Mastered {
			count++
		}
	}
	return count
}

// MasteryPercent returns the rounded share of mastered cards over the whole
// deck, 0 for an empty deck
func (d Deck) MasteryPercent() int {
	if len(d.Cards) == 0 {
		return 0
	}
	return int(math.Round(float64(d.MasteredCount()*100) / float64(len(d.Cards))))
}

// PlaceholderDeck returns the synthetic "add new deck" entry
func PlaceholderDeck() Deck {
	return Deck{ID: PlaceholderDeckID, Name: PlaceholderDeckName}
}

// WithPlaceholder returns a copy of decks with the trailing placeholder
// appended, leaving the input untouched
func WithPlaceholder(decks []Deck) []Deck {
	enriched := make([]Deck, 0, len(decks)+1)
	enriched = append(enriched, decks...)
	return append(enriched, PlaceholderDeck())
}
