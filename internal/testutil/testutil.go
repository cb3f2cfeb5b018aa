package testutil

import (
	"fmt"

	"wortwallet/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestWord creates a test word
func NewTestWord(front, back string, class domain.GrammaticalClass) domain.Word {
	return domain.Word{
		Front: front,
		Back:  back,
		Class: class,
	}
}

// NewTestDeck creates a test deck
func NewTestDeck(id int, name string, cards ...domain.Word) domain.Deck {
	if cards == nil {
		cards = []domain.Word{}
	}
	return domain.Deck{
		ID:    id,
		Name:  name,
		Cards: cards,
	}
}

// NewTestCards creates n distinct cards, the first mastered of them marked
// mastered
func NewTestCards(n, mastered int) []domain.Word {
	cards := make([]domain.Word, n)
	for i := 0; i < n; i++ {
		cards[i] = domain.Word{
			Front:    fmt.Sprintf("wort%d", i),
			Back:     fmt.Sprintf("word%d", i),
			Class:    domain.ClassOther,
			Mastered: i < mastered,
		}
	}
	return cards
}
