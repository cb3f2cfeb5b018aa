package service

import (
	"fmt"
	"testing"

	"wortwallet/internal/domain"
	"wortwallet/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newLoadedDecks(t *testing.T, repo *testutil.MockDeckRepository, decks []domain.Deck) *DeckService {
	t.Helper()

	svc := NewDeckService(repo, testutil.NewTestLogger())

	repo.On("LoadDecks").Return(decks, nil).Once()
	assert.NoError(t, svc.Load())

	return svc
}

func TestDeckService_CreateDeck(t *testing.T) {
	repo := new(testutil.MockDeckRepository)
	svc := newLoadedDecks(t, repo, []domain.Deck{})

	repo.On("SaveDecks", mock.Anything).Return(nil)

	id, err := svc.CreateDeck("animals")
	assert.NoError(t, err)
	assert.Equal(t, 1, id)

	id, err = svc.CreateDeck("verbs")
	assert.NoError(t, err)
	assert.Equal(t, 2, id)

	decks := svc.Decks()
	assert.Len(t, decks, 2)
	assert.Equal(t, "animals", decks[0].Name)
	assert.Empty(t, decks[0].Cards)
}

func TestDeckService_CreateDeckEmptyName(t *testing.T) {
	repo := new(testutil.MockDeckRepository)
	svc := newLoadedDecks(t, repo, []domain.Deck{})

	_, err := svc.CreateDeck("")
	assert.Error(t, err)
	assert.Empty(t, svc.Decks())
}

func TestDeckService_CreateDeckIDsNeverReusedWhileDeckExists(t *testing.T) {
	repo := new(testutil.MockDeckRepository)
	svc := newLoadedDecks(t, repo, []domain.Deck{
		{ID: 1, Name: "a"},
		{ID: 5, Name: "b"},
	})

	repo.On("SaveDecks", mock.Anything).Return(nil)

	id, err := svc.CreateDeck("c")
	assert.NoError(t, err)
	assert.Equal(t, 6, id)
}

func TestDeckService_CreateDeckCeiling(t *testing.T) {
	existing := make([]domain.Deck, domain.MaxDecks)
	for i := range existing {
		existing[i] = domain.Deck{ID: i + 1, Name: fmt.Sprintf("deck%d", i+1)}
	}

	repo := new(testutil.MockDeckRepository)
	svc := newLoadedDecks(t, repo, existing)

	_, err := svc.CreateDeck("one too many")

	assert.ErrorIs(t, err, domain.ErrMaxDecksExceeded)
	assert.Len(t, svc.Decks(), domain.MaxDecks)
}

func TestDeckService_DeleteDeck(t *testing.T) {
	repo := new(testutil.MockDeckRepository)
	svc := newLoadedDecks(t, repo, []domain.Deck{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
	})

	repo.On("SaveDecks", mock.Anything).Return(nil)

	assert.NoError(t, svc.DeleteDeck(1))
	assert.Len(t, svc.Decks(), 1)
	assert.Equal(t, 2, svc.Decks()[0].ID)

	assert.ErrorIs(t, svc.DeleteDeck(99), domain.ErrNotFound)
}

func TestDeckService_AddCard(t *testing.T) {
	repo := new(testutil.MockDeckRepository)
	svc := newLoadedDecks(t, repo, []domain.Deck{{ID: 1, Name: "animals"}})

	repo.On("SaveDecks", mock.Anything).Return(nil)

	// the wallet copy may be mastered, the deck copy starts fresh
	word := domain.Word{Front: "Hund", Back: "dog", Class: domain.ClassMasculine, Mastered: true}
	assert.NoError(t, svc.AddCard(1, word))

	deck, err := svc.Deck(1)
	assert.NoError(t, err)
	assert.Len(t, deck.Cards, 1)
	assert.False(t, deck.Cards[0].Mastered)

	// deck card is an independent value copy
	word.Front = "changed"
	deck, _ = svc.Deck(1)
	assert.Equal(t, "Hund", deck.Cards[0].Front)

	assert.ErrorIs(t, svc.AddCard(99, word), domain.ErrNotFound)
}

func TestDeckService_SetCardMastered(t *testing.T) {
	repo := new(testutil.MockDeckRepository)
	svc := newLoadedDecks(t, repo, []domain.Deck{
		{ID: 1, Name: "animals", Cards: []domain.Word{
			{Front: "Hund", Back: "dog"},
			{Front: "Katze", Back: "cat"},
		}},
	})

	repo.On("SaveDecks", mock.Anything).Return(nil)

	assert.NoError(t, svc.SetCardMastered(1, domain.Word{Front: "Hund", Back: "dog"}, true))

	deck, _ := svc.Deck(1)
	assert.True(t, deck.Cards[0].Mastered)
	assert.False(t, deck.Cards[1].Mastered)

	assert.NoError(t, svc.SetCardMastered(1, domain.Word{Front: "Hund", Back: "dog"}, false))
	deck, _ = svc.Deck(1)
	assert.False(t, deck.Cards[0].Mastered)

	assert.ErrorIs(t, svc.SetCardMastered(99, domain.Word{Front: "Hund", Back: "dog"}, true), domain.ErrNotFound)
}

func TestDeckService_RemoveCardEverywhere(t *testing.T) {
	repo := new(testutil.MockDeckRepository)
	svc := newLoadedDecks(t, repo, []domain.Deck{
		{ID: 1, Name: "animals", Cards: []domain.Word{
			{Front: "Hund", Back: "dog"},
			{Front: "Hund", Back: "cat"},
		}},
		{ID: 2, Name: "mixed", Cards: []domain.Word{
			{Front: "Hund", Back: "dog", Mastered: true},
			{Front: "Katze", Back: "cat"},
		}},
	})

	repo.On("SaveDecks", mock.Anything).Return(nil).Once()

	assert.NoError(t, svc.RemoveCardEverywhere(domain.Word{Front: "Hund", Back: "dog"}))

	// removed from every deck, by exact pair only
	first, _ := svc.Deck(1)
	assert.Len(t, first.Cards, 1)
	assert.Equal(t, "cat", first.Cards[0].Back)

	second, _ := svc.Deck(2)
	assert.Len(t, second.Cards, 1)
	assert.Equal(t, "Katze", second.Cards[0].Front)

	// nothing matched: no snapshot write
	assert.NoError(t, svc.RemoveCardEverywhere(domain.Word{Front: "Maus", Back: "mouse"}))

	repo.AssertExpectations(t)
}

func TestDeckService_RemoveCardEverywherePersistenceFailure(t *testing.T) {
	repo := new(testutil.MockDeckRepository)
	svc := newLoadedDecks(t, repo, []domain.Deck{
		{ID: 1, Name: "animals", Cards: []domain.Word{{Front: "Hund", Back: "dog"}}},
	})

	repo.On("SaveDecks", mock.Anything).Return(fmt.Errorf("disk full"))

	err := svc.RemoveCardEverywhere(domain.Word{Front: "Hund", Back: "dog"})

	var perr *domain.PersistenceError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, "decks", perr.Store)
}

func TestDeckService_DeckMasteryPercent(t *testing.T) {
	repo := new(testutil.MockDeckRepository)
	svc := newLoadedDecks(t, repo, []domain.Deck{
		{ID: 1, Name: "animals", Cards: []domain.Word{
			{Front: "a", Back: "a", Mastered: true},
			{Front: "b", Back: "b"},
		}},
		{ID: 2, Name: "empty"},
	})

	percent, err := svc.DeckMasteryPercent(1)
	assert.NoError(t, err)
	assert.Equal(t, 50, percent)

	percent, err = svc.DeckMasteryPercent(2)
	assert.NoError(t, err)
	assert.Equal(t, 0, percent)

	_, err = svc.DeckMasteryPercent(99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeckService_DecksReturnsCopies(t *testing.T) {
	repo := new(testutil.MockDeckRepository)
	svc := newLoadedDecks(t, repo, []domain.Deck{
		{ID: 1, Name: "animals", Cards: []domain.Word{{Front: "Hund", Back: "dog"}}},
	})

	decks := svc.Decks()
	decks[0].Cards[0].Front = "mutated"

	fresh, _ := svc.Deck(1)
	assert.Equal(t, "Hund", fresh.Cards[0].Front)
}
