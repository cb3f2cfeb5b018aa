package postgres

import (
	"database/sql"

	"wortwallet/internal/domain"
)

// DeckRepo implements repository.DeckRepository
type DeckRepo struct {
	db *sql.DB
}

// NewDeckRepo creates a new deck snapshot repository
func NewDeckRepo(db *sql.DB) *DeckRepo {
	return &DeckRepo{db: db}
}

// LoadDecks returns the latest persisted deck collection, empty when no
// snapshot exists yet. Only real decks are ever stored; the presentation
// placeholder never reaches this layer.
func (r *DeckRepo) LoadDecks() ([]domain.Deck, error) {
	var decks []domain.Deck
	found, err := loadSnapshot(r.db, decksKey, &decks)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.Deck{}, nil
	}
	return decks, nil
}

// SaveDecks persists the full deck collection
func (r *DeckRepo) SaveDecks(decks []domain.Deck) error {
	if decks == nil {
		decks = []domain.Deck{}
	}
	return saveSnapshot(r.db, decksKey, decks)
}
