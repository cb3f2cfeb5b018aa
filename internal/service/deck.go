package service

import (
	"fmt"
	"sync"

	"wortwallet/internal/domain"
	"wortwallet/internal/repository"

	"go.uber.org/zap"
)

// DeckService owns the named deck collections. Every card in a deck is a
// value copy of a wallet word with its own mastery flag; all mutation of
// deck state, including mastery changes from challenges, goes through this
// service.
type DeckService struct {
	repo   repository.DeckRepository
	logger *zap.Logger

	mu     sync.RWMutex
	decks  []domain.Deck
	loaded bool
}

// NewDeckService creates a new deck service
func NewDeckService(repo repository.DeckRepository, logger *zap.Logger) *DeckService {
	return &DeckService{
		repo:   repo,
		logger: logger,
	}
}

// Load reads the persisted deck snapshot into memory. Cards whose pair no
// longer exists in the wallet are kept as-is: a deck copy carries all the
// data it needs to stay displayable.
func (s *DeckService) Load() error {
	decks, err := s.repo.LoadDecks()
	if err != nil {
		return fmt.Errorf("loading decks: %w", err)
	}

	s.mu.Lock()
	s.decks = decks
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("Decks loaded", zap.Int("decks", len(decks)))
	return nil
}

// Loaded reports whether the deck snapshot has been read
func (s *DeckService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Decks returns a deep copy of all real decks in storage order
func (s *DeckService) Decks() []domain.Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()

	decks := make([]domain.Deck, len(s.decks))
	for i, d := range s.decks {
		decks[i] = copyDeck(d)
	}
	return decks
}

// Deck returns a copy of the deck with the given id
func (s *DeckService) Deck(id int) (domain.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Deck{}, domain.ErrNotFound
	}
	return copyDeck(s.decks[idx]), nil
}

// CreateDeck adds a new empty deck and returns its id. IDs grow
// monotonically past the highest live id, so an id is never reused while
// its deck exists. Fails with domain.ErrMaxDecksExceeded at the ceiling.
func (s *DeckService) CreateDeck(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("deck name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.decks) >= domain.MaxDecks {
		return 0, domain.ErrMaxDecksExceeded
	}

	id := 1
	for _, d := range s.decks {
		if d.ID >= id {
			id = d.ID + 1
		}
	}

	s.decks = append(s.decks, domain.Deck{ID: id, Name: name, Cards: []domain.Word{}})

	if err := s.save(); err != nil {
		return id, err
	}

	s.logger.Info("Deck created", zap.Int("deck_id", id), zap.String("name", name))
	return id, nil
}

// DeleteDeck removes the deck with the given id. The wallet is unaffected.
func (s *DeckService) DeleteDeck(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.ErrNotFound
	}

	s.decks = append(s.decks[:idx], s.decks[idx+1:]...)

	if err := s.save(); err != nil {
		return err
	}

	s.logger.Info("Deck deleted", zap.Int("deck_id", id))
	return nil
}

// AddCard appends a value copy of word to the deck. The copy starts
// unmastered regardless of any flag on the source.
func (s *DeckService) AddCard(id int, word domain.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.ErrNotFound
	}

	card := word
	card.Mastered = false
	s.decks[idx].Cards = append(s.decks[idx].Cards, card)

	return s.save()
}

// SetCardMastered updates the mastery flag on every card in the deck
// matching the (front, back) pair. This is the only mutation path for
// mastery; the challenge engine writes through it rather than via shared
// references.
func (s *DeckService) SetCardMastered(id int, word domain.Word, mastered bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.ErrNotFound
	}

	for i := range s.decks[idx].Cards {
		if s.decks[idx].Cards[i].SamePair(word) {
			s.decks[idx].Cards[i].Mastered = mastered
		}
	}

	return s.save()
}

// RemoveCardEverywhere removes every card matching the (front, back) pair
// from every deck. Decks that never contained the pair are untouched; when
// nothing matched anywhere, no snapshot is written.
func (s *DeckService) RemoveCardEverywhere(word domain.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for i := range s.decks {
		kept := make([]domain.Word, 0, len(s.decks[i].Cards))
		for _, c := range s.decks[i].Cards {
			if !c.SamePair(word) {
				kept = append(kept, c)
			}
		}
		if len(kept) != len(s.decks[i].Cards) {
			s.decks[i].Cards = kept
			removed = true
		}
	}

	if !removed {
		return nil
	}

	return s.save()
}

// DeckMasteryPercent returns the rounded mastery share over the entire deck
func (s *DeckService) DeckMasteryPercent(id int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return 0, domain.ErrNotFound
	}
	return s.decks[idx].MasteryPercent(), nil
}

func (s *DeckService) indexOf(id int) int {
	for i, d := range s.decks {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (s *DeckService) save() error {
	if err := s.repo.SaveDecks(s.decks); err != nil {
		s.logger.Error("Failed to persist decks", zap.Error(err))
		return &domain.PersistenceError{Store: "decks", Err: err}
	}
	return nil
}

func copyDeck(d domain.Deck) domain.Deck {
	deck := d
	deck.Cards = append([]domain.Word(nil), d.Cards...)
	return deck
}
