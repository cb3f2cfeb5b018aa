package service

import (
	"fmt"
	"sync"

	"wortwallet/internal/domain"
	"wortwallet/internal/repository"

	"go.uber.org/zap"
)

// walletSearchThreshold mirrors the strictness the original UI used for
// wallet filtering
const walletSearchThreshold = 0.2

// Searcher is the fuzzy-match provider behind wallet search. An empty
// keyword must yield an empty result; matches come back best-first.
type Searcher interface {
	Search(words []domain.Word, keyword string, threshold float64) []domain.Word
}

// WalletService owns the global de-duplicated collection of all words known
// to the user. It keeps the wallet in memory, persists a full snapshot after
// every mutation and reports snapshot failures without rolling back the
// optimistic in-memory state.
type WalletService struct {
	repo     repository.WalletRepository
	searcher Searcher
	logger   *zap.Logger

	mu     sync.RWMutex
	words  []domain.Word
	loaded bool
}

// NewWalletService creates a new wallet service
func NewWalletService(repo repository.WalletRepository, searcher Searcher, logger *zap.Logger) *WalletService {
	return &WalletService{
		repo:     repo,
		searcher: searcher,
		logger:   logger,
	}
}

// Load reads the persisted wallet snapshot into memory
func (s *WalletService) Load() error {
	words, err := s.repo.LoadWallet()
	if err != nil {
		return fmt.Errorf("loading wallet: %w", err)
	}

	s.mu.Lock()
	s.words = words
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("Wallet loaded", zap.Int("words", len(words)))
	return nil
}

// Loaded reports whether the wallet snapshot has been read
func (s *WalletService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Words returns a copy of the wallet, or the loading sentinel while the
// snapshot is still pending
func (s *WalletService) Words() []domain.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return domain.LoadingWallet()
	}
	return append([]domain.Word(nil), s.words...)
}

// Add appends a word to the wallet and persists the collection. Returns
// domain.ErrDuplicateWord when the exact (front, back) pair is already
// present, leaving the wallet unchanged.
func (s *WalletService) Add(word domain.Word) error {
	if word.Front == "" || word.Back == "" {
		return fmt.Errorf("word front and back cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.words {
		if w.SamePair(word) {
			return domain.ErrDuplicateWord
		}
	}

	s.words = append(s.words, word)

	if err := s.repo.SaveWallet(s.words); err != nil {
		s.logger.Error("Failed to persist wallet after add", zap.Error(err))
		return &domain.PersistenceError{Store: "wallet", Err: err}
	}

	return nil
}

// Delete removes every entry matching the (front, back) pair and persists
// the collection. Removing a word that is not present is a silent no-op.
// The boolean reports whether anything was removed.
func (s *WalletService) Delete(word domain.Word) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]domain.Word, 0, len(s.words))
	for _, w := range s.words {
		if !w.SamePair(word) {
			kept = append(kept, w)
		}
	}

	if len(kept) == len(s.words) {
		return false, nil
	}

	s.words = kept

	if err := s.repo.SaveWallet(s.words); err != nil {
		s.logger.Error("Failed to persist wallet after delete", zap.Error(err))
		return true, &domain.PersistenceError{Store: "wallet", Err: err}
	}

	return true, nil
}

// Search runs a fuzzy match over the wallet with the default threshold.
// An empty keyword yields no results; callers show the full wallet when no
// keyword is active.
func (s *WalletService) Search(keyword string) []domain.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil
	}
	return s.searcher.Search(s.words, keyword, walletSearchThreshold)
}
