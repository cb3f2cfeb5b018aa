package service

import (
	"wortwallet/internal/domain"

	"go.uber.org/zap"
)

// ConsistencyService routes wallet mutations and keeps decks consistent
// with the wallet. Deleting a wallet word fans out to every deck, matching
// cards by (front, back) value rather than identity. Wallet and decks are
// persisted independently with no transactional guarantee, so a deck-side
// failure after a committed wallet delete leaves dangling deck cards; those
// stay displayable and are healed by the next delete of the same pair.
type ConsistencyService struct {
	wallet *WalletService
	decks  *DeckService
	logger *zap.Logger
}

// NewConsistencyService creates a new consistency service
func NewConsistencyService(wallet *WalletService, decks *DeckService, logger *zap.Logger) *ConsistencyService {
	return &ConsistencyService{
		wallet: wallet,
		decks:  decks,
		logger: logger,
	}
}

// AddWord adds a word to the wallet
func (s *ConsistencyService) AddWord(word domain.Word) error {
	return s.wallet.Add(word)
}

// DeleteWord removes the word from the wallet, then cascades the removal to
// every deck. The wallet delete is committed first; the deck cleanup is
// best-effort and its failure is reported, never swallowed, while the
// wallet-side deletion stands.
func (s *ConsistencyService) DeleteWord(word domain.Word) error {
	if _, err := s.wallet.Delete(word); err != nil {
		return err
	}

	if err := s.decks.RemoveCardEverywhere(word); err != nil {
		s.logger.Error("Deck cascade failed after wallet delete",
			zap.String("front", word.Front),
			zap.String("back", word.Back),
			zap.Error(err),
		)
		return err
	}

	return nil
}
