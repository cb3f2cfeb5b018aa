package repository

import (
	"wortwallet/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(userID int64) (bool, error)
	AuthorizeUser(userID int64) error
	EnsureUserExists(userID int64) error
}

// WalletRepository is the opaque snapshot store for the wallet collection.
// Both operations deal in complete snapshots, never deltas.
type WalletRepository interface {
	LoadWallet() ([]domain.Word, error)
	SaveWallet(words []domain.Word) error
}

// DeckRepository is the opaque snapshot store for the deck collection,
// independently addressable from the wallet store
type DeckRepository interface {
	LoadDecks() ([]domain.Deck, error)
	SaveDecks(decks []domain.Deck) error
}

// SnapshotPruner removes superseded snapshot rows
type SnapshotPruner interface {
	PruneSnapshots(keep int) error
}
