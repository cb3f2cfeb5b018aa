package postgres

import (
	"database/sql"

	"wortwallet/internal/domain"
)

// WalletRepo implements repository.WalletRepository
type WalletRepo struct {
	db *sql.DB
}

// NewWalletRepo creates a new wallet snapshot repository
func NewWalletRepo(db *sql.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

// LoadWallet returns the latest persisted wallet snapshot. A wallet that was
// never saved loads as empty.
func (r *WalletRepo) LoadWallet() ([]domain.Word, error) {
	var words []domain.Word
	found, err := loadSnapshot(r.db, walletKey, &words)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.Word{}, nil
	}
	return words, nil
}

// SaveWallet persists the full wallet collection
func (r *WalletRepo) SaveWallet(words []domain.Word) error {
	if words == nil {
		words = []domain.Word{}
	}
	return saveSnapshot(r.db, walletKey, words)
}
