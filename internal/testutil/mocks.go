package testutil

import (
	"wortwallet/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) IsAuthorized(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockWalletRepository is a mock for WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) LoadWallet() ([]domain.Word, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

func (m *MockWalletRepository) SaveWallet(words []domain.Word) error {
	args := m.Called(words)
	return args.Error(0)
}

// MockDeckRepository is a mock for DeckRepository
type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) LoadDecks() ([]domain.Deck, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deck), args.Error(1)
}

func (m *MockDeckRepository) SaveDecks(decks []domain.Deck) error {
	args := m.Called(decks)
	return args.Error(0)
}

// MockSnapshotPruner is a mock for SnapshotPruner
type MockSnapshotPruner struct {
	mock.Mock
}

func (m *MockSnapshotPruner) PruneSnapshots(keep int) error {
	args := m.Called(keep)
	return args.Error(0)
}

// MockSearcher is a mock for the wallet's fuzzy-match provider
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(words []domain.Word, keyword string, threshold float64) []domain.Word {
	args := m.Called(words, keyword, threshold)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Word)
}
