package service

import (
	"fmt"
	"testing"

	"wortwallet/internal/domain"
	"wortwallet/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newLoadedWallet(t *testing.T, repo *testutil.MockWalletRepository, words []domain.Word) *WalletService {
	t.Helper()

	searcher := new(testutil.MockSearcher)
	svc := NewWalletService(repo, searcher, testutil.NewTestLogger())

	repo.On("LoadWallet").Return(words, nil).Once()
	assert.NoError(t, svc.Load())

	return svc
}

func TestWalletService_WordsBeforeLoad(t *testing.T) {
	repo := new(testutil.MockWalletRepository)
	svc := NewWalletService(repo, new(testutil.MockSearcher), testutil.NewTestLogger())

	assert.False(t, svc.Loaded())
	// not-yet-loaded must be distinguishable from empty
	assert.True(t, domain.IsLoadingWallet(svc.Words()))
}

func TestWalletService_Load(t *testing.T) {
	tests := []struct {
		name          string
		mockWords     []domain.Word
		mockError     error
		expectedError bool
	}{
		{
			name:      "loads persisted words",
			mockWords: []domain.Word{{Front: "Hund", Back: "dog", Class: domain.ClassMasculine}},
		},
		{
			name:      "empty snapshot loads as empty wallet",
			mockWords: []domain.Word{},
		},
		{
			name:          "load error keeps wallet unloaded",
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockWalletRepository)
			repo.On("LoadWallet").Return(tt.mockWords, tt.mockError)

			svc := NewWalletService(repo, new(testutil.MockSearcher), testutil.NewTestLogger())
			err := svc.Load()

			if tt.expectedError {
				assert.Error(t, err)
				assert.False(t, svc.Loaded())
			} else {
				assert.NoError(t, err)
				assert.True(t, svc.Loaded())
				assert.Equal(t, tt.mockWords, svc.Words())
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestWalletService_Add(t *testing.T) {
	existing := domain.Word{Front: "Hund", Back: "dog", Class: domain.ClassMasculine}

	tests := []struct {
		name          string
		word          domain.Word
		saveError     error
		expectedError error
		expectSave    bool
		expectedLen   int
	}{
		{
			name:        "new word appended and persisted",
			word:        domain.Word{Front: "Katze", Back: "cat", Class: domain.ClassFeminine},
			expectSave:  true,
			expectedLen: 2,
		},
		{
			name:          "duplicate pair rejected without state change",
			word:          domain.Word{Front: "Hund", Back: "dog", Class: domain.ClassMasculine},
			expectedError: domain.ErrDuplicateWord,
			expectedLen:   1,
		},
		{
			name:        "same front different back is not a duplicate",
			word:        domain.Word{Front: "Hund", Back: "hound", Class: domain.ClassMasculine},
			expectSave:  true,
			expectedLen: 2,
		},
		{
			name:        "persistence failure reported, word kept optimistically",
			word:        domain.Word{Front: "Katze", Back: "cat", Class: domain.ClassFeminine},
			saveError:   fmt.Errorf("disk full"),
			expectSave:  true,
			expectedLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockWalletRepository)
			svc := newLoadedWallet(t, repo, []domain.Word{existing})

			if tt.expectSave {
				repo.On("SaveWallet", mock.Anything).Return(tt.saveError)
			}

			err := svc.Add(tt.word)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.saveError != nil:
				var perr *domain.PersistenceError
				assert.ErrorAs(t, err, &perr)
				assert.Equal(t, "wallet", perr.Store)
			default:
				assert.NoError(t, err)
			}

			assert.Len(t, svc.Words(), tt.expectedLen)
			repo.AssertExpectations(t)
		})
	}
}

func TestWalletService_AddEmptyFields(t *testing.T) {
	repo := new(testutil.MockWalletRepository)
	svc := newLoadedWallet(t, repo, []domain.Word{})

	assert.Error(t, svc.Add(domain.Word{Front: "", Back: "dog"}))
	assert.Error(t, svc.Add(domain.Word{Front: "Hund", Back: ""}))
	assert.Empty(t, svc.Words())
}

func TestWalletService_Delete(t *testing.T) {
	wallet := []domain.Word{
		{Front: "Hund", Back: "dog", Class: domain.ClassMasculine},
		{Front: "Hund", Back: "cat", Class: domain.ClassMasculine},
		{Front: "Katze", Back: "cat", Class: domain.ClassFeminine},
	}

	tests := []struct {
		name            string
		word            domain.Word
		expectedRemoved bool
		expectedLen     int
	}{
		{
			name:            "removes only the exact pair",
			word:            domain.Word{Front: "Hund", Back: "dog"},
			expectedRemoved: true,
			expectedLen:     2,
		},
		{
			name:            "unknown pair is a silent no-op",
			word:            domain.Word{Front: "Maus", Back: "mouse"},
			expectedRemoved: false,
			expectedLen:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockWalletRepository)
			svc := newLoadedWallet(t, repo, wallet)

			if tt.expectedRemoved {
				repo.On("SaveWallet", mock.Anything).Return(nil)
			}

			removed, err := svc.Delete(tt.word)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedRemoved, removed)
			assert.Len(t, svc.Words(), tt.expectedLen)

			// a same-front different-back word must survive
			if tt.expectedRemoved {
				assert.Equal(t, "Hund", svc.Words()[0].Front)
				assert.Equal(t, "cat", svc.Words()[0].Back)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestWalletService_DeletePersistenceFailure(t *testing.T) {
	repo := new(testutil.MockWalletRepository)
	svc := newLoadedWallet(t, repo, []domain.Word{{Front: "Hund", Back: "dog"}})

	repo.On("SaveWallet", mock.Anything).Return(fmt.Errorf("disk full"))

	removed, err := svc.Delete(domain.Word{Front: "Hund", Back: "dog"})

	assert.True(t, removed)
	var perr *domain.PersistenceError
	assert.ErrorAs(t, err, &perr)
	assert.Empty(t, svc.Words())
}

func TestWalletService_Search(t *testing.T) {
	wallet := []domain.Word{{Front: "Hund", Back: "dog", Class: domain.ClassMasculine}}

	repo := new(testutil.MockWalletRepository)
	searcher := new(testutil.MockSearcher)
	svc := NewWalletService(repo, searcher, testutil.NewTestLogger())

	repo.On("LoadWallet").Return(wallet, nil)
	assert.NoError(t, svc.Load())

	searcher.On("Search", mock.Anything, "hun", walletSearchThreshold).Return(wallet)

	result := svc.Search("hun")

	assert.Equal(t, wallet, result)
	searcher.AssertExpectations(t)
}

func TestWalletService_SearchBeforeLoad(t *testing.T) {
	svc := NewWalletService(new(testutil.MockWalletRepository), new(testutil.MockSearcher), testutil.NewTestLogger())

	assert.Nil(t, svc.Search("hund"))
}
