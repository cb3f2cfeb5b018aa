package service

import (
	"wortwallet/internal/repository"
)

// AuthService gates the bot behind a shared password; the trainer is a
// personal tool, not a multi-tenant service
type AuthService struct {
	userRepo repository.UserRepository
	password string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, password string) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		password: password,
	}
}

// CheckPassword verifies if provided password matches
func (s *AuthService) CheckPassword(password string) bool {
	return password == s.password
}

// IsAuthorized checks if user is authorized
func (s *AuthService) IsAuthorized(userID int64) (bool, error) {
	return s.userRepo.IsAuthorized(userID)
}

// AuthorizeUser authorizes a user
func (s *AuthService) AuthorizeUser(userID int64) error {
	return s.userRepo.AuthorizeUser(userID)
}

// EnsureUserExists creates user record if doesn't exist
func (s *AuthService) EnsureUserExists(userID int64) error {
	return s.userRepo.EnsureUserExists(userID)
}
