package domain

import "time"

// User represents a bot user
type User struct {
	UserID     int64
	Authorized bool
	CreatedAt  time.Time
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle            UserState = "idle"
	StateWaitingPassword UserState = "waiting_password"
	StateWaitingFront    UserState = "waiting_front"
	StateWaitingBack     UserState = "waiting_back"
	StateWaitingClass    UserState = "waiting_class"
	StateWaitingDeckName UserState = "waiting_deck_name"
	StateWaitingSearch   UserState = "waiting_search"
	StateInChallenge     UserState = "in_challenge"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State        UserState
	PendingFront string
	PendingBack  string
	ActiveDeckID int
}
