package service

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"wortwallet/internal/domain"

	"go.uber.org/zap"
)

// maxChallengeSize bounds a single practice session
const maxChallengeSize = 12

// ChallengeState names the phases of a challenge session
type ChallengeState string

const (
	StateSelecting ChallengeState = "selecting"
	StatePrompting ChallengeState = "prompting"
	StateRevealed  ChallengeState = "revealed"
	StateComplete  ChallengeState = "complete"
)

// ChallengeService starts and scores bounded practice sessions over decks.
// Selection biases toward not-yet-mastered cards while keeping sessions
// capped and randomly ordered.
type ChallengeService struct {
	decks  *DeckService
	logger *zap.Logger
	rng    *rand.Rand
}

// NewChallengeService creates a new challenge service
func NewChallengeService(decks *DeckService, logger *zap.Logger) *ChallengeService {
	return &ChallengeService{
		decks:  decks,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartSession samples the deck and returns a fresh session. The session
// holds private copies of the selected cards; an empty deck completes
// immediately.
func (s *ChallengeService) StartSession(deckID int) (*Session, error) {
	deck, err := s.decks.Deck(deckID)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		svc:    s,
		deckID: deckID,
		state:  StateSelecting,
		cards:  s.selectCards(deck.Cards),
	}

	if len(sess.cards) == 0 {
		sess.state = StateComplete
	} else {
		sess.state = StatePrompting
	}

	s.logger.Info("Challenge session started",
		zap.Int("deck_id", deckID),
		zap.Int("cards", len(sess.cards)),
	)
	return sess, nil
}

// selectCards produces the session sample: a deck within the cap is simply
// shuffled whole; a larger deck is shuffled, split into not-yet-mastered and
// mastered, filled from the not-yet-mastered side first and topped up with
// shuffled mastered cards, with the final order reshuffled.
func (s *ChallengeService) selectCards(cards []domain.Word) []domain.Word {
	shuffled := append([]domain.Word(nil), cards...)
	s.shuffle(shuffled)

	if len(shuffled) <= maxChallengeSize {
		return shuffled
	}

	var unmastered, mastered []domain.Word
	for _, c := range shuffled {
		if c.Mastered {
			mastered = append(mastered, c)
		} else {
			unmastered = append(unmastered, c)
		}
	}

	if len(unmastered) >= maxChallengeSize {
		return unmastered[:maxChallengeSize]
	}

	s.shuffle(mastered)
	need := maxChallengeSize - len(unmastered)
	if need > len(mastered) {
		need = len(mastered)
	}

	selection := append(unmastered, mastered[:need]...)
	s.shuffle(selection)
	return selection
}

func (s *ChallengeService) shuffle(cards []domain.Word) {
	s.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Session is one ephemeral challenge run over a deck. It advances through
// PROMPTING and REVEALED per card and is discarded wholesale when the user
// navigates away; mastery changes reach the deck only through the deck
// service.
type Session struct {
	svc    *ChallengeService
	deckID int

	state        ChallengeState
	cards        []domain.Word
	cursor       int
	guessedCount int
	lastCorrect  bool
	lastTyped    string
}

// State returns the current session state
func (s *Session) State() ChallengeState {
	return s.state
}

// DeckID returns the id of the source deck
func (s *Session) DeckID() int {
	return s.deckID
}

// Total returns the number of cards selected for the session
func (s *Session) Total() int {
	return len(s.cards)
}

// Cursor returns the zero-based index of the current card
func (s *Session) Cursor() int {
	return s.cursor
}

// GuessedCount returns the number of correct answers so far
func (s *Session) GuessedCount() int {
	return s.guessedCount
}

// Current returns the card being prompted or revealed
func (s *Session) Current() (domain.Word, bool) {
	if s.cursor >= len(s.cards) {
		return domain.Word{}, false
	}
	return s.cards[s.cursor], true
}

// LastCorrect reports whether the most recent answer matched
func (s *Session) LastCorrect() bool {
	return s.lastCorrect
}

// LastTyped returns the user's literal text from the most recent answer,
// kept for display after a wrong guess
func (s *Session) LastTyped() string {
	return s.lastTyped
}

// Submit validates a typed answer against the current card's full string.
// The comparison ignores letter case but is exact otherwise: whitespace and
// diacritics count. The card's mastery flag in the owning deck is set to
// the outcome; a failed mastery write is returned alongside the result and
// does not block the transition to REVEALED.
func (s *Session) Submit(typed string) (bool, error) {
	if s.state != StatePrompting {
		return false, fmt.Errorf("cannot submit answer in state %s", s.state)
	}

	current := s.cards[s.cursor]
	correct := strings.EqualFold(current.FullString(), typed)

	masteryErr := s.svc.decks.SetCardMastered(s.deckID, current, correct)

	if correct {
		s.guessedCount++
	}
	s.lastCorrect = correct
	s.lastTyped = typed
	s.state = StateRevealed

	return correct, masteryErr
}

// Skip advances past the current card without scoring it or touching its
// mastery flag. Only valid while prompting.
func (s *Session) Skip() error {
	if s.state != StatePrompting {
		return fmt.Errorf("cannot skip in state %s", s.state)
	}
	s.advance()
	return nil
}

// Continue moves from the revealed answer to the next prompt, or completes
// the session after the last card
func (s *Session) Continue() error {
	if s.state != StateRevealed {
		return fmt.Errorf("cannot continue in state %s", s.state)
	}
	s.advance()
	return nil
}

func (s *Session) advance() {
	s.cursor++
	s.lastTyped = ""
	s.lastCorrect = false
	if s.cursor < len(s.cards) {
		s.state = StatePrompting
	} else {
		s.state = StateComplete
	}
}

// Accuracy returns the session score in percent
func (s *Session) Accuracy() int {
	return ChallengePercentage(s.guessedCount, len(s.cards))
}

// DeckMastery returns the live mastery percentage over the entire source
// deck, not just the session sample
func (s *Session) DeckMastery() (int, error) {
	return s.svc.decks.DeckMasteryPercent(s.deckID)
}

// ChallengePercentage returns the rounded share of guessed words, 0 when
// nothing was guessed or the session was empty
func ChallengePercentage(guessed, total int) int {
	if guessed == 0 || total == 0 {
		return 0
	}
	return int(math.Round(float64(guessed*100) / float64(total)))
}
