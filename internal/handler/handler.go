package handler

import (
	"sync"

	"wortwallet/internal/domain"
	"wortwallet/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot         *tele.Bot
	authService *service.AuthService
	wallet      *service.WalletService
	decks       *service.DeckService
	consistency *service.ConsistencyService
	challenges  *service.ChallengeService
	logger      *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Active challenge sessions, one per user
	sessions   map[int64]*service.Session
	sessionMux sync.RWMutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	wallet *service.WalletService,
	decks *service.DeckService,
	consistency *service.ConsistencyService,
	challenges *service.ChallengeService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:         bot,
		authService: authService,
		wallet:      wallet,
		decks:       decks,
		consistency: consistency,
		challenges:  challenges,
		logger:      logger,
		states:      make(map[int64]*domain.StateData),
		sessions:    make(map[int64]*service.Session),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnWallet, h.handleWallet)
	h.bot.Handle(&btnDecks, h.handleDecks)
	h.bot.Handle(&btnAddWord, h.handleAddWord)
	h.bot.Handle(&btnSearch, h.handleSearchPrompt)
	h.bot.Handle(&btnDeleteWord, h.handleDeleteWordMenu)
	h.bot.Handle(&btnSkip, h.handleSkip)
	h.bot.Handle(&btnContinue, h.handleContinue)
	h.bot.Handle(&btnQuitChallenge, h.handleQuitChallenge)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnBack, h.handleStart)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state and drops any active session
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
	h.dropSession(userID)
}

func (h *Handler) session(userID int64) (*service.Session, bool) {
	h.sessionMux.RLock()
	defer h.sessionMux.RUnlock()
	sess, ok := h.sessions[userID]
	return sess, ok
}

func (h *Handler) setSession(userID int64, sess *service.Session) {
	h.sessionMux.Lock()
	defer h.sessionMux.Unlock()
	h.sessions[userID] = sess
}

func (h *Handler) dropSession(userID int64) {
	h.sessionMux.Lock()
	defer h.sessionMux.Unlock()
	delete(h.sessions, userID)
}

// Inline keyboard buttons
var (
	btnWallet = tele.Btn{
		Unique: "wallet",
		Text:   "📖 My wallet",
	}
	btnDecks = tele.Btn{
		Unique: "decks",
		Text:   "🃏 Training decks",
	}
	btnAddWord = tele.Btn{
		Unique: "add_word",
		Text:   "➕ Add a word",
	}
	btnSearch = tele.Btn{
		Unique: "search",
		Text:   "🔍 Search",
	}
	btnDeleteWord = tele.Btn{
		Unique: "delete_word",
		Text:   "🗑 Delete a word",
	}
	btnSkip = tele.Btn{
		Unique: "skip",
		Text:   "⏭ Skip",
	}
	btnContinue = tele.Btn{
		Unique: "continue",
		Text:   "▶️ Continue",
	}
	btnQuitChallenge = tele.Btn{
		Unique: "quit_challenge",
		Text:   "🚪 Quit challenge",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Cancel",
	}
	btnBack = tele.Btn{
		Unique: "back",
		Text:   "🏠 Back",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnWallet),
		menu.Row(btnDecks),
		menu.Row(btnAddWord),
	)
	return menu
}
