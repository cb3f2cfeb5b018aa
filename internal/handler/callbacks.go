package handler

import (
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseIndex extracts the numeric suffix from callback data like "deck_3"
func parseIndex(data, prefix string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(data, prefix))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	// If message is not modified, it means it was already edited by another callback
	// Just acknowledge and return nil - don't send new message
	if strings.Contains(errStr, "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	// Log the error to understand why Edit failed
	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Info("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Handle specific button callbacks by Unique first
	switch callback.Unique {
	case "wallet":
		return h.handleWallet(c)
	case "decks":
		return h.handleDecks(c)
	case "add_word":
		return h.handleAddWord(c)
	case "search":
		return h.handleSearchPrompt(c)
	case "delete_word":
		return h.handleDeleteWordMenu(c)
	case "skip":
		return h.handleSkip(c)
	case "continue":
		return h.handleContinue(c)
	case "quit_challenge":
		return h.handleQuitChallenge(c)
	case "cancel":
		return h.handleCancel(c)
	case "back", "main_menu":
		return h.handleStart(c)
	}

	// If Unique is empty, try to handle by Data (for buttons with Unique that didn't come through)
	if callback.Unique == "" {
		switch data {
		case "wallet":
			return h.handleWallet(c)
		case "decks":
			return h.handleDecks(c)
		case "add_word":
			return h.handleAddWord(c)
		case "search":
			return h.handleSearchPrompt(c)
		case "delete_word":
			return h.handleDeleteWordMenu(c)
		case "skip":
			return h.handleSkip(c)
		case "continue":
			return h.handleContinue(c)
		case "quit_challenge":
			return h.handleQuitChallenge(c)
		case "cancel":
			return h.handleCancel(c)
		case "back", "main_menu":
			return h.handleStart(c)
		}
	}

	// Handle by Data prefix (dynamic buttons)
	switch {
	case data == "newdeck":
		return h.handleNewDeck(c)
	case strings.HasPrefix(data, "class_"):
		return h.handleClassSelection(c, data)
	case strings.HasPrefix(data, "delword_"):
		return h.handleDeleteWord(c, data)
	case strings.HasPrefix(data, "deck_"):
		return h.handleDeckView(c, data)
	case strings.HasPrefix(data, "addcard_"):
		return h.handleAddCardMenu(c, data)
	case strings.HasPrefix(data, "pickcard_"):
		return h.handlePickCard(c, data)
	case strings.HasPrefix(data, "challenge_"):
		return h.handleStartChallenge(c, data)
	case strings.HasPrefix(data, "deldeck_"):
		return h.handleDeleteDeck(c, data)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleCancel aborts any in-progress flow and returns to the main menu
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID
	h.ResetState(userID)

	if err := c.Edit("Cancelled.\n\n🏠 Main menu\n\nWhat would you like to do?", mainMenuMarkup()); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send("Cancelled.\n\n🏠 Main menu\n\nWhat would you like to do?", mainMenuMarkup())
	}
	return c.Respond()
}
