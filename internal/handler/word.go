package handler

import (
	"errors"
	"fmt"
	"strings"

	"wortwallet/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	// Check authorization first
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send("Something went wrong. Please try again later.")
	}

	// If not authorized, treat the text as a password attempt
	if !authorized {
		if h.authService.CheckPassword(text) {
			if err := h.authService.AuthorizeUser(userID); err != nil {
				h.logger.Error("Failed to authorize user", zap.Error(err))
				return c.Send("Something went wrong. Please try again later.")
			}

			h.logger.Info("User authorized", zap.Int64("user_id", userID))
			h.ResetState(userID)
			return c.Send(
				"✅ You're in!\n\n🏠 Main menu\n\nWhat would you like to do?",
				mainMenuMarkup(),
			)
		}

		return c.Send("Wrong password, try again.")
	}

	// User is authorized, handle based on state
	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingBack:
		return h.handleBackInput(c, userID, state, text)

	case domain.StateWaitingClass:
		return c.Send("Pick der, die, das or \"not a noun\" with the buttons above.")

	case domain.StateWaitingDeckName:
		return h.handleDeckNameInput(c, userID, text)

	case domain.StateWaitingSearch:
		return h.handleSearchInput(c, userID, text)

	case domain.StateInChallenge:
		return h.handleChallengeAnswer(c, userID, c.Text())

	default:
		// Idle or waiting for a word: the text is the new word's front
		cancelMarkup := &tele.ReplyMarkup{}
		cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

		h.SetState(userID, &domain.StateData{
			State:        domain.StateWaitingBack,
			PendingFront: text,
		})

		return c.Send("Now send the English translation.", cancelMarkup)
	}
}

// handleAddWord starts the add-word flow
func (h *Handler) handleAddWord(c tele.Context) error {
	userID := c.Sender().ID

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingFront})

	cancelMarkup := &tele.ReplyMarkup{}
	cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

	if err := c.Edit("Send the German word (without article).", cancelMarkup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send("Send the German word (without article).", cancelMarkup)
	}
	return c.Respond()
}

// handleBackInput stores the translation and asks for the grammatical class
func (h *Handler) handleBackInput(c tele.Context, userID int64, state *domain.StateData, text string) error {
	h.SetState(userID, &domain.StateData{
		State:        domain.StateWaitingClass,
		PendingFront: state.PendingFront,
		PendingBack:  text,
	})

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data("der", "class_m"),
			markup.Data("die", "class_f"),
			markup.Data("das", "class_n"),
		),
		markup.Row(markup.Data("not a noun", "class_other")),
		markup.Row(btnCancel),
	)

	return c.Send("What kind of word is it?", markup)
}

// handleClassSelection finishes the add-word flow
func (h *Handler) handleClassSelection(c tele.Context, data string) error {
	userID := c.Sender().ID
	state := h.GetState(userID)

	if state.State != domain.StateWaitingClass {
		return c.Respond(&tele.CallbackResponse{Text: "Nothing to classify right now."})
	}

	class := domain.GrammaticalClass(strings.TrimPrefix(data, "class_"))
	word := domain.Word{
		Front: state.PendingFront,
		Back:  state.PendingBack,
		Class: class,
	}

	err := h.consistency.AddWord(word)

	var perr *domain.PersistenceError
	switch {
	case errors.Is(err, domain.ErrDuplicateWord):
		h.ResetState(userID)
		return c.Edit(
			fmt.Sprintf("⚠️ %q is already in your wallet.", word.FullString()),
			backToMenuMarkup(),
		)
	case errors.As(err, &perr):
		h.logger.Error("Wallet save failed after add", zap.Error(err))
		h.ResetState(userID)
		return c.Edit(
			"⚠️ The word was added but could not be saved to storage. It may be lost on restart.",
			backToMenuMarkup(),
		)
	case err != nil:
		h.logger.Error("Failed to add word", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Could not add the word."})
	}

	h.logger.Info("Word added",
		zap.Int64("user_id", userID),
		zap.String("front", word.Front),
		zap.String("back", word.Back),
	)

	// Reset to waiting for the next word
	h.SetState(userID, &domain.StateData{State: domain.StateWaitingFront})

	return c.Edit(
		fmt.Sprintf("✅ Saved %q!\n\nSend the next word, or go back with /start.", word.FullString()),
		backToMenuMarkup(),
	)
}

// handleWallet shows the wallet listing
func (h *Handler) handleWallet(c tele.Context) error {
	userID := c.Sender().ID

	words := h.wallet.Words()

	// "not yet loaded" is distinct from "empty"
	if domain.IsLoadingWallet(words) {
		return c.Respond(&tele.CallbackResponse{
			Text:      "Your wallet is still loading, try again in a moment.",
			ShowAlert: true,
		})
	}

	if len(words) == 0 {
		if err := c.Edit(
			"Your wallet is empty. Send any word to add it!",
			backToMenuMarkup(),
		); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send("Your wallet is empty. Send any word to add it!", backToMenuMarkup())
		}
		return c.Respond()
	}

	text := formatWordList("📖 Your wallet", words)

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnSearch, btnDeleteWord),
		markup.Row(btnBack),
	)

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleSearchPrompt asks for a search keyword
func (h *Handler) handleSearchPrompt(c tele.Context) error {
	userID := c.Sender().ID

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingSearch})

	cancelMarkup := &tele.ReplyMarkup{}
	cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

	if err := c.Edit("What are you looking for?", cancelMarkup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send("What are you looking for?", cancelMarkup)
	}
	return c.Respond()
}

// handleSearchInput runs the fuzzy search and shows matches
func (h *Handler) handleSearchInput(c tele.Context, userID int64, keyword string) error {
	h.ResetState(userID)

	matches := h.wallet.Search(keyword)

	if len(matches) == 0 {
		return c.Send(
			fmt.Sprintf("No matches for %q.", keyword),
			backToMenuMarkup(),
		)
	}

	return c.Send(formatWordList(fmt.Sprintf("🔍 Matches for %q", keyword), matches), backToMenuMarkup())
}

// handleDeleteWordMenu lists wallet words as delete buttons
func (h *Handler) handleDeleteWordMenu(c tele.Context) error {
	userID := c.Sender().ID

	words := h.wallet.Words()
	if domain.IsLoadingWallet(words) || len(words) == 0 {
		return c.Respond(&tele.CallbackResponse{Text: "Nothing to delete."})
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for i, w := range words {
		label := fmt.Sprintf("%s — %s", w.FullString(), w.Back)
		rows = append(rows, markup.Row(markup.Data(label, fmt.Sprintf("delword_%d", i))))
	}
	rows = append(rows, markup.Row(btnBack))
	markup.Inline(rows...)

	if err := c.Edit("Pick a word to delete. It will be removed from your wallet and every deck.", markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send("Pick a word to delete. It will be removed from your wallet and every deck.", markup)
	}
	return c.Respond()
}

// handleDeleteWord deletes the selected word from the wallet and cascades
// the removal across all decks
func (h *Handler) handleDeleteWord(c tele.Context, data string) error {
	userID := c.Sender().ID

	idx, err := parseIndex(data, "delword_")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown word."})
	}

	words := h.wallet.Words()
	if domain.IsLoadingWallet(words) || idx < 0 || idx >= len(words) {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown word."})
	}
	word := words[idx]

	err = h.consistency.DeleteWord(word)

	var perr *domain.PersistenceError
	if errors.As(err, &perr) {
		// the in-memory state is already updated; warn instead of dropping
		// the failure silently
		h.logger.Error("Persistence failed during word delete", zap.Error(err))
		return c.Edit(
			fmt.Sprintf("⚠️ %q was removed, but saving to storage failed. The change may be lost on restart.", word.FullString()),
			backToMenuMarkup(),
		)
	}
	if err != nil {
		h.logger.Error("Failed to delete word", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Could not delete the word."})
	}

	h.logger.Info("Word deleted",
		zap.Int64("user_id", userID),
		zap.String("front", word.Front),
		zap.String("back", word.Back),
	)

	return c.Edit(
		fmt.Sprintf("🗑 %q was removed from your wallet and all decks.", word.FullString()),
		backToMenuMarkup(),
	)
}

// formatWordList renders words one per line with their translations
func formatWordList(title string, words []domain.Word) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d):\n\n", title, len(words))
	for _, w := range words {
		mark := ""
		if w.Mastered {
			mark = " ✅"
		}
		fmt.Fprintf(&b, "%s — %s%s\n", w.FullString(), w.Back, mark)
	}
	return b.String()
}

func backToMenuMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMainMenu))
	return markup
}
