package handler

import (
	"errors"
	"fmt"

	"wortwallet/internal/domain"
	"wortwallet/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStartChallenge begins a challenge run for the chosen deck
func (h *Handler) handleStartChallenge(c tele.Context, data string) error {
	userID := c.Sender().ID

	id, err := parseIndex(data, "challenge_")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown deck."})
	}

	session, err := h.challenges.StartSession(id)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "This deck no longer exists."})
	}
	if err != nil {
		h.logger.Error("Failed to start challenge", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Could not start the challenge."})
	}

	if session.State() == service.StateComplete {
		return c.Respond(&tele.CallbackResponse{
			Text:      "This deck has no cards yet. Add some first!",
			ShowAlert: true,
		})
	}

	h.setSession(userID, session)
	h.SetState(userID, &domain.StateData{State: domain.StateInChallenge, ActiveDeckID: id})

	h.logger.Info("Challenge started",
		zap.Int64("user_id", userID),
		zap.Int("deck_id", id),
		zap.Int("cards", session.Total()),
	)

	text, markup := renderPrompt(session)
	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleChallengeAnswer checks a typed answer against the current card
func (h *Handler) handleChallengeAnswer(c tele.Context, userID int64, typed string) error {
	session, ok := h.session(userID)
	if !ok {
		h.ResetState(userID)
		return c.Send("There is no challenge running. Start one from a deck!", backToMenuMarkup())
	}

	correct, err := session.Submit(typed)
	if err != nil {
		var perr *domain.PersistenceError
		if errors.As(err, &perr) {
			// the answer was still scored; only the mastery write failed
			h.logger.Error("Mastery save failed during challenge", zap.Error(err))
		} else {
			h.logger.Error("Failed to submit answer", zap.Error(err))
			return c.Send("Something went wrong. Please try again.")
		}
	}

	text, markup := renderReveal(session, correct)
	return c.Send(text, markup)
}

// handleSkip reveals the current card without scoring it
func (h *Handler) handleSkip(c tele.Context) error {
	userID := c.Sender().ID

	session, ok := h.session(userID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "There is no challenge running."})
	}

	if err := session.Skip(); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Nothing to skip right now."})
	}

	if session.State() == service.StateComplete {
		if err := c.Respond(); err != nil {
			return err
		}
		return h.sendChallengeSummary(c, userID, session)
	}

	text, markup := renderPrompt(session)
	if err := c.Respond(); err != nil {
		return err
	}
	return c.Send(text, markup)
}

// handleContinue advances from a revealed card to the next prompt
func (h *Handler) handleContinue(c tele.Context) error {
	userID := c.Sender().ID

	session, ok := h.session(userID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "There is no challenge running."})
	}

	if err := session.Continue(); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Nothing to continue right now."})
	}

	if session.State() == service.StateComplete {
		if err := c.Respond(); err != nil {
			return err
		}
		return h.sendChallengeSummary(c, userID, session)
	}

	text, markup := renderPrompt(session)
	if err := c.Respond(); err != nil {
		return err
	}
	return c.Send(text, markup)
}

// handleQuitChallenge abandons the running challenge
func (h *Handler) handleQuitChallenge(c tele.Context) error {
	userID := c.Sender().ID

	if _, ok := h.session(userID); !ok {
		return c.Respond(&tele.CallbackResponse{Text: "There is no challenge running."})
	}

	h.ResetState(userID)
	h.logger.Info("Challenge abandoned", zap.Int64("user_id", userID))

	return c.Edit("Challenge abandoned. Come back any time!", backToMenuMarkup())
}

// sendChallengeSummary shows the final score and drops the session
func (h *Handler) sendChallengeSummary(c tele.Context, userID int64, session *service.Session) error {
	accuracy := session.Accuracy()
	deckID := session.DeckID()

	mastery, err := session.DeckMastery()
	if err != nil {
		h.logger.Warn("Failed to read deck mastery after challenge", zap.Error(err))
	}

	h.ResetState(userID)

	h.logger.Info("Challenge finished",
		zap.Int64("user_id", userID),
		zap.Int("deck_id", deckID),
		zap.Int("guessed", session.GuessedCount()),
		zap.Int("total", session.Total()),
	)

	text := fmt.Sprintf(
		"🏁 Challenge complete!\n\nYou guessed %d of %d cards (%d%%).\nDeck mastery is now %d%%.",
		session.GuessedCount(), session.Total(), accuracy, mastery,
	)

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("🔁 Again", fmt.Sprintf("challenge_%d", deckID))),
		markup.Row(markup.Data("⬅️ Back to deck", fmt.Sprintf("deck_%d", deckID))),
		markup.Row(btnMainMenu),
	)

	return c.Send(text, markup)
}

// renderPrompt renders the current card's question side
func renderPrompt(session *service.Session) (string, *tele.ReplyMarkup) {
	card, _ := session.Current()

	text := fmt.Sprintf(
		"🎯 Card %d of %d\n\nTranslate to German:\n\n➡️ %s\n\nType the answer with the article, e.g. \"der Hund\".",
		session.Cursor()+1, session.Total(), card.Back,
	)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnSkip, btnQuitChallenge))

	return text, markup
}

// renderReveal renders the answer side after a guess or skip
func renderReveal(session *service.Session, correct bool) (string, *tele.ReplyMarkup) {
	card, _ := session.Current()

	verdict := "✅ Correct!"
	if !correct {
		verdict = fmt.Sprintf("❌ Not quite. You typed %q.", session.LastTyped())
	}

	text := fmt.Sprintf("%s\n\nThe answer is:\n\n➡️ %s", verdict, card.FullString())

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnContinue, btnQuitChallenge))

	return text, markup
}
