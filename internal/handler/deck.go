package handler

import (
	"errors"
	"fmt"
	"strings"

	"wortwallet/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const decksPerRow = 3

// handleDecks shows the deck grid
func (h *Handler) handleDecks(c tele.Context) error {
	userID := c.Sender().ID

	if !h.decks.Loaded() {
		return c.Respond(&tele.CallbackResponse{
			Text:      "Your decks are still loading, try again in a moment.",
			ShowAlert: true,
		})
	}

	decks := domain.WithPlaceholder(h.decks.Decks())

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for _, chunk := range chunkDecks(decks, decksPerRow) {
		btns := make([]tele.Btn, 0, len(chunk))
		for _, d := range chunk {
			if d.IsPlaceholder() {
				btns = append(btns, markup.Data("➕", "newdeck"))
				continue
			}
			pct, _ := h.decks.DeckMasteryPercent(d.ID)
			label := fmt.Sprintf("%s (%d%%)", d.Name, pct)
			btns = append(btns, markup.Data(label, fmt.Sprintf("deck_%d", d.ID)))
		}
		rows = append(rows, markup.Row(btns...))
	}
	rows = append(rows, markup.Row(btnBack))
	markup.Inline(rows...)

	text := "🃏 Your decks\n\nPick a deck, or create a new one with ➕."
	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleNewDeck asks for the new deck's name
func (h *Handler) handleNewDeck(c tele.Context) error {
	userID := c.Sender().ID

	if len(h.decks.Decks()) >= domain.MaxDecks {
		return c.Respond(&tele.CallbackResponse{
			Text:      fmt.Sprintf("You already have %d decks, delete one first.", domain.MaxDecks),
			ShowAlert: true,
		})
	}

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingDeckName})

	cancelMarkup := &tele.ReplyMarkup{}
	cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

	if err := c.Edit("What should the deck be called?", cancelMarkup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send("What should the deck be called?", cancelMarkup)
	}
	return c.Respond()
}

// handleDeckNameInput creates a deck with the given name
func (h *Handler) handleDeckNameInput(c tele.Context, userID int64, name string) error {
	h.ResetState(userID)

	deckID, err := h.decks.CreateDeck(name)

	var perr *domain.PersistenceError
	switch {
	case errors.Is(err, domain.ErrMaxDecksExceeded):
		return c.Send(
			fmt.Sprintf("You already have %d decks, delete one first.", domain.MaxDecks),
			backToMenuMarkup(),
		)
	case errors.As(err, &perr):
		h.logger.Error("Deck save failed after create", zap.Error(err))
		return c.Send(
			fmt.Sprintf("⚠️ Deck %q was created but could not be saved to storage.", name),
			backToMenuMarkup(),
		)
	case err != nil:
		h.logger.Error("Failed to create deck", zap.Error(err))
		return c.Send("Could not create the deck.", backToMenuMarkup())
	}

	h.logger.Info("Deck created",
		zap.Int64("user_id", userID),
		zap.Int("deck_id", deckID),
		zap.String("name", name),
	)

	return c.Send(fmt.Sprintf("✅ Deck %q created!", name), backToMenuMarkup())
}

// handleDeckView shows a single deck with its cards and actions
func (h *Handler) handleDeckView(c tele.Context, data string) error {
	userID := c.Sender().ID

	id, err := parseIndex(data, "deck_")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown deck."})
	}

	deck, err := h.decks.Deck(id)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "This deck no longer exists."})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🃏 %s — %d%% mastered\n\n", deck.Name, deck.MasteryPercent())
	if len(deck.Cards) == 0 {
		b.WriteString("No cards yet. Add some from your wallet!")
	} else {
		for _, card := range deck.Cards {
			mark := ""
			if card.Mastered {
				mark = " ✅"
			}
			fmt.Fprintf(&b, "%s — %s%s\n", card.FullString(), card.Back, mark)
		}
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("🎯 Challenge", fmt.Sprintf("challenge_%d", deck.ID))),
		markup.Row(markup.Data("➕ Add card", fmt.Sprintf("addcard_%d", deck.ID))),
		markup.Row(markup.Data("🗑 Delete deck", fmt.Sprintf("deldeck_%d", deck.ID))),
		markup.Row(btnDecks),
	)

	if err := c.Edit(b.String(), markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(b.String(), markup)
	}
	return c.Respond()
}

// handleAddCardMenu lists wallet words not yet in the deck
func (h *Handler) handleAddCardMenu(c tele.Context, data string) error {
	userID := c.Sender().ID

	id, err := parseIndex(data, "addcard_")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown deck."})
	}

	deck, err := h.decks.Deck(id)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "This deck no longer exists."})
	}

	words := h.wallet.Words()
	if domain.IsLoadingWallet(words) {
		return c.Respond(&tele.CallbackResponse{Text: "Your wallet is still loading."})
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for i, w := range words {
		if deckContains(deck, w) {
			continue
		}
		label := fmt.Sprintf("%s — %s", w.FullString(), w.Back)
		rows = append(rows, markup.Row(markup.Data(label, fmt.Sprintf("pickcard_%d_%d", deck.ID, i))))
	}

	if len(rows) == 0 {
		return c.Respond(&tele.CallbackResponse{
			Text:      "Every word in your wallet is already in this deck.",
			ShowAlert: true,
		})
	}

	rows = append(rows, markup.Row(markup.Data("⬅️ Back to deck", fmt.Sprintf("deck_%d", deck.ID))))
	markup.Inline(rows...)

	text := fmt.Sprintf("Pick a word to add to %q.", deck.Name)
	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handlePickCard adds the chosen wallet word to the deck
func (h *Handler) handlePickCard(c tele.Context, data string) error {
	userID := c.Sender().ID

	parts := strings.Split(strings.TrimPrefix(data, "pickcard_"), "_")
	if len(parts) != 2 {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown card."})
	}
	deckID, err1 := parseIndex(parts[0], "")
	wordIdx, err2 := parseIndex(parts[1], "")
	if err1 != nil || err2 != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown card."})
	}

	words := h.wallet.Words()
	if domain.IsLoadingWallet(words) || wordIdx < 0 || wordIdx >= len(words) {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown card."})
	}
	word := words[wordIdx]

	err := h.decks.AddCard(deckID, word)

	var perr *domain.PersistenceError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Respond(&tele.CallbackResponse{Text: "This deck no longer exists."})
	case errors.As(err, &perr):
		h.logger.Error("Deck save failed after add card", zap.Error(err))
	case err != nil:
		h.logger.Error("Failed to add card", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Could not add the card."})
	}

	h.logger.Info("Card added to deck",
		zap.Int64("user_id", userID),
		zap.Int("deck_id", deckID),
		zap.String("front", word.Front),
	)

	// refresh the picker so the added word disappears from it
	return h.handleAddCardMenu(c, fmt.Sprintf("addcard_%d", deckID))
}

// handleDeleteDeck removes an entire deck
func (h *Handler) handleDeleteDeck(c tele.Context, data string) error {
	userID := c.Sender().ID

	id, err := parseIndex(data, "deldeck_")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown deck."})
	}

	deck, err := h.decks.Deck(id)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "This deck no longer exists."})
	}

	err = h.decks.DeleteDeck(id)

	var perr *domain.PersistenceError
	if errors.As(err, &perr) {
		h.logger.Error("Deck save failed after delete", zap.Error(err))
	} else if err != nil {
		h.logger.Error("Failed to delete deck", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Could not delete the deck."})
	}

	h.logger.Info("Deck deleted",
		zap.Int64("user_id", userID),
		zap.Int("deck_id", id),
		zap.String("name", deck.Name),
	)

	return c.Edit(fmt.Sprintf("🗑 Deck %q was deleted.", deck.Name), backToMenuMarkup())
}

// chunkDecks splits decks into rows of at most size decks each
func chunkDecks(decks []domain.Deck, size int) [][]domain.Deck {
	if size <= 0 || len(decks) == 0 {
		return nil
	}
	var chunks [][]domain.Deck
	for start := 0; start < len(decks); start += size {
		end := start + size
		if end > len(decks) {
			end = len(decks)
		}
		chunks = append(chunks, decks[start:end])
	}
	return chunks
}

func deckContains(deck domain.Deck, word domain.Word) bool {
	for _, card := range deck.Cards {
		if card.SamePair(word) {
			return true
		}
	}
	return false
}
