package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/nkrv/shopchat/internal/chat"
	"github.com/nkrv/shopchat/internal/config"
)

// Handler routes Telegram text messages into the dialogue engine. Telegram
// users get the opaque identity "tg:<id>", so their carts and sessions
// never collide with web accounts.
type Handler struct {
	engine *chat.Engine
}

func New(engine *chat.Engine) *Handler {
	return &Handler{engine: engine}
}

// HandleText answers a plain text message with the engine's reply plus a
// short listing of the returned products.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}
	// Skip commands
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	userID := fmt.Sprintf("tg:%d", msg.From.ID)
	reply := h.engine.Converse(ctx, userID, msg.Text)

	for _, part := range splitMessage(reply.Text, config.MaxTelegramMessageLen) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   part,
		})
	}
}

func (h *Handler) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: "Hello! I'm your sales chatbot. Try 'show me laptops under 50000', " +
			"'add the 1st one to cart' or 'what's in my cart'.",
	})
}

// splitMessage chunks text at the Telegram message length limit, preferring
// line breaks.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if runes[i] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
