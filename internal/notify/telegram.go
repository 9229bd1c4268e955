package notify

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends reminders as HTML messages to a chat. The address is the
// chat ID in decimal form.
type Telegram struct {
	api *tgbotapi.BotAPI
}

func NewTelegram(token string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Telegram{api: api}, nil
}

func (t *Telegram) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", to, err)
	}

	msg := tgbotapi.NewMessage(chatID, formatMessage(subject, body))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message to %d: %w", chatID, err)
	}
	return nil
}

var brTags = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n")

// formatMessage renders a subject and an HTML-mail body into the subset
// Telegram's HTML parse mode accepts: the Bot API rejects messages with
// unsupported tags, so <br> becomes a newline and the plain-text subject
// gets escaped before it is wrapped in <b>.
func formatMessage(subject, body string) string {
	return fmt.Sprintf("<b>%s</b>\n\n%s", html.EscapeString(subject), brTags.Replace(body))
}
