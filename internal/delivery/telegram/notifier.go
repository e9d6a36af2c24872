// Package telegram is an alternate digest channel: plaintext digests sent
// to a user's Telegram chat instead of email. Useful in development and for
// users who linked a chat id.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/dealsight/dealsight/internal/domain"
)

type Notifier struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

func NewNotifier(api *tgbotapi.BotAPI, logger *zap.Logger) *Notifier {
	return &Notifier{api: api, logger: logger}
}

// Send implements the delivery collaborator over Telegram. The user must
// have a linked chat id.
func (n *Notifier) Send(ctx context.Context, user domain.User, content domain.RenderedContent) (string, error) {
	if user.TelegramChatID == 0 {
		return "", fmt.Errorf("user %d has no telegram chat id", user.ID)
	}

	text := content.Subject + "\n\n" + content.Text
	n.logger.Info("telegram digest send", zap.Int64("chat_id", user.TelegramChatID), zap.Uint("user_id", user.ID))

	msg := tgbotapi.NewMessage(user.TelegramChatID, text)
	sent, err := n.api.Send(msg)
	if err != nil {
		n.logger.Warn("failed to send telegram digest", zap.Int64("chat_id", user.TelegramChatID), zap.Error(err))
		return "", err
	}
	return strconv.Itoa(sent.MessageID), nil
}
