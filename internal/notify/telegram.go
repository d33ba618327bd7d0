package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"urbaniq/backend/internal/models"
)

// TelegramChannel posts new-report summaries to an operations chat.
// Same contract as the other side channels: best effort, never fails
// the caller.
type TelegramChannel struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zap.Logger
}

func NewTelegramChannel(token string, chatID int64, log *zap.Logger) (*TelegramChannel, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot auth: %w", err)
	}
	bot.Debug = false
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("telegram channel authorized", zap.String("account", bot.Self.UserName))
	return &TelegramChannel{bot: bot, chatID: chatID, log: log}, nil
}

// AnnounceCreated posts a one-line summary of a fresh report.
func (t *TelegramChannel) AnnounceCreated(c *models.Complaint) {
	text := fmt.Sprintf("New report [%s] %s (dept %s), track %s",
		c.ComplaintType, c.Title, c.AssignedDepartment.Name, c.TrackingLink())
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.log.Warn("telegram announce failed", zap.Error(err))
	}
}
