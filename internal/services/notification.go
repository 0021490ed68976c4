package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

// telegramSender is the slice of the bot API the service uses.
type telegramSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
}

// NotificationService delivers finished forecast kits to subscribers over
// Telegram.
type NotificationService struct {
	bot    telegramSender
	logger *logrus.Logger
}

// NewNotificationService creates the delivery service. An empty token leaves
// the bot nil; delivery then fails per subscriber without touching the
// forecast run itself.
func NewNotificationService(telegramBotToken string, logger *logrus.Logger) *NotificationService {
	var telegramBot *bot.Bot
	if telegramBotToken != "" {
		telegramBot, _ = bot.New(telegramBotToken)
	}

	svc := &NotificationService{logger: logger}
	if telegramBot != nil {
		svc.bot = telegramBot
	}
	return svc
}

// DeliverForecasts sends each subscriber their ranked rows. Failed deliveries
// are logged and counted, never fatal.
func (ns *NotificationService) DeliverForecasts(ctx context.Context, subscribers []models.Subscriber, rowsBySubscriber map[string][]models.ForecastRow) int {
	delivered := 0
	for _, sub := range subscribers {
		rows, ok := rowsBySubscriber[sub.ID]
		if !ok || len(rows) == 0 {
			continue
		}
		if err := ns.SendForecastKit(ctx, sub, rows); err != nil {
			if ns.logger != nil {
				ns.logger.WithError(err).WithField("subscriber", sub.ID).Warn("Failed to deliver forecast kit")
			}
			continue
		}
		delivered++
	}

	if ns.logger != nil {
		ns.logger.WithFields(logrus.Fields{
			"delivered": delivered,
			"total":     len(subscribers),
		}).Info("Forecast kit delivery finished")
	}
	return delivered
}

// SendForecastKit sends one subscriber's kit as a single Telegram message.
func (ns *NotificationService) SendForecastKit(ctx context.Context, sub models.Subscriber, rows []models.ForecastRow) error {
	if ns.bot == nil {
		return fmt.Errorf("telegram bot not initialized")
	}
	if sub.TelegramChatID == nil || *sub.TelegramChatID == "" {
		return fmt.Errorf("subscriber %s has no telegram chat ID", sub.ID)
	}

	chatID, err := strconv.ParseInt(*sub.TelegramChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	message := ns.formatForecastMessage(sub, rows)

	_, err = ns.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      message,
		ParseMode: tgmodels.ParseModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}

// formatForecastMessage renders the kit message. Rows arrive already ranked
// strongest first; only the top five make the alert body.
func (ns *NotificationService) formatForecastMessage(sub models.Subscriber, rows []models.ForecastRow) string {
	if len(rows) == 0 {
		return "No picks for today."
	}

	first := rows[0]
	message := fmt.Sprintf("🎯 *Best Odds Kit: %s*\n", first.Game.DisplayName())
	message += fmt.Sprintf("📅 %s", first.Date.Format("Monday, Jan 2 2006"))
	if first.Session != models.SessionNone {
		message += fmt.Sprintf(" — %s", first.Session)
	}
	message += "\n\n"

	topRows := rows
	if len(rows) > 5 {
		topRows = rows[:5]
	}

	for i, row := range topRows {
		message += fmt.Sprintf("%s *%d. %s*\n", row.Band.Emoji(), i+1, row.Candidate)
		message += fmt.Sprintf("   Odds: %s | Play: %s\n", row.OddsText, row.PrimaryPlay)
		if row.BOBSuggestion != models.BOBNone {
			message += fmt.Sprintf("   Bonus: %s (%s)\n", row.BOBSuggestion, row.BOBStrength)
		}
		message += "\n"
	}

	if len(rows) > 5 {
		message += fmt.Sprintf("...and %d more picks in your full kit\n\n", len(rows)-5)
	}

	message += "🟩 strong · 🟨 fair · 🤎 light · 🚫 skip\n"
	message += "Use /kit to see your full forecast\n"
	message += "Use /stop to pause these alerts"

	return message
}
