package notify

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of tgbotapi.BotAPI used to deliver messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// ChatIDsFunc lists the chats of the managers audience.
type ChatIDsFunc func(ctx context.Context) ([]int64, error)

// TelegramNotifier broadcasts events to every manager chat.
type TelegramNotifier struct {
	sender  Sender
	chatIDs ChatIDsFunc
}

func NewTelegramNotifier(sender Sender, chatIDs ChatIDsFunc) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatIDs: chatIDs}
}

func (n *TelegramNotifier) Name() string { return "telegram" }

func (n *TelegramNotifier) Notify(ctx context.Context, ev Event) error {
	text := FormatEvent(ev)
	if text == "" {
		return nil
	}

	ids, err := n.chatIDs(ctx)
	if err != nil {
		return fmt.Errorf("list manager chats: %w", err)
	}

	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(id, text)
		if _, err := n.sender.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// FormatEvent renders an event as a chat message.
func FormatEvent(ev Event) string {
	switch p := ev.Payload.(type) {
	case PendingCount:
		return fmt.Sprintf("📥 Pending vacation requests: %d", p.Count)
	case RequestSummary:
		if ev.Type == EventVacationRequestDecided {
			return fmt.Sprintf("📝 Request #%d of %s (%s to %s) was %s by %s",
				p.ID, p.User, p.From, p.To, p.Status, p.DecidedBy)
		}
		return fmt.Sprintf("🌴 New vacation request #%d from %s: %s to %s\nUse /approve %d or /reject %d",
			p.ID, p.User, p.From, p.To, p.ID, p.ID)
	}
	return ""
}
