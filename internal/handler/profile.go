package handler

import (
	"context"
	"fmt"
	"strings"

	"availability-bot/internal/models"
	"availability-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	stateAwaitingEmail = "awaiting_email"
	stateAwaitingName  = "awaiting_name:"
)

// register links the chat to an e-mail. Without arguments it starts a
// two-step dialog.
func (h *Handler) register(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	parts := strings.Fields(args)
	if len(parts) == 0 {
		h.userStates[chatID] = stateAwaitingEmail
		h.reply(chatID, "👤 Registration\n\nStep 1 of 2:\n✏️ Please send your work e-mail:")
		return
	}

	in := service.RegisterInput{Email: parts[0], ChatID: &chatID}
	rest := parts[1:]

	// optional trailing time zone and country code
	if n := len(rest); n > 0 && strings.Contains(rest[n-1], "/") {
		in.TimeZoneID = rest[n-1]
		rest = rest[:n-1]
	}
	if n := len(rest); n > 1 && len(rest[n-1]) == 2 && strings.ToUpper(rest[n-1]) == rest[n-1] {
		in.CountryCode = rest[n-1]
		rest = rest[:n-1]
	}
	in.DisplayName = strings.Join(rest, " ")

	h.completeRegistration(ctx, chatID, in)
}

func (h *Handler) handleRegistrationState(ctx context.Context, message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch {
	case state == stateAwaitingEmail:
		email, err := service.NormalizeEmail(text)
		if err != nil {
			h.reply(chatID, "❌ That does not look like an e-mail address. Please try again:")
			return
		}
		h.userStates[chatID] = stateAwaitingName + email
		h.reply(chatID, fmt.Sprintf("Step 2 of 2:\n✅ E-mail saved: %s\n✏️ Now send your name (or \"-\" to derive it from the e-mail):", email))

	case strings.HasPrefix(state, stateAwaitingName):
		delete(h.userStates, chatID)
		name := text
		if name == "-" {
			name = ""
		}
		h.completeRegistration(ctx, chatID, service.RegisterInput{
			Email:       strings.TrimPrefix(state, stateAwaitingName),
			DisplayName: name,
			ChatID:      &chatID,
		})

	default:
		delete(h.userStates, chatID)
	}
}

func (h *Handler) completeRegistration(ctx context.Context, chatID int64, in service.RegisterInput) {
	employee, err := h.employeeService.Register(ctx, in)
	if err != nil {
		h.replyError(chatID, "register", err)
		return
	}
	h.reply(chatID, "🎉 You are registered!\n\n"+formatProfile(employee))
}

func (h *Handler) showProfile(ctx context.Context, message *tgbotapi.Message) {
	employee, ok := h.currentEmployee(ctx, message.Chat.ID)
	if !ok {
		return
	}
	h.reply(message.Chat.ID, formatProfile(employee))
}

func (h *Handler) setManager(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.currentManager(ctx, chatID); !ok {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.reply(chatID, "❌ Usage: /setmanager employee_email manager_email")
		return
	}

	if err := h.employeeService.AssignManager(ctx, parts[0], parts[1]); err != nil {
		h.replyError(chatID, "assign the manager", err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ %s now reports to %s.", strings.ToLower(parts[0]), strings.ToLower(parts[1])))
}

func (h *Handler) promote(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.currentManager(ctx, chatID); !ok {
		return
	}

	email := strings.TrimSpace(args)
	if email == "" {
		h.reply(chatID, "❌ Usage: /promote email")
		return
	}

	if err := h.employeeService.SetRole(ctx, email, models.RoleManager); err != nil {
		h.replyError(chatID, "change the role", err)
		return
	}
	h.reply(chatID, fmt.Sprintf("👑 %s is now a manager.", strings.ToLower(email)))
}

// removeEmployee handles /removeemployee email. Their reports keep working
// without a manager.
func (h *Handler) removeEmployee(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	manager, ok := h.currentManager(ctx, chatID)
	if !ok {
		return
	}

	email := strings.ToLower(strings.TrimSpace(args))
	if email == "" {
		h.reply(chatID, "❌ Usage: /removeemployee email")
		return
	}
	if email == manager.Email {
		h.reply(chatID, "❌ You cannot remove yourself.")
		return
	}

	if err := h.employeeService.Delete(ctx, email); err != nil {
		h.replyError(chatID, "remove the employee", err)
		return
	}
	h.reply(chatID, fmt.Sprintf("🗑 %s removed.", email))
}

func formatProfile(e *models.Employee) string {
	var b strings.Builder
	b.WriteString("👤 Your profile:\n\n")
	fmt.Fprintf(&b, "📛 Name: %s\n", e.Name())
	fmt.Fprintf(&b, "📧 E-mail: %s\n", e.Email)
	fmt.Fprintf(&b, "🌍 Country: %s\n", e.CountryCode)
	fmt.Fprintf(&b, "🕒 Time zone: %s\n", e.TimeZoneID)
	fmt.Fprintf(&b, "🎭 Role: %s", e.Role)
	if e.Manager != nil {
		fmt.Fprintf(&b, "\n👔 Manager: %s", e.Manager.Name())
	}
	return b.String()
}
