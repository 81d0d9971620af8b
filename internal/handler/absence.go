package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"availability-bot/internal/availability"
	"availability-bot/internal/models"
	"availability-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var errDateFormat = errors.New("invalid date format, use DD.MM.YYYY, DD.MM or YYYY-MM-DD")

// addUnavailability handles /unavailable kind from to [AM|PM].
func (h *Handler) addUnavailability(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(ctx, chatID)
	if !ok {
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 3 || len(parts) > 4 {
		h.replyMarkdown(chatID, "❌ Usage: `/unavailable kind from to [AM|PM]`\nExample: `/unavailable trip 03.03.2026 05.03.2026`")
		return
	}

	in, err := h.unavailabilityInput(employee.Email, parts)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	u, err := h.unavailabilityService.Create(ctx, in)
	if err != nil {
		h.replyError(chatID, "record the unavailability", err)
		return
	}

	h.reply(chatID, "✅ Recorded!\n\n"+formatUnavailability(u))
}

// unavailabilityInput reads kind from to [AM|PM].
func (h *Handler) unavailabilityInput(email string, parts []string) (service.UnavailabilityInput, error) {
	from, err := parseDate(parts[1], h.now())
	if err != nil {
		return service.UnavailabilityInput{}, fmt.Errorf("Start date: %w", err)
	}
	to, err := parseDate(parts[2], h.now())
	if err != nil {
		return service.UnavailabilityInput{}, fmt.Errorf("End date: %w", err)
	}

	in := service.UnavailabilityInput{
		Email: email,
		Kind:  parts[0],
		From:  from,
		To:    to,
	}
	if len(parts) == 4 {
		in.IsHalfDay = true
		in.HalfSegment = parts[3]
	} else if availability.Normalize(parts[0], false).Kind == availability.KindHalfDay {
		in.IsHalfDay = true
	}
	return in, nil
}

// replaceUnavailability handles /replaceunavailable id kind from to [AM|PM].
func (h *Handler) replaceUnavailability(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(ctx, chatID)
	if !ok {
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 4 || len(parts) > 5 {
		h.replyMarkdown(chatID, "❌ Usage: `/replaceunavailable id kind from to [AM|PM]`\nExample: `/replaceunavailable 3 trip 04.03.2026 06.03.2026`")
		return
	}
	id, err := parseID(parts[0])
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	in, err := h.unavailabilityInput(employee.Email, parts[1:])
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	u, err := h.unavailabilityService.Replace(ctx, id, in)
	if err != nil {
		h.replyError(chatID, "replace the unavailability", err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✏️ Unavailability #%d replaced.\n\n%s", id, formatUnavailability(u)))
}

func (h *Handler) showMyUnavailability(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(ctx, chatID)
	if !ok {
		return
	}

	list, err := h.unavailabilityService.ForEmployee(ctx, employee.Email)
	if err != nil {
		h.replyError(chatID, "load your unavailabilities", err)
		return
	}
	if len(list) == 0 {
		h.reply(chatID, "📭 You have no recorded unavailabilities.")
		return
	}

	var b strings.Builder
	b.WriteString("🚫 Your unavailabilities:\n")
	for i := range list {
		b.WriteString("\n")
		b.WriteString(formatUnavailability(&list[i]))
	}
	b.WriteString("\n\nUse /replaceunavailable id ... to change one or /cancelunavailable id to remove it.")
	h.reply(chatID, b.String())
}

func (h *Handler) cancelUnavailability(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(ctx, chatID)
	if !ok {
		return
	}

	id, err := parseID(args)
	if err != nil {
		h.reply(chatID, "❌ Usage: /cancelunavailable id")
		return
	}

	if err := h.unavailabilityService.Cancel(ctx, id, employee.Email); err != nil {
		h.replyError(chatID, "remove the unavailability", err)
		return
	}
	h.reply(chatID, fmt.Sprintf("🗑 Unavailability #%d removed.", id))
}

// requestVacation handles /vacation from to.
func (h *Handler) requestVacation(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(ctx, chatID)
	if !ok {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.replyMarkdown(chatID, "❌ Usage: `/vacation from to`\nExample: `/vacation 01.07.2026 14.07.2026`")
		return
	}

	from, err := parseDate(parts[0], h.now())
	if err != nil {
		h.reply(chatID, "❌ Start date: "+err.Error())
		return
	}
	to, err := parseDate(parts[1], h.now())
	if err != nil {
		h.reply(chatID, "❌ End date: "+err.Error())
		return
	}

	req, err := h.vacationService.Create(ctx, employee.Email, from, to)
	if err != nil {
		h.replyError(chatID, "create the vacation request", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("🌴 Vacation request #%d sent: %s → %s.\nYour managers have been notified.",
		req.ID, req.From.Format("02.01.2006"), req.To.Format("02.01.2006")))
}

func (h *Handler) showMyRequests(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(ctx, chatID)
	if !ok {
		return
	}

	list, err := h.vacationService.ForEmployee(ctx, employee.Email)
	if err != nil {
		h.replyError(chatID, "load your requests", err)
		return
	}
	if len(list) == 0 {
		h.reply(chatID, "📭 You have no vacation requests.")
		return
	}

	var b strings.Builder
	b.WriteString("🌴 Your vacation requests:\n")
	for i := range list {
		b.WriteString("\n")
		b.WriteString(formatRequest(&list[i]))
	}
	h.reply(chatID, b.String())
}

func formatUnavailability(u *models.Unavailability) string {
	status := availability.Normalize(u.Kind, u.IsHalfDay)
	text := fmt.Sprintf("#%d %s %s", u.ID, statusIcon(status), status)
	if u.StartDate.Equal(u.EndDate) {
		text += " · " + u.StartDate.Format("02.01.2006")
	} else {
		text += fmt.Sprintf(" · %s → %s", u.StartDate.Format("02.01.2006"), u.EndDate.Format("02.01.2006"))
	}
	if u.IsHalfDay && u.HalfSegment != "" {
		text += " (" + u.HalfSegment + ")"
	}
	return text
}

func formatRequest(r *models.VacationRequest) string {
	icon := "⏳"
	switch r.Status {
	case models.StatusApproved:
		icon = "✅"
	case models.StatusRejected:
		icon = "❌"
	}
	text := fmt.Sprintf("%s #%d %s → %s · %s", icon, r.ID, r.From.Format("02.01.2006"), r.To.Format("02.01.2006"), r.Status)
	if r.DecidedBy != nil {
		text += " by " + *r.DecidedBy
	}
	return text
}

func statusIcon(s availability.Status) string {
	switch s.Kind {
	case availability.KindVacation:
		return "🏖️"
	case availability.KindSick:
		return "🤒"
	case availability.KindMeeting:
		return "🎧"
	case availability.KindTrip:
		return "✈️"
	case availability.KindTraining:
		return "📚"
	case availability.KindHalfDay:
		return "🌗"
	case availability.KindAvailable:
		return "🟢"
	}
	return "🚫"
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

// parseDate accepts DD.MM.YYYY, DD-MM-YYYY, YYYY-MM-DD and DD.MM (current
// year). The result is a UTC date.
func parseDate(dateStr string, now time.Time) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	formats := []string{
		"02.01.2006",
		"02-01-2006",
		"2006-01-02",
		"02.01",
	}

	for _, format := range formats {
		t, err := time.Parse(format, dateStr)
		if err != nil {
			continue
		}
		if !strings.Contains(format, "2006") {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
		return t, nil
	}

	return time.Time{}, errDateFormat
}
