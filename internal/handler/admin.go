package handler

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"availability-bot/internal/availability"
	"availability-bot/internal/calendar"
	"availability-bot/internal/export"
	"availability-bot/internal/holidays"
	"availability-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// showPendingRequests lists pending requests with approve/reject buttons.
func (h *Handler) showPendingRequests(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if _, ok := h.currentManager(ctx, chatID); !ok {
		return
	}

	pending, err := h.vacationService.Pending(ctx)
	if err != nil {
		h.replyError(chatID, "load pending requests", err)
		return
	}
	if len(pending) == 0 {
		h.reply(chatID, "📭 No pending vacation requests.")
		return
	}

	h.reply(chatID, fmt.Sprintf("📥 Pending vacation requests: %d", len(pending)))
	for _, r := range pending {
		text := fmt.Sprintf("🌴 #%d %s\n%s → %s",
			r.ID, availability.PrettyFromEmail(r.EmployeeEmail), r.From.Format("02.01.2006"), r.To.Format("02.01.2006"))

		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Approve", fmt.Sprintf("approve:%d", r.ID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ Reject", fmt.Sprintf("reject:%d", r.ID)),
			),
		)
		if _, err := h.bot.Send(msg); err != nil {
			h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
		}
	}
}

// decide approves or rejects a request on behalf of the manager bound to the
// chat.
func (h *Handler) decide(ctx context.Context, chatID int64, args string, approve bool) {
	manager, ok := h.currentManager(ctx, chatID)
	if !ok {
		return
	}

	id, err := parseID(args)
	if err != nil {
		if approve {
			h.reply(chatID, "❌ Usage: /approve id")
		} else {
			h.reply(chatID, "❌ Usage: /reject id")
		}
		return
	}

	req, err := h.vacationService.Decide(ctx, id, manager.Email, approve)
	if err != nil {
		h.replyError(chatID, "decide the request", err)
		return
	}

	icon := "✅"
	if !approve {
		icon = "❌"
	}
	h.reply(chatID, fmt.Sprintf("%s Request #%d of %s is now %s.", icon, req.ID, req.EmployeeEmail, req.Status))
}

func (h *Handler) showToday(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.currentManager(ctx, chatID); !ok {
		return
	}

	rows, err := h.availabilityService.Today(ctx, args)
	if err != nil {
		h.replyError(chatID, "load today's status", err)
		return
	}
	date := availability.DateOf(h.now())
	dayOff, err := h.availabilityService.IsCompanyDayOff(ctx, date)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to check company day off")
	}
	h.reply(chatID, formatStatusTable(date, rows, dayOff))
}

func (h *Handler) showCalendar(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.currentManager(ctx, chatID); !ok {
		return
	}

	q, err := h.calendarQuery(args)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error()+"\nUsage: /calendar [YYYY-MM] [CC|region]")
		return
	}

	grid, err := h.availabilityService.Calendar(ctx, q)
	if err != nil {
		h.replyError(chatID, "build the calendar", err)
		return
	}
	h.reply(chatID, formatCalendar(grid))
}

func (h *Handler) showHolidays(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	year := h.now().Year()
	var filter string
	for _, part := range strings.Fields(args) {
		if y, err := strconv.Atoi(part); err == nil {
			year = y
			continue
		}
		filter = part
	}

	sel := holidays.ParseFilter(filter)
	if filter == "" {
		if employee, err := h.employeeService.GetByChatID(ctx, chatID); err == nil {
			sel = holidays.Resolve(employee.CountryCode, "")
		}
	}
	country := ""
	if sel.Region == "" && len(sel.Countries) == 1 {
		country = sel.Countries[0]
	}

	list, err := h.availabilityService.Holidays(ctx, year, country, sel.Region)
	if err != nil {
		h.replyError(chatID, "load holidays", err)
		return
	}
	if len(list) == 0 {
		h.reply(chatID, fmt.Sprintf("📭 No holidays found for %d. Use a country code or one of: %s.",
			year, strings.Join(holidays.Regions(), ", ")))
		return
	}

	var b strings.Builder
	title := sel.Tag()
	if title == "" {
		title = "company"
	}
	fmt.Fprintf(&b, "🎉 Holidays %d (%s):\n", year, title)
	for _, hd := range list {
		fmt.Fprintf(&b, "\n%s %s · %s", hd.Date.Format("02.01"), hd.Date.Weekday().String()[:3], hd.Name)
		if hd.Tag == "" {
			b.WriteString(" 🏢")
		}
	}
	h.reply(chatID, b.String())
}

// exportCalendar sends the month calendar as an XLSX document.
func (h *Handler) exportCalendar(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.currentManager(ctx, chatID); !ok {
		return
	}

	q, err := h.calendarQuery(args)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error()+"\nUsage: /export [YYYY-MM] [CC|region]")
		return
	}

	grid, err := h.availabilityService.Calendar(ctx, q)
	if err != nil {
		h.replyError(chatID, "build the calendar", err)
		return
	}

	wb := export.NewWorkbook()
	defer wb.Close()

	if err := wb.AddCalendar(grid); err != nil {
		h.replyError(chatID, "export the calendar", err)
		return
	}
	today := availability.DateOf(h.now())
	if !today.Before(grid.First) && !today.After(grid.Last) {
		rows, err := h.availabilityService.On(ctx, today, "")
		if err == nil {
			err = wb.AddStatusTable(today, rows)
		}
		if err != nil {
			h.logger.WithError(err).Warn("Status sheet skipped")
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		h.replyError(chatID, "export the calendar", err)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("calendar-%s.xlsx", grid.First.Format("2006-01")),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("📅 %s %d", grid.Month, grid.Year)
	if _, err := h.bot.Send(doc); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send document")
		h.reply(chatID, "❌ Failed to send the file.")
	}
}

// calendarQuery parses "[YYYY-MM] [CC|region]"; the month defaults to the
// current one.
func (h *Handler) calendarQuery(args string) (service.CalendarQuery, error) {
	now := h.now()
	q := service.CalendarQuery{Year: now.Year(), Month: now.Month()}

	for _, part := range strings.Fields(args) {
		if year, month, ok := parseMonth(part); ok {
			q.Year, q.Month = year, month
			continue
		}
		if len(part) < 2 || len(part) > 4 {
			return q, fmt.Errorf("unknown argument %q", part)
		}
		sel := holidays.ParseFilter(part)
		if sel.Region != "" {
			q.Region = sel.Region
		} else {
			q.Country = part
		}
	}
	return q, nil
}

// parseMonth accepts YYYY-MM and MM.YYYY.
func parseMonth(s string) (int, time.Month, bool) {
	for _, format := range []string{"2006-01", "01.2006"} {
		if t, err := time.Parse(format, s); err == nil {
			return t.Year(), t.Month(), true
		}
	}
	return 0, 0, false
}

func formatStatusTable(date time.Time, rows []availability.StatusRow, dayOff bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Status on %s\n", date.Format("02.01.2006"))
	if dayOff {
		b.WriteString("🏖 Company day off\n")
	}

	away := 0
	for _, r := range rows {
		if r.Status.IsAvailable() {
			continue
		}
		away++
		fmt.Fprintf(&b, "\n%s %s · %s", statusIcon(r.Status), r.Name, r.Status)
		if r.Half != nil {
			b.WriteString(" (" + *r.Half + ")")
		}
		if r.From != nil && r.To != nil && !r.From.Equal(*r.To) {
			fmt.Fprintf(&b, " · %s → %s", r.From.Format("02.01"), r.To.Format("02.01"))
		}
	}
	if away == 0 {
		b.WriteString("\n🟢 Everyone is available.")
	}
	fmt.Fprintf(&b, "\n\n👥 %d of %d available", len(rows)-away, len(rows))
	return b.String()
}

func formatCalendar(grid calendar.Grid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s %d\n", grid.Month, grid.Year)

	empty := true
	for _, c := range grid.Cells {
		if !c.InMonth || len(c.Events) == 0 {
			continue
		}
		empty = false
		labels := make([]string, 0, len(c.Events))
		for _, e := range c.Events {
			label := e.Label
			if e.Tag != calendar.TagHoliday {
				label += " · " + e.Tag
			}
			if e.Half != "" {
				label += " (" + e.Half + ")"
			}
			labels = append(labels, label)
		}
		fmt.Fprintf(&b, "\n%s %s: %s", c.Date.Format("02"), c.Date.Weekday().String()[:3], strings.Join(labels, ", "))
	}
	if empty {
		b.WriteString("\nNothing planned this month.")
	}
	return b.String()
}
