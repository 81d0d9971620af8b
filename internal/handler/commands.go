package handler

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.sendStartMessage(message)
	case "help":
		h.sendHelpMessage(message)

	// Profile
	case "register":
		h.register(ctx, message, args)
	case "me", "myprofile":
		h.showProfile(ctx, message)
	case "setmanager":
		h.setManager(ctx, message, args)
	case "promote":
		h.promote(ctx, message, args)
	case "removeemployee":
		h.removeEmployee(ctx, message, args)

	// Unavailability
	case "unavailable":
		h.addUnavailability(ctx, message, args)
	case "myunavailable":
		h.showMyUnavailability(ctx, message)
	case "replaceunavailable":
		h.replaceUnavailability(ctx, message, args)
	case "cancelunavailable":
		h.cancelUnavailability(ctx, message, args)

	// Vacation requests
	case "vacation":
		h.requestVacation(ctx, message, args)
	case "myrequests":
		h.showMyRequests(ctx, message)
	case "requests":
		h.showPendingRequests(ctx, message)
	case "approve":
		h.decide(ctx, message.Chat.ID, args, true)
	case "reject":
		h.decide(ctx, message.Chat.ID, args, false)

	// Overview
	case "today":
		h.showToday(ctx, message, args)
	case "calendar":
		h.showCalendar(ctx, message, args)
	case "holidays":
		h.showHolidays(ctx, message, args)
	case "export":
		h.exportCalendar(ctx, message, args)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.reply(message.Chat.ID, "❌ Unknown command. Use /help to see the available commands.")
}

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	text := `👋 Hi! I keep track of who is available.

1. Link your work e-mail with /register
2. Record days you are away with /unavailable
3. Ask for a vacation with /vacation

Use /help for the full list of commands.`

	h.reply(message.Chat.ID, text)
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := `📋 *Available commands*

👤 *Profile*
/register email name [CC] [TZ] - Link your work e-mail
/me - Show my profile

🚫 *Unavailability*
/unavailable kind from to [AM|PM] - Record an unavailability
    Example: /unavailable sick 03.03.2026 05.03.2026
    Example: /unavailable halfday 10.03.2026 10.03.2026 PM
/myunavailable - My unavailabilities
/replaceunavailable id kind from to [AM|PM] - Replace an unavailability
/cancelunavailable id - Remove an unavailability

🌴 *Vacations*
/vacation from to - Request a vacation
    Example: /vacation 01.07.2026 14.07.2026
/myrequests - My vacation requests

📅 *Calendar*
/holidays [year] [CC|region] - Public holidays

👑 *Managers*
/requests - Pending vacation requests
/approve id - Approve a request
/reject id - Reject a request
/today [name] - Who is unavailable today
/calendar [YYYY-MM] [CC|region] - Month calendar
/export [YYYY-MM] [CC|region] - Month calendar as XLSX
/setmanager employee\_email manager\_email - Assign a manager
/promote email - Grant the manager role
/removeemployee email - Remove an employee

Dates: DD.MM.YYYY, DD.MM or YYYY-MM-DD.
Regions: NAM, CAM, SAM, EU, APAC, OCE.`

	if h.config.BaseManagerChatID != 0 {
		text += fmt.Sprintf("\n\n🔧 Main manager chat ID: %d", h.config.BaseManagerChatID)
	}

	h.replyMarkdown(message.Chat.ID, text)
}
