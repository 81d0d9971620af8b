package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"availability-bot/internal/config"
	"availability-bot/internal/models"
	"availability-bot/internal/service"
	"availability-bot/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Bot is the part of the Telegram API the handler talks to.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

const (
	requestTimeout = 30 * time.Second
	// Telegram rejects longer messages.
	maxMessageLength = 4096
)

type Handler struct {
	bot                   Bot
	employeeService       *service.EmployeeService
	unavailabilityService *service.UnavailabilityService
	vacationService       *service.VacationService
	availabilityService   *service.AvailabilityService
	userStates            map[int64]string
	config                *config.BotConfig
	now                   func() time.Time
	logger                *logrus.Logger
}

func NewHandler(
	client *telegram.Client,
	employeeService *service.EmployeeService,
	unavailabilityService *service.UnavailabilityService,
	vacationService *service.VacationService,
	availabilityService *service.AvailabilityService,
	cfg *config.BotConfig,
) *Handler {
	return newHandler(client.Bot, employeeService, unavailabilityService, vacationService, availabilityService, cfg)
}

func newHandler(
	bot Bot,
	employeeService *service.EmployeeService,
	unavailabilityService *service.UnavailabilityService,
	vacationService *service.VacationService,
	availabilityService *service.AvailabilityService,
	cfg *config.BotConfig,
) *Handler {
	if cfg == nil {
		cfg = &config.BotConfig{}
	}
	return &Handler{
		bot:                   bot,
		employeeService:       employeeService,
		unavailabilityService: unavailabilityService,
		vacationService:       vacationService,
		availabilityService:   availabilityService,
		userStates:            make(map[int64]string),
		config:                cfg,
		now:                   time.Now,
		logger:                logrus.New(),
	}
}

func (h *Handler) SetLogger(logger *logrus.Logger) {
	h.logger = logger
}

// HandleUpdates processes updates one by one until the channel is closed or
// ctx is done.
func (h *Handler) HandleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if update.CallbackQuery != nil {
		h.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	h.handleMessage(ctx, update.Message)
}

// handleCallbackQuery handles the inline approve/reject buttons of /requests.
func (h *Handler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	defer func() {
		if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
			h.logger.WithError(err).Debug("Failed to answer callback")
		}
	}()

	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	action, id, ok := strings.Cut(callback.Data, ":")
	if !ok || (action != "approve" && action != "reject") {
		h.logger.WithField("data", callback.Data).Warn("Unknown callback")
		return
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup())
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.WithError(err).Debug("Failed to remove keyboard")
	}

	h.decide(ctx, chatID, id, action == "approve")
}

func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	h.logger.WithFields(logrus.Fields{"chat_id": message.Chat.ID, "user": username}).Info(message.Text)

	chatID := message.Chat.ID

	if state, exists := h.userStates[chatID]; exists && !message.IsCommand() {
		h.handleRegistrationState(ctx, message, state)
		return
	}

	if message.IsCommand() {
		delete(h.userStates, chatID)
		h.handleCommand(ctx, message)
		return
	}

	h.reply(chatID, "🤖 Use /help to see the available commands.")
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, truncate(text))
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

func (h *Handler) replyMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, truncate(text))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

// replyError turns a service error into a user facing message.
func (h *Handler) replyError(chatID int64, action string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		h.reply(chatID, "❌ "+verr.Error())
	case errors.Is(err, service.ErrNotFound):
		h.reply(chatID, "❌ Not found.")
	case errors.Is(err, service.ErrForbidden):
		h.reply(chatID, "❌ Access denied.")
	case errors.Is(err, service.ErrAlreadyDecided):
		h.reply(chatID, "⚠️ This request has already been decided.")
	case errors.Is(err, service.ErrConflict):
		h.reply(chatID, "❌ "+err.Error())
	default:
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to " + action)
		h.reply(chatID, "❌ Failed to "+action+". Please try again later.")
	}
}

// currentEmployee returns the employee bound to the chat, answering the user
// when there is none.
func (h *Handler) currentEmployee(ctx context.Context, chatID int64) (*models.Employee, bool) {
	employee, err := h.employeeService.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.reply(chatID, "❌ You are not registered yet.\nUse /register to link your work e-mail.")
		} else {
			h.replyError(chatID, "load your profile", err)
		}
		return nil, false
	}
	return employee, true
}

func (h *Handler) currentManager(ctx context.Context, chatID int64) (*models.Employee, bool) {
	employee, ok := h.currentEmployee(ctx, chatID)
	if !ok {
		return nil, false
	}
	if !employee.IsManager() {
		h.logger.WithField("chat_id", chatID).Warn("Unauthorized access to manager command")
		h.reply(chatID, "❌ Access denied. This command is for managers only.")
		return nil, false
	}
	return employee, true
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return text
	}
	return string(runes[:maxMessageLength-1]) + "…"
}
