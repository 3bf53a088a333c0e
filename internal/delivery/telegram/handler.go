package telegram

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/service"
)

// inputMode says what the next plain message from the user fills in.
type inputMode int

const (
	inputNone inputMode = iota
	inputTopicName
	inputPrompt
	inputAnswer
	inputPromptImage
	inputAnswerImage
)

// imageDone is a finished encode on its way back to the handler loop.
type imageDone struct {
	chatID int64
	result service.ImageResult
}

// Handler owns the controller: every call into it happens on the Run goroutine.
type Handler struct {
	bot        Bot
	logger     *zap.Logger
	controller Controller
	bank       BankView
	ownerID    int64
	httpClient *http.Client

	input      inputMode
	confirmSeq int
	images     chan imageDone
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	controller Controller,
	bank BankView,
	ownerID int64,
) *Handler {
	return &Handler{
		bot:        bot,
		logger:     logger,
		controller: controller,
		bank:       bank,
		ownerID:    ownerID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		images:     make(chan imageDone, 4),
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		case done := <-h.images:
			h.handleImageDone(done)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cb := update.CallbackQuery; cb != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", cb.From.ID),
			zap.String("data", cb.Data),
		)
		if !h.allowed(cb.From) {
			h.answerCallback(cb.ID, msgNotAllowed)
			return
		}
		h.handleCallback(ctx, cb)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text),
	)

	if !h.allowed(msg.From) {
		h.send(newPlainMessage(chatID, msgNotAllowed))
		return
	}

	if msg.IsCommand() {
		h.input = inputNone

		switch msg.Command() {
		case "start":
			h.send(newPlainMessage(chatID, msgWelcome))

		case "help":
			h.send(newPlainMessage(chatID, msgHelp))

		case "practice":
			_ = h.withErrorHandling(h.practiceHandler())(ctx, chatID)

		case "newtopic":
			_ = h.withErrorHandling(h.newTopicHandler(msg.CommandArguments()))(ctx, chatID)

		case "add":
			_ = h.withErrorHandling(h.addHandler())(ctx, chatID)

		case "bank":
			_ = h.withErrorHandling(h.bankHandler())(ctx, chatID)

		case "clear":
			_ = h.withErrorHandling(h.clearHandler())(ctx, chatID)

		default:
			h.send(newPlainMessage(chatID, msgUnknownCommand))
		}

		return
	}

	if len(msg.Photo) > 0 || msg.Document != nil {
		_ = h.withErrorHandling(h.imageHandler(msg))(ctx, chatID)
		return
	}

	_ = h.withErrorHandling(h.textHandler(msg.Text))(ctx, chatID)
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	h.send(newPlainMessage(chatID, err))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
