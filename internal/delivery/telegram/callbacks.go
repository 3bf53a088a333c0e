package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
	"github.com/aliskhannn/teachme-bot/internal/service"
	"github.com/aliskhannn/teachme-bot/internal/storage"
)

// callbackFunc handles one callback that came from the message msgID.
type callbackFunc func(ctx context.Context, chatID int64, msgID int, data callbackData) error

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	data := decodeCallback(cb.Data)

	var fn callbackFunc
	switch data.Action {
	case actionPractice:
		fn = h.handlePracticeCallback
	case actionBank:
		fn = h.handleBankCallback
	case actionDraft:
		fn = h.handleDraftCallback
	case actionConfirm:
		fn = h.handleConfirmCallback
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, msgStale)
		return
	}

	notice := ""
	_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID, msgID, data)
		if errors.Is(err, errStaleCallback) {
			notice = msgStale
			return nil
		}
		return err
	})(ctx, chatID)

	// Remove the user's "clock".
	h.answerCallback(cb.ID, notice)
}

// topicAt resolves the layout token at Params[1] and the topic position at Params[2].
// Buttons built before a removal are stale even when the position still exists.
func (h *Handler) topicAt(data callbackData) (string, error) {
	if len(data.Params) < 3 || data.Params[1] != layoutToken(h.bank.Layout()) {
		return "", errStaleCallback
	}
	idx, err := data.intParam(2)
	if err != nil {
		return "", err
	}
	topics := h.bank.Topics()
	if idx >= len(topics) {
		return "", errStaleCallback
	}
	return topics[idx].Name, nil
}

func (h *Handler) handlePracticeCallback(ctx context.Context, chatID int64, msgID int, data callbackData) error {
	switch data.sub() {
	case practiceTopics:
		h.sendTopicPicker(chatID)
		return nil

	case practiceSelect:
		name, err := h.topicAt(data)
		if err != nil {
			return err
		}
		if err := h.controller.SelectTopic(name); err != nil {
			if errors.Is(err, storage.ErrTopicNotFound) {
				return errStaleCallback
			}
			return err
		}
		h.sendPractice(chatID, nil)
		return nil

	case practiceNext:
		_, err := h.controller.Next()
		switch {
		case errors.Is(err, service.ErrNoTopicSelected):
			h.sendTopicPicker(chatID)
			return nil
		case errors.Is(err, service.ErrNoQuestions):
			h.send(newPlainMessage(chatID, msgNoQuestions))
			return nil
		case err != nil:
			return fmt.Errorf("draw question: %w", err)
		}
		h.sendPractice(chatID, nil)
		return nil

	case practiceShow:
		err := h.reveal(chatID)
		if errors.Is(err, service.ErrNothingDrawn) {
			return errStaleCallback
		}
		return err
	}

	return errStaleCallback
}

func (h *Handler) handleBankCallback(ctx context.Context, chatID int64, msgID int, data callbackData) error {
	name, err := h.topicAt(data)
	if err != nil {
		return err
	}

	switch data.sub() {
	case bankExpand:
		h.controller.ToggleExpanded(name)
		h.editBank(chatID, msgID)
		return nil

	case bankToggle:
		qi, err := data.intParam(3)
		if err != nil {
			return err
		}
		qs, err := h.bank.Questions(name)
		if err != nil || qi >= len(qs) {
			return errStaleCallback
		}
		if h.controller.ToggleAnswer(name, qi) && qs[qi].AnswerImage != "" {
			h.sendImage(chatID, qs[qi].AnswerImage, fmt.Sprintf("%s, Q%d", name, qi+1))
		}
		h.editBank(chatID, msgID)
		return nil

	case bankDeleteTopic:
		a, err := h.controller.RequestDeleteTopic(name)
		if err != nil {
			return staleIfMissing(err)
		}
		h.sendConfirm(chatID, a)
		return nil

	case bankDeleteQuestion:
		qi, err := data.intParam(3)
		if err != nil {
			return err
		}
		a, err := h.controller.RequestDeleteQuestion(name, qi)
		if err != nil {
			return staleIfMissing(err)
		}
		h.sendConfirm(chatID, a)
		return nil
	}

	return errStaleCallback
}

func (h *Handler) handleDraftCallback(ctx context.Context, chatID int64, msgID int, data callbackData) error {
	switch data.sub() {
	case draftTopics:
		topics := h.bank.Topics()
		if len(topics) == 0 {
			h.send(newPlainMessage(chatID, msgNoTopics))
			return nil
		}
		msg := newPlainMessage(chatID, msgPickDraftTopic)
		msg.ReplyMarkup = buildTopicKeyboard(topics, h.bank.Layout(), buildDraftTopicCallback)
		h.send(msg)

	case draftSetTopic:
		name, err := h.topicAt(data)
		if err != nil {
			return err
		}
		if err := h.controller.SetDraftQuestionTopic(name); err != nil {
			return staleIfMissing(err)
		}
		h.sendDraft(chatID)

	case draftPrompt:
		h.input = inputPrompt
		h.send(newPlainMessage(chatID, msgAskPrompt))

	case draftAnswer:
		h.input = inputAnswer
		h.send(newPlainMessage(chatID, msgAskAnswer))

	case draftPromptImage:
		h.input = inputPromptImage
		h.send(newPlainMessage(chatID, msgAskImage))

	case draftAnswerImage:
		h.input = inputAnswerImage
		h.send(newPlainMessage(chatID, msgAskImage))

	case draftClearPromptImage:
		if err := h.controller.ClearDraftImage(entities.SlotQuestion); err != nil {
			return err
		}
		h.editDraft(chatID, msgID)

	case draftClearAnswerImage:
		if err := h.controller.ClearDraftImage(entities.SlotAnswer); err != nil {
			return err
		}
		h.editDraft(chatID, msgID)

	case draftSave:
		topic := h.controller.Draft().Topic
		added, err := h.controller.AddQuestion(ctx)
		if err != nil {
			return fmt.Errorf("add question: %w", err)
		}
		if !added {
			h.send(newPlainMessage(chatID, msgDraftIncomplete))
			return nil
		}
		h.input = inputNone
		h.send(newPlainMessage(chatID, fmt.Sprintf("Question saved to %q.", topic)))
		h.sendDraft(chatID)

	case draftCancel:
		h.input = inputNone
		h.controller.ResetDraft()
		h.send(newPlainEdit(chatID, msgID, msgCancelled))

	default:
		return errStaleCallback
	}

	return nil
}

func (h *Handler) handleConfirmCallback(ctx context.Context, chatID int64, msgID int, data callbackData) error {
	switch data.sub() {
	case confirmNo:
		// A newer request replaced this one; leave it pending.
		seq, err := data.intParam(1)
		if err != nil || seq != h.confirmSeq {
			h.send(newPlainEdit(chatID, msgID, msgNothingToConfirm))
			return errStaleCallback
		}
		h.controller.Cancel()
		h.send(newPlainEdit(chatID, msgID, msgCancelled))
		return nil

	case confirmYes:
		seq, err := data.intParam(1)
		if err != nil || seq != h.confirmSeq {
			h.send(newPlainEdit(chatID, msgID, msgNothingToConfirm))
			return errStaleCallback
		}

		a, err := h.controller.Confirm(ctx)
		if errors.Is(err, service.ErrNoPendingAction) {
			h.send(newPlainEdit(chatID, msgID, msgNothingToConfirm))
			return errStaleCallback
		}
		if err != nil {
			return fmt.Errorf("confirm action %d: %w", a.Kind, err)
		}

		h.send(newPlainEdit(chatID, msgID, renderConfirmed(a)))
		if a.Kind != service.ActionClearAll {
			h.sendBank(chatID)
		}
		return nil
	}

	return errStaleCallback
}

// staleIfMissing maps not-found errors from the store to a stale button.
func staleIfMissing(err error) error {
	if errors.Is(err, storage.ErrTopicNotFound) || errors.Is(err, storage.ErrQuestionNotFound) {
		return errStaleCallback
	}
	return err
}
