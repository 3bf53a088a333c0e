package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/service"
	"github.com/aliskhannn/teachme-bot/internal/storage"
)

func (h *Handler) practiceHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if h.controller.Selected() != "" {
			h.sendPractice(chatID, nil)
			return nil
		}
		h.sendTopicPicker(chatID)
		return nil
	}
}

func (h *Handler) newTopicHandler(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(args) == "" {
			h.input = inputTopicName
			h.send(newPlainMessage(chatID, msgAskTopicName))
			return nil
		}
		return h.createTopic(ctx, chatID, args)
	}
}

func (h *Handler) addHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		topics := h.bank.Topics()
		if len(topics) == 0 {
			h.send(newPlainMessage(chatID, msgNoTopics))
			return nil
		}

		if h.controller.Draft().Topic == "" && h.controller.Selected() != "" {
			if err := h.controller.SetDraftQuestionTopic(h.controller.Selected()); err != nil {
				return err
			}
		}

		h.sendDraft(chatID)
		return nil
	}
}

func (h *Handler) bankHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.sendBank(chatID)
		return nil
	}
}

func (h *Handler) clearHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.sendConfirm(chatID, h.controller.RequestClearAll())
		return nil
	}
}

// textHandler routes a plain message: it fills the field the user was asked for,
// otherwise it answers the drawn question.
func (h *Handler) textHandler(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		mode := h.input

		switch mode {
		case inputTopicName:
			h.input = inputNone
			return h.createTopic(ctx, chatID, text)

		case inputPrompt:
			h.input = inputNone
			h.controller.SetDraftPrompt(text)
			h.sendDraft(chatID)
			return nil

		case inputAnswer:
			h.input = inputNone
			h.controller.SetDraftAnswer(text)
			h.sendDraft(chatID)
			return nil

		case inputPromptImage, inputAnswerImage:
			h.send(newPlainMessage(chatID, msgAskImage))
			return nil
		}

		if h.controller.Phase() == service.PhaseQuestionDrawn {
			h.controller.SetUserAnswer(text)
			return h.reveal(chatID)
		}

		h.send(newPlainMessage(chatID, msgHint))
		return nil
	}
}

func (h *Handler) createTopic(ctx context.Context, chatID int64, name string) error {
	h.controller.SetDraftTopic(name)

	added, err := h.controller.AddTopic(ctx)
	switch {
	case errors.Is(err, storage.ErrTopicExists):
		h.send(newPlainMessage(chatID, msgTopicExists))
		return nil
	case err != nil:
		return fmt.Errorf("add topic: %w", err)
	case !added:
		h.input = inputTopicName
		h.send(newPlainMessage(chatID, msgAskTopicName))
		return nil
	}

	name = strings.TrimSpace(name)
	h.send(newPlainMessage(chatID, fmt.Sprintf("Topic %q created. Add questions with /add.", name)))
	return nil
}

func (h *Handler) reveal(chatID int64) error {
	res, err := h.controller.Check()
	if err != nil {
		return err
	}
	h.sendPractice(chatID, &res)
	return nil
}

func (h *Handler) sendTopicPicker(chatID int64) {
	layout := h.bank.Layout()
	topics := h.bank.Topics()
	if len(topics) == 0 {
		h.send(newPlainMessage(chatID, msgNoTopics))
		return
	}
	msg := newPlainMessage(chatID, msgPickTopic)
	msg.ReplyMarkup = buildTopicKeyboard(topics, layout, buildPracticeSelectCallback)
	h.send(msg)
}

// sendPractice shows the practice card. The question image goes before the card,
// the answer image after the verdict.
func (h *Handler) sendPractice(chatID int64, res *service.CheckResult) {
	phase := h.controller.Phase()
	drawn, _ := h.controller.Current()

	var result service.CheckResult
	if res != nil {
		result = *res
	} else if phase == service.PhaseAnswerRevealed {
		result, _ = h.controller.Check()
	}

	if phase == service.PhaseQuestionDrawn && drawn.Question.QuestionImage != "" {
		h.sendImage(chatID, drawn.Question.QuestionImage, "")
	}

	msg := newMessage(chatID, renderPractice(h.controller.Selected(), phase, drawn, result))
	msg.ReplyMarkup = buildPracticeKeyboard(phase)
	h.send(msg)

	if phase == service.PhaseAnswerRevealed && result.Question.AnswerImage != "" {
		h.sendImage(chatID, result.Question.AnswerImage, "Answer")
	}
}

func (h *Handler) sendDraft(chatID int64) {
	d := h.controller.Draft()
	msg := newMessage(chatID, renderDraft(d))
	msg.ReplyMarkup = buildDraftKeyboard(d, h.controller.CanAddQuestion())
	h.send(msg)
}

func (h *Handler) editDraft(chatID int64, msgID int) {
	d := h.controller.Draft()
	kb := buildDraftKeyboard(d, h.controller.CanAddQuestion())
	edit := newEdit(chatID, msgID, renderDraft(d))
	edit.ReplyMarkup = &kb
	h.send(edit)
}

// bankView collects the bank screen from the store and the controller's toggles.
func (h *Handler) bankView() bankView {
	v := bankView{
		Layout:   h.bank.Layout(),
		Topics:   h.bank.Topics(),
		Expanded: -1,
		Shown:    make(map[int]bool),
	}

	expanded := h.controller.Expanded()
	for i, t := range v.Topics {
		if t.Name != expanded {
			continue
		}
		qs, err := h.bank.Questions(t.Name)
		if err != nil {
			h.logger.Warn("expanded topic vanished", zap.String("topic", t.Name), zap.Error(err))
			break
		}
		v.Expanded = i
		v.Questions = qs
		for qi := range qs {
			if h.controller.AnswerShown(t.Name, qi) {
				v.Shown[qi] = true
			}
		}
	}

	return v
}

func (h *Handler) sendBank(chatID int64) {
	v := h.bankView()
	if len(v.Topics) == 0 {
		h.send(newPlainMessage(chatID, msgNoTopics))
		return
	}
	msg := newMessage(chatID, renderBank(v))
	msg.ReplyMarkup = buildBankKeyboard(v)
	h.send(msg)
}

func (h *Handler) editBank(chatID int64, msgID int) {
	v := h.bankView()
	if len(v.Topics) == 0 {
		h.send(newPlainEdit(chatID, msgID, msgNoTopics))
		return
	}
	kb := buildBankKeyboard(v)
	edit := newEdit(chatID, msgID, renderBank(v))
	edit.ReplyMarkup = &kb
	h.send(edit)
}

// sendConfirm shows the yes/no prompt for a requested destructive action.
func (h *Handler) sendConfirm(chatID int64, a service.PendingAction) {
	h.confirmSeq++

	var (
		count  int
		prompt string
	)
	if a.Topic != "" {
		qs, err := h.bank.Questions(a.Topic)
		if err == nil {
			count = len(qs)
			if a.Kind == service.ActionDeleteQuestion && a.Index < len(qs) {
				prompt = qs[a.Index].Question
			}
		}
	}

	msg := newMessage(chatID, renderConfirm(a, count, prompt))
	msg.ReplyMarkup = buildConfirmKeyboard(h.confirmSeq)
	h.send(msg)
}
