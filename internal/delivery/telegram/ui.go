package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/teachme-bot/internal/service"
	"github.com/aliskhannn/teachme-bot/internal/storage"
)

const labelLen = 32

// buildTopicKeyboard lists topics one per row; callback builds each button's data
// from the layout the topics were read under.
func buildTopicKeyboard(topics []storage.TopicSummary, layout uint64, callback func(layout uint64, i int) string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(topics))
	for i, t := range topics {
		label := fmt.Sprintf("%s (%d)", truncate(t.Name, labelLen), t.Count)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callback(layout, i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildPracticeKeyboard builds keyboard for the practice card.
func buildPracticeKeyboard(phase service.Phase) tgbotapi.InlineKeyboardMarkup {
	topics := tgbotapi.NewInlineKeyboardButtonData("📚 Topics", buildPracticeCallback(practiceTopics))
	next := tgbotapi.NewInlineKeyboardButtonData("⏭ Next", buildPracticeCallback(practiceNext))

	switch phase {
	case service.PhaseQuestionDrawn:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("👀 Show answer", buildPracticeCallback(practiceShow)),
				next,
			),
			tgbotapi.NewInlineKeyboardRow(topics),
		)
	case service.PhaseAnswerRevealed:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(next, topics),
		)
	default:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("▶️ Start", buildPracticeCallback(practiceNext)),
				topics,
			),
		)
	}
}

// buildBankKeyboard builds keyboard for the question bank.
func buildBankKeyboard(v bankView) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for i, t := range v.Topics {
		arrow := "▸ "
		if i == v.Expanded {
			arrow = "▾ "
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(arrow+truncate(t.Name, labelLen), buildBankTopicCallback(bankExpand, v.Layout, i)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", buildBankTopicCallback(bankDeleteTopic, v.Layout, i)),
		))

		if i != v.Expanded {
			continue
		}
		for qi := range v.Questions {
			toggle := fmt.Sprintf("Show Q%d", qi+1)
			if v.Shown[qi] {
				toggle = fmt.Sprintf("Hide Q%d", qi+1)
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(toggle, buildBankQuestionCallback(bankToggle, v.Layout, i, qi)),
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 Q%d", qi+1), buildBankQuestionCallback(bankDeleteQuestion, v.Layout, i, qi)),
			))
		}
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildDraftKeyboard builds keyboard for the question form. Save is only offered
// once the draft can be added.
func buildDraftKeyboard(d service.Draft, canSave bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Topic", buildDraftCallback(draftTopics)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Question", buildDraftCallback(draftPrompt)),
			imageButton("Question image", d.QuestionImage != "", draftPromptImage, draftClearPromptImage),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Answer", buildDraftCallback(draftAnswer)),
			imageButton("Answer image", d.AnswerImage != "", draftAnswerImage, draftClearAnswerImage),
		),
	}

	last := tgbotapi.NewInlineKeyboardRow()
	if canSave {
		last = append(last, tgbotapi.NewInlineKeyboardButtonData("✅ Save", buildDraftCallback(draftSave)))
	}
	last = append(last, tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", buildDraftCallback(draftCancel)))
	rows = append(rows, last)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func imageButton(label string, attached bool, attach, detach string) tgbotapi.InlineKeyboardButton {
	if attached {
		return tgbotapi.NewInlineKeyboardButtonData("🗑 "+label, buildDraftCallback(detach))
	}
	return tgbotapi.NewInlineKeyboardButtonData("🖼 "+label, buildDraftCallback(attach))
}

// buildConfirmKeyboard builds the yes/no keyboard for a destructive action.
func buildConfirmKeyboard(seq int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, delete", buildConfirmYesCallback(seq)),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", buildConfirmNoCallback(seq)),
		),
	)
}
