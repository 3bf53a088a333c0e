package telegram

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
	"github.com/aliskhannn/teachme-bot/internal/service"
	"github.com/aliskhannn/teachme-bot/internal/storage"
)

// bankView is everything the bank screen shows.
type bankView struct {
	// Layout is the store layout the positions below were read under.
	Layout uint64
	Topics []storage.TopicSummary
	// Expanded is the index of the expanded topic, or -1.
	Expanded  int
	Questions []entities.Question
	Shown     map[int]bool
}

func questionCount(n int) string {
	if n == 1 {
		return "1 question"
	}
	return fmt.Sprintf("%d questions", n)
}

// answerText describes the stored answer for the bank listing.
func answerText(q entities.Question) string {
	switch {
	case q.Answer != "" && q.AnswerImage != "":
		return q.Answer + " (with picture)"
	case q.Answer != "":
		return q.Answer
	default:
		return "(picture)"
	}
}

// Telegram rejects messages over 4096 characters. The budget leaves room for
// the trailing "more" line and for markup that counts as two UTF-16 units.
const (
	bankTextBudget = 3800
	bankLineLen    = 200
)

func renderBank(v bankView) string {
	var sb strings.Builder
	sb.WriteString(bold("Question bank"))
	sb.WriteString("\n")

	for i, t := range v.Topics {
		heading := "\n" + bold(truncate(t.Name, bankLineLen)) + " " + md("("+questionCount(t.Count)+")")
		if textLen(sb.String())+textLen(heading) > bankTextBudget {
			sb.WriteString("\n\n")
			sb.WriteString(italic(fmt.Sprintf("…and %d more topics.", len(v.Topics)-i)))
			break
		}
		sb.WriteString(heading)

		if i != v.Expanded {
			continue
		}
		if len(v.Questions) == 0 {
			sb.WriteString("\n")
			sb.WriteString(italic("No questions yet."))
		}
		for qi, q := range v.Questions {
			var line strings.Builder
			line.WriteString("\n")
			line.WriteString(md(fmt.Sprintf("Q%d. %s", qi+1, truncate(q.Question, bankLineLen))))
			if q.QuestionImage != "" {
				line.WriteString(" 🖼")
			}
			if v.Shown[qi] {
				line.WriteString("\n    ")
				line.WriteString(italic("Answer: " + truncate(answerText(q), bankLineLen)))
			}

			if textLen(sb.String())+textLen(line.String()) > bankTextBudget {
				sb.WriteString("\n")
				sb.WriteString(italic(fmt.Sprintf("…and %d more, delete some to see them.", len(v.Questions)-qi)))
				break
			}
			sb.WriteString(line.String())
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// textLen counts s in UTF-16 units as Telegram does. Markup makes it an overestimate.
func textLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func renderPractice(topic string, phase service.Phase, drawn service.Drawn, res service.CheckResult) string {
	var sb strings.Builder
	sb.WriteString(bold(topic))
	sb.WriteString("\n\n")

	switch phase {
	case service.PhaseQuestionDrawn:
		sb.WriteString(bold("Q:") + " " + md(drawn.Question.Question))
		sb.WriteString("\n\n")
		sb.WriteString(italic("Type your answer or tap Show answer."))

	case service.PhaseAnswerRevealed:
		sb.WriteString(bold("Q:") + " " + md(res.Question.Question))
		sb.WriteString("\n\n")

		given := strings.TrimSpace(res.UserAnswer)
		if given == "" {
			given = "(no answer)"
		}
		sb.WriteString(bold("Your answer:") + " " + md(given))
		sb.WriteString("\n")
		if res.Correct {
			sb.WriteString(md("✅ Correct!"))
		} else {
			sb.WriteString(md("❌ Not quite."))
		}
		if res.Question.Answer != "" {
			sb.WriteString("\n\n")
			sb.WriteString(bold("Answer:") + " " + md(res.Question.Answer))
		}

	default:
		sb.WriteString(md("Tap Start to draw a question."))
	}

	return sb.String()
}

func renderDraft(d service.Draft) string {
	notSet := italic("not set")
	field := func(label, value string) string {
		if value == "" {
			return bold(label) + " " + notSet
		}
		return bold(label) + " " + md(value)
	}
	attached := func(label, value string) string {
		if value == "" {
			return bold(label) + " " + md("none")
		}
		return bold(label) + " " + md("attached")
	}

	lines := []string{
		bold("New question"),
		"",
		field("Topic:", d.Topic),
		field("Question:", d.Question),
		attached("Question image:", d.QuestionImage),
		field("Answer:", d.Answer),
		attached("Answer image:", d.AnswerImage),
	}
	return strings.Join(lines, "\n")
}

// renderConfirm asks about a destructive action. count is the number of questions
// the action removes; prompt is the text of a single deleted question.
func renderConfirm(a service.PendingAction, count int, prompt string) string {
	switch a.Kind {
	case service.ActionDeleteTopic:
		return "Delete topic " + bold(a.Topic) + md(" with "+questionCount(count)+"?")
	case service.ActionDeleteQuestion:
		return fmt.Sprintf("Delete question %s from %s?\n\n%s",
			bold(fmt.Sprintf("Q%d", a.Index+1)), bold(a.Topic), italic(prompt))
	default:
		return "Delete " + bold("all") + md(" topics and questions? This cannot be undone.")
	}
}

func renderConfirmed(a service.PendingAction) string {
	switch a.Kind {
	case service.ActionDeleteTopic:
		return fmt.Sprintf("Topic %q deleted.", a.Topic)
	case service.ActionDeleteQuestion:
		return fmt.Sprintf("Question Q%d deleted from %q.", a.Index+1, a.Topic)
	default:
		return "All topics and questions deleted."
	}
}

// truncate shortens s to at most n runes for button labels.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
