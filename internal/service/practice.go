package service

import (
	"errors"
	"maps"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
	"github.com/aliskhannn/teachme-bot/internal/storage"
)

var (
	ErrNoTopicSelected = errors.New("no topic selected")
	ErrNoQuestions     = errors.New("topic has no questions")
	ErrNothingDrawn    = errors.New("no question drawn")
)

// Phase is the state of the practice flow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseQuestionDrawn
	PhaseAnswerRevealed
)

func (p Phase) String() string {
	switch p {
	case PhaseQuestionDrawn:
		return "question_drawn"
	case PhaseAnswerRevealed:
		return "answer_revealed"
	default:
		return "idle"
	}
}

// Drawn is the question currently being practiced.
type Drawn struct {
	Topic    string
	Index    int
	Question entities.Question
}

// CheckResult is the verdict shown once the answer is revealed.
type CheckResult struct {
	Question   entities.Question
	UserAnswer string
	Correct    bool
}

// SelectTopic switches practice to topic and returns to idle.
// An empty name clears the selection.
func (c *Controller) SelectTopic(topic string) error {
	if topic != "" && !c.store.HasTopic(topic) {
		return storage.ErrTopicNotFound
	}
	c.selected = topic
	c.resetPractice()
	return nil
}

func (c *Controller) Selected() string {
	return c.selected
}

// Phase reports where the practice flow is.
func (c *Controller) Phase() Phase {
	switch {
	case c.drawn == nil:
		return PhaseIdle
	case c.revealed:
		return PhaseAnswerRevealed
	default:
		return PhaseQuestionDrawn
	}
}

// Current returns the drawn question, if any.
func (c *Controller) Current() (Drawn, bool) {
	if c.drawn == nil {
		return Drawn{}, false
	}
	return *c.drawn, true
}

// Next draws a random question from the selected topic. When the topic has no
// questions left the flow returns to idle and ErrNoQuestions is returned.
func (c *Controller) Next() (Drawn, error) {
	if c.selected == "" {
		return Drawn{}, ErrNoTopicSelected
	}

	q, idx, ok := c.store.PickRandom(c.selected)
	if !ok {
		c.resetPractice()
		return Drawn{}, ErrNoQuestions
	}

	c.drawn = &Drawn{Topic: c.selected, Index: idx, Question: q}
	c.userAnswer = ""
	c.revealed = false

	c.logger.Debug("question drawn", zap.String("topic", c.selected), zap.Int("index", idx))
	return *c.drawn, nil
}

func (c *Controller) SetUserAnswer(text string) {
	c.userAnswer = text
}

func (c *Controller) UserAnswer() string {
	return c.userAnswer
}

// Check reveals the answer and compares it with what the user typed.
func (c *Controller) Check() (CheckResult, error) {
	if c.drawn == nil {
		return CheckResult{}, ErrNothingDrawn
	}

	res := CheckResult{
		Question:   c.drawn.Question,
		UserAnswer: c.userAnswer,
		Correct:    c.drawn.Question.CheckAnswer(c.userAnswer),
	}
	if !c.revealed {
		c.revealed = true
		c.metrics.AnswerChecked(res.Correct)
	}
	return res, nil
}

func (c *Controller) resetPractice() {
	c.drawn = nil
	c.userAnswer = ""
	c.revealed = false
}

// ToggleKey is the key of a question's reveal toggle in the bank view.
func ToggleKey(topic string, index int) string {
	return topic + "-" + strconv.Itoa(index)
}

// ToggleAnswer flips the bank-view answer toggle and returns the new state.
func (c *Controller) ToggleAnswer(topic string, index int) bool {
	key := ToggleKey(topic, index)
	if c.shown[key] {
		delete(c.shown, key)
		return false
	}
	c.shown[key] = true
	return true
}

// AnswerShown reports whether the bank view shows the question's answer.
func (c *Controller) AnswerShown(topic string, index int) bool {
	return c.shown[ToggleKey(topic, index)]
}

// ShownKeys returns the keys of every toggled-on answer.
func (c *Controller) ShownKeys() []string {
	keys := make([]string, 0, len(c.shown))
	for k := range c.shown {
		keys = append(keys, k)
	}
	return keys
}

// dropTopicToggles removes every toggle whose key starts with topic + "-".
func (c *Controller) dropTopicToggles(topic string) {
	prefix := topic + "-"
	for key := range c.shown {
		if strings.HasPrefix(key, prefix) {
			delete(c.shown, key)
		}
	}
}

// dropQuestionToggle removes the toggle of the deleted question and moves the
// toggles of the questions after it down by one, so they stay with their questions.
func (c *Controller) dropQuestionToggle(topic string, index int) {
	prefix := topic + "-"
	moved := make(map[string]bool)
	for key, v := range c.shown {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < index {
			continue
		}
		delete(c.shown, key)
		if n > index {
			moved[ToggleKey(topic, n-1)] = v
		}
	}
	maps.Copy(c.shown, moved)
}
