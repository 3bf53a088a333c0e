package entities

import (
	"errors"
	"strings"
)

var (
	ErrEmptyQuestion = errors.New("question text is empty")
	ErrMissingAnswer = errors.New("answer needs text or an image")
)

// Question is a single flashcard: a prompt and the answer it is checked against.
// Either side may carry an image encoded as a data URI.
type Question struct {
	Question      string `json:"question"`
	QuestionImage string `json:"questionImage,omitempty"`
	Answer        string `json:"answer"`
	AnswerImage   string `json:"answerImage,omitempty"`
}

// Normalize returns a copy of q with both text fields trimmed.
func (q Question) Normalize() Question {
	q.Question = strings.TrimSpace(q.Question)
	q.Answer = strings.TrimSpace(q.Answer)
	return q
}

// Validate reports whether q can be stored.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return ErrEmptyQuestion
	}
	if strings.TrimSpace(q.Answer) == "" && q.AnswerImage == "" {
		return ErrMissingAnswer
	}
	return nil
}

// CheckAnswer compares the user's answer with the stored one,
// ignoring case and surrounding whitespace.
func (q Question) CheckAnswer(userAnswer string) bool {
	return strings.EqualFold(
		strings.TrimSpace(userAnswer),
		strings.TrimSpace(q.Answer),
	)
}
