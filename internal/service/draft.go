package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
	"github.com/aliskhannn/teachme-bot/internal/storage"
)

// Draft returns a copy of the question being composed.
func (c *Controller) Draft() Draft {
	return c.draft
}

// SetDraftQuestionTopic picks the topic the drafted question will be added to.
func (c *Controller) SetDraftQuestionTopic(topic string) error {
	if !c.store.HasTopic(topic) {
		return storage.ErrTopicNotFound
	}
	c.draft.Topic = topic
	return nil
}

func (c *Controller) SetDraftPrompt(text string) {
	c.draft.Question = text
}

func (c *Controller) SetDraftAnswer(text string) {
	c.draft.Answer = text
}

// SetDraftImage stores an encoded image in the given slot.
func (c *Controller) SetDraftImage(slot entities.ImageSlot, dataURI string) error {
	switch slot {
	case entities.SlotQuestion:
		c.draft.QuestionImage = dataURI
	case entities.SlotAnswer:
		c.draft.AnswerImage = dataURI
	default:
		return ErrInvalidSlot
	}
	return nil
}

// ClearDraftImage removes the image from the given slot.
func (c *Controller) ClearDraftImage(slot entities.ImageSlot) error {
	return c.SetDraftImage(slot, "")
}

// ResetDraft discards the drafted question but keeps its topic.
func (c *Controller) ResetDraft() {
	c.draft = Draft{Topic: c.draft.Topic}
}

// CanAddQuestion reports whether the draft is complete enough to be saved.
func (c *Controller) CanAddQuestion() bool {
	d := c.draft
	if d.Topic == "" || !c.store.HasTopic(d.Topic) {
		return false
	}
	return c.draftQuestion().Validate() == nil
}

// AddQuestion saves the draft to its topic. An incomplete draft is ignored and
// reports added=false without an error.
func (c *Controller) AddQuestion(ctx context.Context) (bool, error) {
	if !c.CanAddQuestion() {
		return false, nil
	}

	topic := c.draft.Topic
	if err := c.store.AddQuestion(ctx, topic, c.draftQuestion()); err != nil {
		return false, err
	}

	c.ResetDraft()
	c.logger.Info("question added", zap.String("topic", topic))
	return true, nil
}

func (c *Controller) draftQuestion() entities.Question {
	return entities.Question{
		Question:      strings.TrimSpace(c.draft.Question),
		QuestionImage: c.draft.QuestionImage,
		Answer:        strings.TrimSpace(c.draft.Answer),
		AnswerImage:   c.draft.AnswerImage,
	}
}

// UploadImage validates the upload and starts encoding it for slot. Invalid media
// types fail immediately with ErrInvalidImageType. The result must be handed back
// through ApplyImage on the controller's goroutine.
func (c *Controller) UploadImage(ctx context.Context, slot entities.ImageSlot, u Upload) (<-chan ImageResult, error) {
	if !slot.Valid() {
		return nil, ErrInvalidSlot
	}
	return c.images.Encode(ctx, slot, u)
}

// ApplyImage stores a finished encode into the draft.
func (c *Controller) ApplyImage(res ImageResult) error {
	if res.Err != nil {
		return res.Err
	}
	return c.SetDraftImage(res.Slot, res.DataURI)
}
