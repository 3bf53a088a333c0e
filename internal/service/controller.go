package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/metrics"
	"github.com/aliskhannn/teachme-bot/internal/storage"
)

var (
	ErrInvalidSlot     = errors.New("unknown image slot")
	ErrNoPendingAction = errors.New("nothing to confirm")
)

// Draft is the question being composed.
type Draft struct {
	Topic         string
	Question      string
	QuestionImage string
	Answer        string
	AnswerImage   string
}

// ActionKind identifies a destructive action waiting for confirmation.
type ActionKind int

const (
	ActionDeleteTopic ActionKind = iota + 1
	ActionDeleteQuestion
	ActionClearAll
)

// PendingAction is a destructive action the user has requested but not confirmed.
type PendingAction struct {
	Kind  ActionKind
	Topic string
	Index int
}

// Controller turns user intents into store mutations and keeps the session state
// that never reaches the store. It is driven by a single goroutine and is not safe
// for concurrent use.
type Controller struct {
	store   BankStore
	images  ImageSource
	logger  *zap.Logger
	metrics *metrics.Metrics

	selected   string
	draftTopic string
	draft      Draft
	drawn      *Drawn
	userAnswer string
	revealed   bool
	shown      map[string]bool
	expanded   string
	pending    *PendingAction
}

// NewController creates a controller over store.
func NewController(store BankStore, images ImageSource, logger *zap.Logger, m *metrics.Metrics) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		store:   store,
		images:  images,
		logger:  logger,
		metrics: m,
		shown:   make(map[string]bool),
	}
}

// SetDraftTopic stores the name typed into the new-topic field.
func (c *Controller) SetDraftTopic(name string) {
	c.draftTopic = name
}

func (c *Controller) DraftTopic() string {
	return c.draftTopic
}

// AddTopic creates the drafted topic. A blank draft is ignored and reports added=false
// without an error. Re-adding an existing topic returns storage.ErrTopicExists.
func (c *Controller) AddTopic(ctx context.Context) (bool, error) {
	name := strings.TrimSpace(c.draftTopic)
	err := c.store.AddTopic(ctx, name)
	switch {
	case errors.Is(err, storage.ErrEmptyTopicName):
		return false, nil
	case err != nil:
		return false, err
	}

	c.draftTopic = ""
	c.logger.Info("topic added", zap.String("topic", name))
	return true, nil
}

// RequestDeleteTopic asks for confirmation before the topic is deleted.
func (c *Controller) RequestDeleteTopic(name string) (PendingAction, error) {
	if !c.store.HasTopic(name) {
		return PendingAction{}, storage.ErrTopicNotFound
	}
	return c.setPending(PendingAction{Kind: ActionDeleteTopic, Topic: name}), nil
}

// RequestDeleteQuestion asks for confirmation before the question is deleted.
func (c *Controller) RequestDeleteQuestion(topic string, index int) (PendingAction, error) {
	qs, err := c.store.Questions(topic)
	if err != nil {
		return PendingAction{}, err
	}
	if index < 0 || index >= len(qs) {
		return PendingAction{}, storage.ErrQuestionNotFound
	}
	return c.setPending(PendingAction{Kind: ActionDeleteQuestion, Topic: topic, Index: index}), nil
}

// RequestClearAll asks for confirmation before every topic is removed.
func (c *Controller) RequestClearAll() PendingAction {
	return c.setPending(PendingAction{Kind: ActionClearAll})
}

func (c *Controller) setPending(a PendingAction) PendingAction {
	c.pending = &a
	return a
}

// Pending returns the action awaiting confirmation, if any.
func (c *Controller) Pending() (PendingAction, bool) {
	if c.pending == nil {
		return PendingAction{}, false
	}
	return *c.pending, true
}

// Cancel drops the pending action without touching any state.
func (c *Controller) Cancel() (PendingAction, bool) {
	a, ok := c.Pending()
	c.pending = nil
	return a, ok
}

// Confirm applies the pending action.
func (c *Controller) Confirm(ctx context.Context) (PendingAction, error) {
	a, ok := c.Pending()
	if !ok {
		return PendingAction{}, ErrNoPendingAction
	}
	c.pending = nil

	var err error
	switch a.Kind {
	case ActionDeleteTopic:
		err = c.deleteTopic(ctx, a.Topic)
	case ActionDeleteQuestion:
		err = c.deleteQuestion(ctx, a.Topic, a.Index)
	case ActionClearAll:
		c.clearAll(ctx)
	default:
		err = fmt.Errorf("unknown action %d", a.Kind)
	}
	return a, err
}

func (c *Controller) deleteTopic(ctx context.Context, name string) error {
	if err := c.store.DeleteTopic(ctx, name); err != nil {
		return err
	}

	if c.selected == name {
		c.selected = ""
		c.resetPractice()
	}
	if c.expanded == name {
		c.expanded = ""
	}
	if c.draft.Topic == name {
		c.draft.Topic = ""
	}
	c.dropTopicToggles(name)

	c.logger.Info("topic deleted", zap.String("topic", name))
	return nil
}

func (c *Controller) deleteQuestion(ctx context.Context, topic string, index int) error {
	if err := c.store.DeleteQuestion(ctx, topic, index); err != nil {
		return err
	}

	if c.drawn != nil && c.drawn.Topic == topic {
		switch {
		case c.drawn.Index == index:
			c.resetPractice()
		case c.drawn.Index > index:
			c.drawn.Index--
		}
	}
	c.dropQuestionToggle(topic, index)

	c.logger.Info("question deleted", zap.String("topic", topic), zap.Int("index", index))
	return nil
}

func (c *Controller) clearAll(ctx context.Context) {
	c.store.ClearAll(ctx)

	c.selected = ""
	c.expanded = ""
	c.draft.Topic = ""
	c.shown = make(map[string]bool)
	c.resetPractice()

	c.logger.Info("all data cleared")
}

// ToggleExpanded expands the topic in the bank view, or collapses it when already expanded.
func (c *Controller) ToggleExpanded(topic string) string {
	if c.expanded == topic {
		c.expanded = ""
	} else {
		c.expanded = topic
	}
	return c.expanded
}

func (c *Controller) Expanded() string {
	return c.expanded
}
