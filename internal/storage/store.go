package storage

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
	"github.com/aliskhannn/teachme-bot/internal/metrics"
	"github.com/aliskhannn/teachme-bot/internal/repository"
)

var (
	ErrEmptyTopicName   = errors.New("topic name is empty")
	ErrTopicExists      = errors.New("topic already exists")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrQuestionNotFound = errors.New("question not found")
)

// Persister receives the full serialized bank after every mutation.
type Persister interface {
	Save(ctx context.Context, data []byte) error
	Erase(ctx context.Context) error
}

// Loader reads the serialized bank once at startup.
type Loader interface {
	Load(ctx context.Context) ([]byte, error)
}

// TopicSummary is a topic name with its question count.
type TopicSummary struct {
	Name  string
	Count int
}

// Store keeps the flashcard bank in memory and mirrors it to a Persister.
type Store struct {
	mu      sync.RWMutex
	bank    *entities.Bank
	persist Persister
	rng     *rand.Rand
	logger  *zap.Logger
	metrics *metrics.Metrics
	// layout changes whenever a removal shifts topic or question positions.
	layout uint64
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithRand replaces the random source used by PickRandom.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) { s.rng = r }
}

// New creates a Store holding bank. A nil bank starts empty.
func New(bank *entities.Bank, persist Persister, opts ...Option) *Store {
	if bank == nil {
		bank = entities.NewBank()
	}
	s := &Store{
		bank:    bank,
		persist: persist,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  zap.NewNop(),
		layout:  uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate builds a Store from the persisted slot. A missing or unparsable slot
// yields an empty bank.
func Hydrate(ctx context.Context, src Loader, persist Persister, opts ...Option) *Store {
	s := New(nil, persist, opts...)

	data, err := src.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrSlotNotFound):
		s.logger.Info("no saved bank, starting empty")
		return s
	case err != nil:
		s.logger.Warn("failed to read saved bank, starting empty", zap.Error(err))
		return s
	}

	bank := entities.NewBank()
	if err := json.Unmarshal(data, bank); err != nil {
		s.logger.Warn("saved bank is unparsable, starting empty", zap.Error(err))
		return s
	}

	s.bank = bank
	s.metrics.Topics(bank.Len())
	s.logger.Info("bank loaded", zap.Int("topics", bank.Len()))
	return s
}

// Snapshot returns the current bank. Banks are immutable, so the value is safe to keep.
func (s *Store) Snapshot() *entities.Bank {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bank
}

// Layout identifies the current arrangement of topics and questions. It changes
// on every removal, so a position read under one value is only valid under the same value.
func (s *Store) Layout() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout
}

// Topics lists topics in insertion order.
func (s *Store) Topics() []TopicSummary {
	bank := s.Snapshot()
	out := make([]TopicSummary, 0, bank.Len())
	for _, t := range bank.Topics() {
		out = append(out, TopicSummary{Name: t.Name, Count: len(t.Questions)})
	}
	return out
}

// HasTopic reports whether the topic exists.
func (s *Store) HasTopic(name string) bool {
	return s.Snapshot().Has(name)
}

// Questions returns the topic's questions in display order.
func (s *Store) Questions(topic string) ([]entities.Question, error) {
	qs, ok := s.Snapshot().Questions(topic)
	if !ok {
		return nil, ErrTopicNotFound
	}
	return qs, nil
}

// AddTopic adds an empty topic. Re-adding an existing name leaves its questions intact
// and returns ErrTopicExists.
func (s *Store) AddTopic(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyTopicName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bank.Has(name) {
		return ErrTopicExists
	}
	s.commit(ctx, "add_topic", s.bank.WithTopic(name))
	return nil
}

// DeleteTopic removes the topic and all of its questions. Missing topics are ignored.
func (s *Store) DeleteTopic(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.bank.Has(name) {
		return nil
	}
	s.layout++
	s.commit(ctx, "delete_topic", s.bank.WithoutTopic(name))
	return nil
}

// AddQuestion appends q to the topic.
func (s *Store) AddQuestion(ctx context.Context, topic string, q entities.Question) error {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.bank.WithQuestion(topic, q)
	if !ok {
		return ErrTopicNotFound
	}
	s.commit(ctx, "add_question", next)
	return nil
}

// DeleteQuestion removes the question at index from the topic.
func (s *Store) DeleteQuestion(ctx context.Context, topic string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.bank.Has(topic) {
		return ErrTopicNotFound
	}
	next, ok := s.bank.WithoutQuestion(topic, index)
	if !ok {
		return ErrQuestionNotFound
	}
	s.layout++
	s.commit(ctx, "delete_question", next)
	return nil
}

// ClearAll drops every topic and erases the persisted slot.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bank = entities.NewBank()
	s.layout++
	s.metrics.Mutation("clear_all", 0)

	if err := s.persist.Erase(ctx); err != nil {
		s.metrics.PersistError()
		s.logger.Error("failed to erase saved bank", zap.Error(err))
	}
}

// PickRandom returns a uniformly chosen question of the topic and its index.
// ok is false when the topic is missing or has no questions.
func (s *Store) PickRandom(topic string) (q entities.Question, index int, ok bool) {
	qs, found := s.Snapshot().Questions(topic)
	if !found || len(qs) == 0 {
		return entities.Question{}, 0, false
	}

	s.mu.Lock()
	index = s.rng.Intn(len(qs))
	s.mu.Unlock()

	return qs[index], index, true
}

// commit swaps in the new bank and writes it out. Must be called with mu held.
func (s *Store) commit(ctx context.Context, op string, next *entities.Bank) {
	s.bank = next
	s.metrics.Mutation(op, next.Len())

	data, err := json.Marshal(next)
	if err != nil {
		s.metrics.PersistError()
		s.logger.Error("failed to encode bank", zap.String("op", op), zap.Error(err))
		return
	}

	if err := s.persist.Save(ctx, data); err != nil {
		s.metrics.PersistError()
		s.logger.Error("failed to save bank", zap.String("op", op), zap.Error(err))
	}
}
