package service

import (
	"context"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
)

// BankStore is the flashcard store the controller mutates.
type BankStore interface {
	AddTopic(ctx context.Context, name string) error
	DeleteTopic(ctx context.Context, name string) error
	AddQuestion(ctx context.Context, topic string, q entities.Question) error
	DeleteQuestion(ctx context.Context, topic string, index int) error
	ClearAll(ctx context.Context)
	PickRandom(topic string) (entities.Question, int, bool)
	HasTopic(name string) bool
	Questions(topic string) ([]entities.Question, error)
}

// ImageSource turns uploads into data URIs asynchronously.
type ImageSource interface {
	Encode(ctx context.Context, slot entities.ImageSlot, u Upload) (<-chan ImageResult, error)
}
