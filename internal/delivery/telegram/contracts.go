package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
	"github.com/aliskhannn/teachme-bot/internal/service"
	"github.com/aliskhannn/teachme-bot/internal/storage"
)

// Bot is the part of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetFileDirectURL(fileID string) (string, error)
}

// BankView is the read side of the store.
type BankView interface {
	Layout() uint64
	Topics() []storage.TopicSummary
	Questions(topic string) ([]entities.Question, error)
}

type Controller interface {
	SetDraftTopic(name string)
	AddTopic(ctx context.Context) (bool, error)

	Draft() service.Draft
	SetDraftQuestionTopic(topic string) error
	SetDraftPrompt(text string)
	SetDraftAnswer(text string)
	ClearDraftImage(slot entities.ImageSlot) error
	ResetDraft()
	CanAddQuestion() bool
	AddQuestion(ctx context.Context) (bool, error)
	UploadImage(ctx context.Context, slot entities.ImageSlot, u service.Upload) (<-chan service.ImageResult, error)
	ApplyImage(res service.ImageResult) error

	SelectTopic(topic string) error
	Selected() string
	Phase() service.Phase
	Current() (service.Drawn, bool)
	Next() (service.Drawn, error)
	SetUserAnswer(text string)
	Check() (service.CheckResult, error)

	ToggleExpanded(topic string) string
	Expanded() string
	ToggleAnswer(topic string, index int) bool
	AnswerShown(topic string, index int) bool

	RequestDeleteTopic(name string) (service.PendingAction, error)
	RequestDeleteQuestion(topic string, index int) (service.PendingAction, error)
	RequestClearAll() service.PendingAction
	Cancel() (service.PendingAction, bool)
	Confirm(ctx context.Context) (service.PendingAction, error)
}
