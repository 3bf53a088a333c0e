package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
)

// buildPhoto turns a stored data URI back into an uploadable photo.
func buildPhoto(chatID int64, dataURI, caption string) (*tgbotapi.PhotoConfig, error) {
	mediaType, data, err := entities.DecodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	name := "image.jpg"
	if mediaType == entities.MediaTypePNG {
		name = "image.png"
	}

	p := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	p.Caption = caption

	return &p, nil
}

func (h *Handler) sendImage(chatID int64, dataURI, caption string) {
	p, err := buildPhoto(chatID, dataURI, caption)
	if err != nil {
		h.logger.Warn("stored image is not a valid data uri", zap.Error(err))
		return
	}
	h.send(p)
}
