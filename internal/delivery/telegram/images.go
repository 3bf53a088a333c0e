package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
	"github.com/aliskhannn/teachme-bot/internal/service"
)

// imageSlot reports which draft slot an incoming picture fills.
func (m inputMode) imageSlot() (entities.ImageSlot, bool) {
	switch m {
	case inputPromptImage:
		return entities.SlotQuestion, true
	case inputAnswerImage:
		return entities.SlotAnswer, true
	default:
		return "", false
	}
}

func (h *Handler) imageHandler(msg *tgbotapi.Message) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		slot, ok := h.input.imageSlot()
		if !ok {
			h.send(newPlainMessage(chatID, msgImageUnexpected))
			return nil
		}

		ch, err := h.controller.UploadImage(ctx, slot, h.uploadFromMessage(msg))
		if errors.Is(err, service.ErrInvalidImageType) {
			h.send(newPlainMessage(chatID, msgInvalidImage))
			return nil
		}
		if err != nil {
			return fmt.Errorf("upload image: %w", err)
		}

		h.forwardImage(ctx, chatID, ch)
		h.send(newPlainMessage(chatID, msgImageReceived))
		return nil
	}
}

// uploadFromMessage describes the picture attached to msg. Photos are always
// re-encoded by Telegram as JPEG; documents carry their own MIME type.
func (h *Handler) uploadFromMessage(msg *tgbotapi.Message) service.Upload {
	if len(msg.Photo) > 0 {
		p := msg.Photo[len(msg.Photo)-1]
		return service.Upload{
			Name:      p.FileUniqueID + ".jpg",
			MediaType: entities.MediaTypeJPEG,
			Open:      h.fileOpener(p.FileID),
		}
	}

	d := msg.Document
	return service.Upload{
		Name:      d.FileName,
		MediaType: d.MimeType,
		Open:      h.fileOpener(d.FileID),
	}
}

// fileOpener downloads a Telegram file when the encoder asks for it.
func (h *Handler) fileOpener(fileID string) func(ctx context.Context) (io.ReadCloser, error) {
	return func(ctx context.Context) (io.ReadCloser, error) {
		url, err := h.bot.GetFileDirectURL(fileID)
		if err != nil {
			return nil, fmt.Errorf("get file url: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := h.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("download file: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}
}

// forwardImage hands the encode result to the Run loop, which owns the controller.
func (h *Handler) forwardImage(ctx context.Context, chatID int64, ch <-chan service.ImageResult) {
	go func() {
		for res := range ch {
			select {
			case h.images <- imageDone{chatID: chatID, result: res}:
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (h *Handler) handleImageDone(done imageDone) {
	if err := h.controller.ApplyImage(done.result); err != nil {
		h.logger.Warn("image not attached",
			zap.String("upload_id", done.result.ID),
			zap.Error(err),
		)
		if errors.Is(err, service.ErrImageTooLarge) {
			h.send(newPlainMessage(done.chatID, msgImageTooLarge))
		} else {
			h.send(newPlainMessage(done.chatID, msgImageFailed))
		}
		return
	}

	if slot, ok := h.input.imageSlot(); ok && slot == done.result.Slot {
		h.input = inputNone
	}
	h.sendDraft(done.chatID)
}
