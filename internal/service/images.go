package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
	"github.com/aliskhannn/teachme-bot/internal/metrics"
)

var (
	ErrInvalidImageType = errors.New("image must be a JPEG or PNG")
	ErrImageTooLarge    = errors.New("image is too large")
	ErrImageRead        = errors.New("image could not be processed")
)

// Upload is an image offered by the user, from a photo or a file.
type Upload struct {
	Name      string
	MediaType string
	Open      func(ctx context.Context) (io.ReadCloser, error)
}

// ImageResult is the outcome of one encode. Exactly one result is sent per upload.
type ImageResult struct {
	ID      string
	Slot    entities.ImageSlot
	DataURI string
	Err     error
}

// ImageEncoder validates uploads and encodes them into data URIs off the caller's goroutine.
type ImageEncoder struct {
	maxBytes int64
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewImageEncoder creates an encoder. maxBytes <= 0 disables the size limit.
func NewImageEncoder(maxBytes int64, logger *zap.Logger, m *metrics.Metrics) *ImageEncoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageEncoder{maxBytes: maxBytes, logger: logger, metrics: m}
}

// AcceptedMediaType returns the normalized media type when it is JPEG or PNG.
func AcceptedMediaType(declared string) (string, bool) {
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return "", false
	}
	mt = strings.ToLower(mt)
	if mt == entities.MediaTypeJPEG || mt == entities.MediaTypePNG {
		return mt, true
	}
	return "", false
}

// Encode checks the declared media type synchronously and, when it is accepted,
// reads and encodes the image in the background. The returned channel yields
// exactly one result and is then closed.
func (e *ImageEncoder) Encode(ctx context.Context, slot entities.ImageSlot, u Upload) (<-chan ImageResult, error) {
	mediaType, ok := AcceptedMediaType(u.MediaType)
	if !ok {
		e.metrics.Upload("rejected")
		e.logger.Info("image rejected",
			zap.String("name", u.Name),
			zap.String("media_type", u.MediaType),
		)
		return nil, fmt.Errorf("%w: got %q", ErrInvalidImageType, u.MediaType)
	}

	id := uuid.NewString()
	out := make(chan ImageResult, 1)

	go func() {
		defer close(out)

		res := ImageResult{ID: id, Slot: slot}
		data, err := e.read(ctx, u)
		if err != nil {
			e.metrics.Upload("failed")
			e.logger.Warn("image read failed",
				zap.String("upload_id", id),
				zap.String("name", u.Name),
				zap.Error(err),
			)
			res.Err = fmt.Errorf("%w: %w", ErrImageRead, err)
			out <- res
			return
		}

		e.metrics.Upload("accepted")
		e.logger.Debug("image encoded",
			zap.String("upload_id", id),
			zap.String("slot", string(slot)),
			zap.Int("bytes", len(data)),
		)
		res.DataURI = entities.EncodeDataURI(mediaType, data)
		out <- res
	}()

	return out, nil
}

func (e *ImageEncoder) read(ctx context.Context, u Upload) ([]byte, error) {
	if u.Open == nil {
		return nil, errors.New("upload has no content")
	}

	rc, err := u.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if e.maxBytes > 0 {
		r = io.LimitReader(rc, e.maxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if e.maxBytes > 0 && int64(len(data)) > e.maxBytes {
		return nil, ErrImageTooLarge
	}
	if len(data) == 0 {
		return nil, errors.New("image is empty")
	}
	return data, nil
}
