package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
)

func stringUpload(mediaType, body string) Upload {
	return Upload{
		Name:      "upload",
		MediaType: mediaType,
		Open: func(context.Context) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func waitResult(t *testing.T, ch <-chan ImageResult) ImageResult {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for encode")
		return ImageResult{}
	}
}

// TestImageEncoderRejectsUnsupportedTypes ensures only JPEG and PNG pass validation.
func TestImageEncoderRejectsUnsupportedTypes(t *testing.T) {
	enc := NewImageEncoder(0, nil, nil)

	for _, mt := range []string{"image/gif", "image/webp", "text/plain", "", "image/pngx"} {
		ch, err := enc.Encode(context.Background(), entities.SlotQuestion, stringUpload(mt, "x"))
		if !errors.Is(err, ErrInvalidImageType) || ch != nil {
			t.Fatalf("media type %q: err=%v", mt, err)
		}
	}
}

// TestImageEncoderAcceptsJPEGAndPNG ensures accepted uploads become data URIs.
func TestImageEncoderAcceptsJPEGAndPNG(t *testing.T) {
	enc := NewImageEncoder(0, nil, nil)

	for _, mt := range []string{"image/png", "image/jpeg", "IMAGE/JPEG; charset=binary"} {
		ch, err := enc.Encode(context.Background(), entities.SlotAnswer, stringUpload(mt, "pixels"))
		if err != nil {
			t.Fatalf("media type %q: %v", mt, err)
		}
		res := waitResult(t, ch)
		if res.Err != nil || res.DataURI == "" || res.ID == "" {
			t.Fatalf("media type %q: result %+v", mt, res)
		}
		gotType, data, err := entities.DecodeDataURI(res.DataURI)
		if err != nil || string(data) != "pixels" || !strings.HasPrefix(gotType, "image/") {
			t.Fatalf("decoded %q %q %v", gotType, data, err)
		}
		if _, open := <-ch; open {
			t.Fatalf("channel must close after the result")
		}
	}
}

// TestImageEncoderSizeLimit ensures oversized images fail with ErrImageTooLarge.
func TestImageEncoderSizeLimit(t *testing.T) {
	enc := NewImageEncoder(4, nil, nil)

	ch, err := enc.Encode(context.Background(), entities.SlotQuestion, stringUpload("image/png", "12345"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	res := waitResult(t, ch)
	if !errors.Is(res.Err, ErrImageRead) || !errors.Is(res.Err, ErrImageTooLarge) {
		t.Fatalf("err = %v", res.Err)
	}
}

// TestControllerUploadImageDeliversToSlot ensures results land in the requested slot.
func TestControllerUploadImageDeliversToSlot(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	ch, err := c.UploadImage(ctx, entities.SlotQuestion, stringUpload("image/png", "prompt"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := c.ApplyImage(waitResult(t, ch)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	ch, err = c.UploadImage(ctx, entities.SlotAnswer, stringUpload("image/jpeg", "answer"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := c.ApplyImage(waitResult(t, ch)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	d := c.Draft()
	if !strings.HasPrefix(d.QuestionImage, "data:image/png;base64,") {
		t.Fatalf("question image = %q", d.QuestionImage)
	}
	if !strings.HasPrefix(d.AnswerImage, "data:image/jpeg;base64,") {
		t.Fatalf("answer image = %q", d.AnswerImage)
	}

	if _, err := c.UploadImage(ctx, entities.SlotQuestion, stringUpload("image/gif", "x")); !errors.Is(err, ErrInvalidImageType) {
		t.Fatalf("gif err = %v", err)
	}
	if _, err := c.UploadImage(ctx, "side", stringUpload("image/png", "x")); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("bad slot err = %v", err)
	}
}

// TestControllerApplyImageFailure ensures read failures leave the draft untouched.
func TestControllerApplyImageFailure(t *testing.T) {
	c, _ := newTestController(t)

	u := Upload{
		MediaType: "image/png",
		Open: func(context.Context) (io.ReadCloser, error) {
			return nil, errors.New("connection reset")
		},
	}
	ch, err := c.UploadImage(context.Background(), entities.SlotAnswer, u)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := c.ApplyImage(waitResult(t, ch)); !errors.Is(err, ErrImageRead) {
		t.Fatalf("apply err = %v", err)
	}
	if c.Draft().AnswerImage != "" {
		t.Fatalf("failed upload must not set the image")
	}
}
