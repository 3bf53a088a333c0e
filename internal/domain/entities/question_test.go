package entities

import (
	"bytes"
	"errors"
	"testing"
)

// TestQuestionCheckAnswer ensures matching ignores case and surrounding whitespace only.
func TestQuestionCheckAnswer(t *testing.T) {
	q := Question{Question: "Capital of France?", Answer: "Paris"}

	tests := []struct {
		input string
		want  bool
	}{
		{"Paris", true},
		{"  paris ", true},
		{"PARIS\n", true},
		{"Pariss", false},
		{"Par is", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := q.CheckAnswer(tt.input); got != tt.want {
			t.Errorf("CheckAnswer(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// TestQuestionValidate covers the prompt and answer requirements.
func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name string
		q    Question
		want error
	}{
		{"text answer", Question{Question: "q", Answer: "a"}, nil},
		{"image answer", Question{Question: "q", AnswerImage: "data:image/png;base64,AA=="}, nil},
		{"blank prompt", Question{Question: "  ", Answer: "a"}, ErrEmptyQuestion},
		{"prompt image only", Question{QuestionImage: "data:image/png;base64,AA==", Answer: "a"}, ErrEmptyQuestion},
		{"no answer", Question{Question: "q", Answer: " "}, ErrMissingAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.q.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestDataURIRoundTrip ensures encoded images decode back to the same bytes.
func TestDataURIRoundTrip(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0, 1, 2}
	uri := EncodeDataURI(MediaTypePNG, raw)

	mt, data, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if mt != MediaTypePNG || !bytes.Equal(data, raw) {
		t.Fatalf("got %q %v", mt, data)
	}

	for _, bad := range []string{"image/png;base64,AA==", "data:image/png,AA==", "data:image/png;base64,***"} {
		if _, _, err := DecodeDataURI(bad); !errors.Is(err, ErrInvalidDataURI) {
			t.Fatalf("DecodeDataURI(%q) err = %v", bad, err)
		}
	}
}
