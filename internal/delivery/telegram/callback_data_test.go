package telegram

import (
	"errors"
	"math"
	"testing"
)

// TestCallbackDataRoundTrip ensures builders produce data decodeCallback understands.
func TestCallbackDataRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		action string
		params []string
	}{
		{"practice next", buildPracticeCallback(practiceNext), actionPractice, []string{practiceNext}},
		{"practice select", buildPracticeSelectCallback(36, 3), actionPractice, []string{practiceSelect, "10", "3"}},
		{"bank toggle", buildBankQuestionCallback(bankToggle, 7, 1, 12), actionBank, []string{bankToggle, "7", "1", "12"}},
		{"draft topic", buildDraftTopicCallback(35, 0), actionDraft, []string{draftSetTopic, "z", "0"}},
		{"confirm yes", buildConfirmYesCallback(9), actionConfirm, []string{confirmYes, "9"}},
		{"confirm no", buildConfirmNoCallback(4), actionConfirm, []string{confirmNo, "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cd := decodeCallback(tt.data)
			if cd.Action != tt.action || cd.Raw != tt.data {
				t.Fatalf("decoded %+v", cd)
			}
			if len(cd.Params) != len(tt.params) {
				t.Fatalf("params = %v, want %v", cd.Params, tt.params)
			}
			for i := range tt.params {
				if cd.Params[i] != tt.params[i] {
					t.Fatalf("params = %v, want %v", cd.Params, tt.params)
				}
			}
		})
	}
}

// TestCallbackDataFitsTelegramLimit ensures the longest button stays under 64 bytes.
func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	data := buildBankQuestionCallback(bankDeleteQuestion, math.MaxUint64, 999999, 999999)
	if len(data) > 64 {
		t.Fatalf("callback data is %d bytes", len(data))
	}
}

// TestCallbackDataIntParam ensures malformed positions are reported as stale.
func TestCallbackDataIntParam(t *testing.T) {
	cd := decodeCallback("bank:toggle:x:-1")

	if _, err := cd.intParam(1); !errors.Is(err, errStaleCallback) {
		t.Fatalf("non-number err = %v", err)
	}
	if _, err := cd.intParam(2); !errors.Is(err, errStaleCallback) {
		t.Fatalf("negative err = %v", err)
	}
	if _, err := cd.intParam(5); !errors.Is(err, errStaleCallback) {
		t.Fatalf("missing err = %v", err)
	}
	if decodeCallback("bank").sub() != "" {
		t.Fatalf("sub of bare action should be empty")
	}
}
