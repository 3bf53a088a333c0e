package telegram

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aliskhannn/teachme-bot/internal/domain/entities"
	"github.com/aliskhannn/teachme-bot/internal/service"
	"github.com/aliskhannn/teachme-bot/internal/storage"
)

// TestRenderBankListsCountsAndToggles checks the collapsed and expanded listing.
func TestRenderBankListsCountsAndToggles(t *testing.T) {
	v := bankView{
		Topics: []storage.TopicSummary{
			{Name: "Geography", Count: 2},
			{Name: "Math", Count: 1},
		},
		Expanded: 0,
		Questions: []entities.Question{
			{Question: "Capital of France?", Answer: "Paris"},
			{Question: "Flag of Japan?", AnswerImage: "data:image/png;base64,AA=="},
		},
		Shown: map[int]bool{1: true},
	}

	text := renderBank(v)
	for _, want := range []string{"Geography", `\(2 questions\)`, `\(1 question\)`, `Q1\. Capital of France?`, `\(picture\)`} {
		if !strings.Contains(text, want) {
			t.Fatalf("bank text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Paris") {
		t.Fatalf("hidden answer rendered:\n%s", text)
	}

	kb := buildBankKeyboard(v)
	// two topic rows plus one row per question of the expanded topic
	if len(kb.InlineKeyboard) != 4 {
		t.Fatalf("rows = %d", len(kb.InlineKeyboard))
	}
	if got := kb.InlineKeyboard[2][0].Text; got != "Hide Q2" {
		t.Fatalf("toggle label = %q", got)
	}
}

// TestRenderBankStaysUnderMessageLimit ensures a huge topic is cut instead of failing to send.
func TestRenderBankStaysUnderMessageLimit(t *testing.T) {
	long := strings.Repeat("What is the meaning of this rather long prompt? ", 10)

	v := bankView{Expanded: 0, Shown: make(map[int]bool)}
	for i := 0; i < 60; i++ {
		v.Topics = append(v.Topics, storage.TopicSummary{Name: fmt.Sprintf("Topic %d %s", i, long), Count: 100})
	}
	for qi := 0; qi < 100; qi++ {
		v.Questions = append(v.Questions, entities.Question{Question: long, Answer: long})
		v.Shown[qi] = true
	}

	text := renderBank(v)
	if n := textLen(text); n > 4096 {
		t.Fatalf("bank text is %d characters", n)
	}
	if !strings.Contains(text, "more, delete some to see them") {
		t.Fatalf("cut listing should say more questions exist:\n%s", text)
	}
	if !strings.Contains(text, "more topics") {
		t.Fatalf("cut listing should say more topics exist")
	}
}

// TestRenderPracticePhases checks what each phase of the card shows.
func TestRenderPracticePhases(t *testing.T) {
	q := entities.Question{Question: "Capital of France?", Answer: "Paris"}
	drawn := service.Drawn{Topic: "Geo", Question: q}

	idle := renderPractice("Geo", service.PhaseIdle, service.Drawn{}, service.CheckResult{})
	if !strings.Contains(idle, "Start") {
		t.Fatalf("idle = %q", idle)
	}

	asked := renderPractice("Geo", service.PhaseQuestionDrawn, drawn, service.CheckResult{})
	if !strings.Contains(asked, "Capital of France?") || strings.Contains(asked, "Paris") {
		t.Fatalf("drawn = %q", asked)
	}

	wrong := renderPractice("Geo", service.PhaseAnswerRevealed, drawn,
		service.CheckResult{Question: q, UserAnswer: "Pariss"})
	if !strings.Contains(wrong, "Not quite") || !strings.Contains(wrong, "Paris") {
		t.Fatalf("revealed = %q", wrong)
	}

	imageOnly := entities.Question{Question: "Flag?", AnswerImage: "data:image/png;base64,AA=="}
	revealed := renderPractice("Geo", service.PhaseAnswerRevealed, drawn,
		service.CheckResult{Question: imageOnly, Correct: false})
	if strings.Contains(revealed, "Answer:") {
		t.Fatalf("empty answer text must not be shown: %q", revealed)
	}

	if n := len(buildPracticeKeyboard(service.PhaseQuestionDrawn).InlineKeyboard); n != 2 {
		t.Fatalf("drawn keyboard rows = %d", n)
	}
}

// TestBuildDraftKeyboardHidesSave ensures Save only appears for a complete draft.
func TestBuildDraftKeyboardHidesSave(t *testing.T) {
	d := service.Draft{Topic: "Geo", Question: "Q", QuestionImage: "data:image/png;base64,AA=="}

	kb := buildDraftKeyboard(d, false)
	last := kb.InlineKeyboard[len(kb.InlineKeyboard)-1]
	if len(last) != 1 || last[0].Text != "✖️ Cancel" {
		t.Fatalf("last row = %+v", last)
	}
	if got := kb.InlineKeyboard[1][1].Text; got != "🗑 Question image" {
		t.Fatalf("attached image button = %q", got)
	}

	kb = buildDraftKeyboard(d, true)
	last = kb.InlineKeyboard[len(kb.InlineKeyboard)-1]
	if len(last) != 2 || last[0].Text != "✅ Save" {
		t.Fatalf("last row = %+v", last)
	}
}

// TestBuildPhotoFromDataURI ensures stored images are sent back with a matching file name.
func TestBuildPhotoFromDataURI(t *testing.T) {
	p, err := buildPhoto(1, entities.EncodeDataURI(entities.MediaTypePNG, []byte{1, 2, 3}), "Answer")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.Caption != "Answer" {
		t.Fatalf("caption = %q", p.Caption)
	}

	if _, err := buildPhoto(1, "not a data uri", ""); err == nil {
		t.Fatalf("expected error for invalid data uri")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Geography", 32); got != "Geography" {
		t.Fatalf("short = %q", got)
	}
	if got := truncate("Ελληνική ιστορία", 5); got != "Ελλη…" {
		t.Fatalf("long = %q", got)
	}
}
