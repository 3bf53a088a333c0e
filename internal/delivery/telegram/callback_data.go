package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionPractice = "practice"
	actionBank     = "bank"
	actionDraft    = "draft"
	actionConfirm  = "confirm"
)

// Practice sub-actions.
const (
	practiceTopics = "topics"
	practiceSelect = "select"
	practiceNext   = "next"
	practiceShow   = "show"
)

// Bank sub-actions.
const (
	bankExpand         = "expand"
	bankToggle         = "toggle"
	bankDeleteTopic    = "deltopic"
	bankDeleteQuestion = "delq"
)

// Draft sub-actions.
const (
	draftTopics           = "topics"
	draftSetTopic         = "settopic"
	draftPrompt           = "prompt"
	draftPromptImage      = "qimage"
	draftClearPromptImage = "noqimage"
	draftAnswer           = "answer"
	draftAnswerImage      = "aimage"
	draftClearAnswerImage = "noaimage"
	draftSave             = "save"
	draftCancel           = "cancel"
)

const (
	confirmYes = "yes"
	confirmNo  = "no"
)

// errStaleCallback marks a button that refers to data which no longer exists.
var errStaleCallback = errors.New("stale callback")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// sub returns the sub-action, the first parameter.
func (cd callbackData) sub() string {
	if len(cd.Params) == 0 {
		return ""
	}
	return cd.Params[0]
}

// intParam parses the parameter at pos as a non-negative integer.
func (cd callbackData) intParam(pos int) (int, error) {
	if pos >= len(cd.Params) {
		return 0, errStaleCallback
	}
	n, err := strconv.Atoi(cd.Params[pos])
	if err != nil || n < 0 {
		return 0, errStaleCallback
	}
	return n, nil
}

// Topic names never travel in callback data: they may be longer than the
// 64 byte limit or contain the separator. Buttons carry the topic's position
// together with the store layout the position was read under.

// layoutToken formats a store layout for callback data.
func layoutToken(layout uint64) string {
	return strconv.FormatUint(layout, 36)
}

func buildPracticeCallback(sub string) string {
	return callbackData{Action: actionPractice, Params: []string{sub}}.encode()
}

func buildPracticeSelectCallback(layout uint64, topicIdx int) string {
	return callbackData{
		Action: actionPractice,
		Params: []string{practiceSelect, layoutToken(layout), strconv.Itoa(topicIdx)},
	}.encode()
}

func buildBankTopicCallback(sub string, layout uint64, topicIdx int) string {
	return callbackData{
		Action: actionBank,
		Params: []string{sub, layoutToken(layout), strconv.Itoa(topicIdx)},
	}.encode()
}

func buildBankQuestionCallback(sub string, layout uint64, topicIdx, questionIdx int) string {
	return callbackData{
		Action: actionBank,
		Params: []string{sub, layoutToken(layout), strconv.Itoa(topicIdx), strconv.Itoa(questionIdx)},
	}.encode()
}

func buildDraftCallback(sub string) string {
	return callbackData{Action: actionDraft, Params: []string{sub}}.encode()
}

func buildDraftTopicCallback(layout uint64, topicIdx int) string {
	return callbackData{
		Action: actionDraft,
		Params: []string{draftSetTopic, layoutToken(layout), strconv.Itoa(topicIdx)},
	}.encode()
}

// buildConfirmYesCallback ties the button to one confirmation request.
func buildConfirmYesCallback(seq int) string {
	return callbackData{
		Action: actionConfirm,
		Params: []string{confirmYes, strconv.Itoa(seq)},
	}.encode()
}

func buildConfirmNoCallback(seq int) string {
	return callbackData{
		Action: actionConfirm,
		Params: []string{confirmNo, strconv.Itoa(seq)},
	}.encode()
}
