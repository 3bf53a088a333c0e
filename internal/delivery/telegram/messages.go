// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const msgCommands = "/practice - practice a topic\n" +
	"/newtopic NAME - create a topic\n" +
	"/add - add a question\n" +
	"/bank - browse and delete questions\n" +
	"/clear - delete everything\n" +
	"/help - this list"

const (
	msgWelcome = "Hi! I keep your flashcards.\n\n" +
		"Create a topic, add questions with optional pictures, then practice: " +
		"I draw a random question, you type your answer and I tell you if it matches.\n\n" +
		msgCommands
	msgHelp           = "Commands:\n\n" + msgCommands
	msgUnknownCommand = "Unknown command. Available commands:\n\n" + msgCommands
	msgHint           = "Use /practice to study, /add to add a question or /help for all commands."
)

// Error and notice messages.
const (
	msgInternalError    = "Something went wrong. Please try again later."
	msgNotAllowed       = "Sorry, this bot is private."
	msgStale            = "This button is out of date."
	msgNoTopics         = "There are no topics yet. Create one with /newtopic."
	msgNoQuestions      = "This topic has no questions yet. Add some with /add."
	msgPickTopic        = "Pick a topic to practice:"
	msgPickDraftTopic   = "Which topic is the question for?"
	msgAskTopicName     = "Send the name of the new topic."
	msgTopicExists      = "A topic with this name already exists."
	msgAskPrompt        = "Send the question text."
	msgAskAnswer        = "Send the answer text."
	msgAskImage         = "Send a JPEG or PNG image as a photo or as a file."
	msgImageReceived    = "Processing the image..."
	msgInvalidImage     = "Only JPEG and PNG images are supported."
	msgImageTooLarge    = "The image is too large. Send a smaller one."
	msgImageFailed      = "The image could not be processed. Try another one."
	msgImageUnexpected  = "To attach a picture, open /add and tap Question image or Answer image first."
	msgDraftIncomplete  = "Pick a topic and fill in the question and an answer or answer image first."
	msgCancelled        = "Cancelled."
	msgNothingToConfirm = "Nothing to confirm."
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func newPlainEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	return tgbotapi.NewEditMessageText(chatID, msgID, text)
}
