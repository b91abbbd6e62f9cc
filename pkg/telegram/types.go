package telegram

import (
	"errors"
	"fmt"
	"time"

	"github.com/umputun/newscast/pkg/domain"
)

// Update is an incoming webhook update, only the fields the bot reacts to
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	EditedMessage *Message       `json:"edited_message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Message is a chat message
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// User is a message author
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

// Chat is where a message was posted
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// CallbackQuery is a press on an inline callback button
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// IsPrivate reports whether the chat is a one-to-one chat with the bot
func (c Chat) IsPrivate() bool { return c.Type == "private" }

// APIError is a failed Bot API call. RetryAfter is set on rate limiting.
type APIError struct {
	Method      string
	Code        int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// ErrCaptionTooLong is returned by SendPhoto before any request is made
var ErrCaptionTooLong = errors.New("caption too long")

// IsRejected reports a call the Bot API refused outright, nothing was posted by it
func IsRejected(err error) bool {
	if errors.Is(err, ErrCaptionTooLong) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500
}

// apiResponse is the envelope of every Bot API answer
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters,omitempty"`
}

type inlineKeyboardButton struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineKeyboardButton `json:"inline_keyboard"`
}

func toReplyMarkup(kb domain.Keyboard) *replyMarkup {
	if kb.Empty() {
		return nil
	}
	rows := make([][]inlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]inlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.Text == "" || (b.URL == "" && b.CallbackData == "") {
				continue
			}
			buttons = append(buttons, inlineKeyboardButton{Text: b.Text, URL: b.URL, CallbackData: b.CallbackData})
		}
		if len(buttons) > 0 {
			rows = append(rows, buttons)
		}
	}
	return &replyMarkup{InlineKeyboard: rows}
}
