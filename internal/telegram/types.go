// Package telegram wraps the Telegram Bot HTTP API for NoteKeep.
//
// Only the slice of the API the bots use is modeled: webhook updates for
// messages and callback queries, message sending with optional inline
// keyboards, callback acknowledgment, and webhook registration.
package telegram

// Update is a parsed inbound webhook event. Exactly one of Message or
// CallbackQuery is set.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Chat identifies a Telegram chat. For the bots here a chat id doubles as
// the user identity key.
type Chat struct {
	ID int64 `json:"id"`
}

// Message is an inbound or referenced text message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// CallbackQuery is a press of an inline keyboard button. Data carries the
// menu action tag offered with the button.
type CallbackQuery struct {
	ID      string   `json:"id"`
	Data    string   `json:"data,omitempty"`
	Message *Message `json:"message,omitempty"`
}

// InlineKeyboardButton is one selectable option with its action tag.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// InlineKeyboardMarkup is a grid of selectable options attached to a message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// ChatID extracts the chat id an update belongs to, or zero when the update
// carries neither a message nor a callback with a message.
func (u *Update) ChatID() int64 {
	switch {
	case u.Message != nil:
		return u.Message.Chat.ID
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil:
		return u.CallbackQuery.Message.Chat.ID
	default:
		return 0
	}
}
