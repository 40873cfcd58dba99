package model

// TelegramUpdate is the subset of a Telegram Bot API update the webhook reads.
type TelegramUpdate struct {
	UpdateID      int64            `json:"update_id"`
	Message       *TelegramMessage `json:"message"`
	EditedMessage *TelegramMessage `json:"edited_message"`
}

type TelegramMessage struct {
	MessageID int64        `json:"message_id"`
	Text      *string      `json:"text"`
	Caption   *string      `json:"caption"`
	Chat      TelegramChat `json:"chat"`
}

type TelegramChat struct {
	ID int64 `json:"id"`
}

// Payload returns the message carried by the update, preferring a new message
// over an edit. It is nil when the update carries neither.
func (u TelegramUpdate) Payload() *TelegramMessage {
	if u.Message != nil {
		return u.Message
	}
	return u.EditedMessage
}

// Body returns the message text, falling back to a media caption.
func (m TelegramMessage) Body() (string, bool) {
	if m.Text != nil {
		return *m.Text, true
	}
	if m.Caption != nil {
		return *m.Caption, true
	}
	return "", false
}
