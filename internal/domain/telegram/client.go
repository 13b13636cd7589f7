package telegram

// Client delivers plain-text status messages to a chat. Formatting and
// delivery options belong to the implementation.
type Client interface {
	SendMessage(chatID int64, text string) error
}
