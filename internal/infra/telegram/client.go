// internal/infra/telegram/client.go
package telegram

import (
	"gopkg.in/telebot.v3"
)

// MessageSender is the part of *telebot.Bot the adapter uses.
type MessageSender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements the domain Client with gopkg.in/telebot.v3.
type TelebotAdapter struct {
	sender MessageSender
	silent bool
}

// NewTelebotAdapter wraps b. With silent set, messages arrive without a
// notification sound.
func NewTelebotAdapter(b MessageSender, silent bool) *TelebotAdapter {
	return &TelebotAdapter{sender: b, silent: silent}
}

// SendMessage posts text to a group or channel, so the recipient is a Chat
// rather than a User.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string) error {
	_, err := tba.sender.Send(&telebot.Chat{ID: chatID}, text, tba.sendOptions())
	return err
}

func (tba *TelebotAdapter) sendOptions() *telebot.SendOptions {
	return &telebot.SendOptions{
		DisableWebPagePreview: true,
		DisableNotification:   tba.silent,
	}
}
