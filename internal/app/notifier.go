// internal/app/notifier.go
package app

import (
	domainTelegram "period_scheduler/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// Notifier posts status messages to a single chat. A Notifier without a
// client only logs, so services can run with Telegram disabled.
type Notifier struct {
	client domainTelegram.Client
	chatID int64
	logger *logrus.Entry
}

func NewNotifier(client domainTelegram.Client, chatID int64, logger *logrus.Entry) *Notifier {
	return &Notifier{client: client, chatID: chatID, logger: logger}
}

// Notify sends text. Delivery failures are logged, not returned: a missed
// message must not fail the job that produced it.
func (n *Notifier) Notify(text string) {
	if n == nil {
		return
	}
	if n.client == nil {
		n.logger.WithField("message", text).Debug("Telegram disabled; notification only logged")
		return
	}
	if err := n.client.SendMessage(n.chatID, text); err != nil {
		n.logger.WithError(err).WithField("chat_id", n.chatID).Error("Failed to send notification")
		return
	}
	n.logger.WithField("chat_id", n.chatID).Debug("Notification sent")
}
