// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"period_scheduler/internal/app/businessday"
	"period_scheduler/internal/app/trigger"
	"period_scheduler/internal/domain/period"
	"period_scheduler/internal/domain/recurrence"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var errUsage = errors.New("usage")

// RegisterBotCommands registers the calculator commands. Only chatID may use them.
func RegisterBotCommands(b *telebot.Bot, chatID int64, baseLogger *logrus.Entry, now func() time.Time) {
	commandLogger := baseLogger.WithField("handler_group", "commands")

	handle := func(command string, reply func(args []string) (string, error)) {
		b.Handle(command, func(c telebot.Context) error {
			logCtx := commandLogger.WithFields(logrus.Fields{"command": command, "chat_id": c.Chat().ID})
			if c.Chat().ID != chatID {
				logCtx.Warn("Command from unauthorized chat")
				return nil
			}
			text, err := reply(c.Args())
			if err != nil {
				logCtx.WithError(err).Info("Command rejected")
				return c.Send("Error: " + err.Error())
			}
			logCtx.Info("Command processed")
			return c.Send(text)
		})
	}

	handle("/next", func(args []string) (string, error) { return replyNext(args, now()) })
	handle("/week", replyWeek)
	handle("/closing", replyClosing)
	handle("/help", func([]string) (string, error) { return helpText(), nil })
}

func helpText() string {
	var helpText strings.Builder
	helpText.WriteString("Available commands:\n\n")
	helpText.WriteString("/next <anchor> [YYYY-MM-DD HH:MM:SS]\n - Next trigger after the given time (default: now). Anchor examples: monthly:23@08:30, weekly:1@09:00, daily@06:00.\n\n")
	helpText.WriteString("/week <YYYY-MM-DD>\n - Monday and Friday of the business week.\n\n")
	helpText.WriteString("/closing <daily|weekly|monthly> <YYYY-MM-DD>\n - First day of the period if the date is its last business day.\n\n")
	helpText.WriteString("/help\n - Show this message.")
	return helpText.String()
}

func replyNext(args []string, now time.Time) (string, error) {
	if len(args) != 1 && len(args) != 3 {
		return "", fmt.Errorf("%w: /next <anchor> [YYYY-MM-DD HH:MM:SS]", errUsage)
	}
	anchor, err := recurrence.ParseAnchor(args[0])
	if err != nil {
		return "", err
	}
	last := now
	if len(args) == 3 {
		last, err = time.ParseInLocation(dateTimeLayout, args[1]+" "+args[2], now.Location())
		if err != nil {
			return "", fmt.Errorf("invalid time: %w", err)
		}
	}
	next, err := trigger.Next(last, anchor)
	if err != nil {
		return "", err
	}
	if trigger.IsNever(next) {
		return fmt.Sprintf("%s never fires.", anchor), nil
	}
	return fmt.Sprintf("%s after %s: %s", anchor, last.Format(dateTimeLayout), next.Format(dateTimeLayout)), nil
}

func replyWeek(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: /week <YYYY-MM-DD>", errUsage)
	}
	date, err := time.ParseInLocation(dateLayout, args[0], time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date: %w", err)
	}
	monday, friday := businessday.WeekBounds(date)
	return fmt.Sprintf("Week of %s: %s to %s", args[0], monday.Format(dateLayout), friday.Format(dateLayout)), nil
}

func replyClosing(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: /closing <daily|weekly|monthly> <YYYY-MM-DD>", errUsage)
	}
	kind, err := period.ParseKind(args[0])
	if err != nil {
		return "", err
	}
	date, err := time.ParseInLocation(dateLayout, args[1], time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date: %w", err)
	}
	first, ok := businessday.FirstDayIfLastBusinessDay(kind, date)
	if !ok {
		return fmt.Sprintf("%s is not the last business day of its %s period.", args[1], strings.ToLower(string(kind))), nil
	}
	return fmt.Sprintf("%s closes the %s period starting %s.", args[1], strings.ToLower(string(kind)), first.Format(dateLayout)), nil
}
