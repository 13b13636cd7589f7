package telegram

import (
	"errors"
	"strings"
	"testing"
	"time"

	"period_scheduler/internal/domain/recurrence"
)

func TestReplyNext(t *testing.T) {
	now := time.Date(2021, 1, 8, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"from now", []string{"monthly:23@08:30"}, "monthly:23@08:30:00 after 2021-01-08 00:00:00: 2021-01-23 08:30:00"},
		{"explicit last", []string{"monthly:23@08:30", "2021-01-24", "00:00:00"}, "monthly:23@08:30:00 after 2021-01-24 00:00:00: 2021-02-23 08:30:00"},
		{"never", []string{"never"}, "never never fires."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := replyNext(tt.args, now)
			if err != nil {
				t.Fatalf("replyNext() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("replyNext() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplyNext_Errors(t *testing.T) {
	now := time.Now()
	if _, err := replyNext(nil, now); !errors.Is(err, errUsage) {
		t.Errorf("no args: %v", err)
	}
	if _, err := replyNext([]string{"monthly:40@08:00"}, now); !errors.Is(err, recurrence.ErrInvalidAnchor) {
		t.Errorf("bad anchor: %v", err)
	}
	if _, err := replyNext([]string{"hourly:1@08:00"}, now); !errors.Is(err, recurrence.ErrUnknownPeriodicity) {
		t.Errorf("unknown periodicity: %v", err)
	}
	if _, err := replyNext([]string{"daily@08:00", "yesterday", "noon"}, now); err == nil {
		t.Error("bad time accepted")
	}
}

func TestReplyWeek(t *testing.T) {
	got, err := replyWeek([]string{"2021-11-30"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "Week of 2021-11-30: 2021-11-29 to 2021-12-03"; got != want {
		t.Errorf("replyWeek() = %q, want %q", got, want)
	}
	if _, err := replyWeek([]string{"30/11/2021"}); err == nil {
		t.Error("bad date accepted")
	}
	if _, err := replyWeek(nil); !errors.Is(err, errUsage) {
		t.Errorf("no args: %v", err)
	}
}

func TestReplyClosing(t *testing.T) {
	got, err := replyClosing([]string{"monthly", "2021-08-31"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "2021-08-31 closes the monthly period starting 2021-08-02."; got != want {
		t.Errorf("replyClosing() = %q, want %q", got, want)
	}

	got, err = replyClosing([]string{"weekly", "2021-03-23"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "is not the last business day") {
		t.Errorf("replyClosing() = %q", got)
	}

	if _, err := replyClosing([]string{"quarterly", "2021-03-31"}); err == nil {
		t.Error("unknown kind accepted")
	}
}

func TestHelpText(t *testing.T) {
	help := helpText()
	for _, cmd := range []string{"/next", "/week", "/closing", "/help"} {
		if !strings.Contains(help, cmd) {
			t.Errorf("help text does not mention %s", cmd)
		}
	}
}
