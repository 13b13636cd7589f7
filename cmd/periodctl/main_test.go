package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"period_scheduler/internal/app/daterange"
	"period_scheduler/internal/domain/period"
)

func runOutput(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out)
	return out.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"next pending", []string{"next", "--anchor", "monthly:23@08:30", "--last", "2021-01-08 00:00:00"}, "2021-01-23 08:30:00\n"},
		{"next passed", []string{"next", "-a", "monthly:23@08:30", "-l", "2021-01-24 00:00:00"}, "2021-02-23 08:30:00\n"},
		{"next count", []string{"next", "-a", "monthly:31@18:00", "-l", "2021-01-31 18:00:00", "-n", "3"}, "2021-02-28 18:00:00\n2021-03-31 18:00:00\n2021-04-30 18:00:00\n"},
		{"next never", []string{"next", "-a", "never", "-l", "2021-01-01 00:00:00", "-n", "5"}, "never\n"},
		{"week", []string{"week", "--date", "2021-11-30"}, "2021-11-29 2021-12-03\n"},
		{"week sunday", []string{"week", "-d", "2021-11-28"}, "2021-11-29 2021-12-03\n"},
		{"closing monthly", []string{"closing", "--kind", "monthly", "--date", "2021-08-31"}, "2021-08-02\n"},
		{"closing weekly", []string{"closing", "-k", "weekly", "-d", "2021-08-20"}, "2021-08-16\n"},
		{"closing none", []string{"closing", "-k", "daily", "-d", "2021-08-15"}, "none\n"},
		{"range bounded", []string{"range", "--from", "2021-01-01", "--to", "2021-01-03"}, "2021-01-01\n2021-01-02\n2021-01-03\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runOutput(t, tt.args...)
			if err != nil {
				t.Fatalf("run(%v) error: %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("run(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestRun_RangeWindows(t *testing.T) {
	got, err := runOutput(t, "range", "--to", "2021-06-25")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 26 || lines[0] != "2021-06-21 2021-06-25" {
		t.Errorf("backward-open range printed %d lines, first %q", len(lines), lines[0])
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no command", nil, errUsage},
		{"unknown command", []string{"cron"}, errUsage},
		{"range without bounds", []string{"range"}, daterange.ErrNoBounds},
		{"range inverted", []string{"range", "--from", "2021-02-01", "--to", "2021-01-01"}, daterange.ErrInvertedBounds},
		{"closing unknown kind", []string{"closing", "-k", "quarterly", "-d", "2021-03-31"}, period.ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runOutput(t, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("run(%v) error = %v, want %v", tt.args, err, tt.want)
			}
		})
	}

	for _, args := range [][]string{
		{"next"},
		{"next", "-a", "monthly:23@08:30", "-l", "tomorrow"},
		{"week", "-d", "2021-02-30"},
		{"week", "-d", "2021-11-30junk"},
		{"closing", "-k", "weekly", "-d", "2021-08-20 12:00"},
		{"range", "--from", "2021-1-5"},
		{"week"},
		{"next", "--bogus"},
	} {
		if _, err := runOutput(t, args...); err == nil {
			t.Errorf("run(%v) succeeded, want error", args)
		}
	}
}
