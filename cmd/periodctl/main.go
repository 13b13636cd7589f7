// periodctl evaluates recurrence anchors and business-day periods from the
// command line, without a database or scheduler.
//
//	periodctl next --anchor monthly:23@08:30 --last "2021-01-08 00:00:00"
//	periodctl week --date 2021-11-30
//	periodctl closing --kind monthly --date 2021-08-31
//	periodctl range --from 2021-01-01 --to 2021-01-31 --step 7
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"period_scheduler/internal/app/businessday"
	"period_scheduler/internal/app/daterange"
	"period_scheduler/internal/app/trigger"
	"period_scheduler/internal/domain/period"
	"period_scheduler/internal/domain/recurrence"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var errUsage = errors.New("usage: periodctl <next|week|closing|range> [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	command, rest := args[0], args[1:]
	switch command {
	case "next":
		return runNext(rest, stdout)
	case "week":
		return runWeek(rest, stdout)
	case "closing":
		return runClosing(rest, stdout)
	case "range":
		return runRange(rest, stdout)
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, errUsage.Error())
		return nil
	}
	return fmt.Errorf("unknown command %q; %w", command, errUsage)
}

func newFlagSet(name string, stdout io.Writer) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("periodctl "+name, pflag.ContinueOnError)
	flagSet.SetOutput(stdout)
	return flagSet
}

func runNext(args []string, stdout io.Writer) error {
	var anchorFlag, lastFlag string
	var count int
	flagSet := newFlagSet("next", stdout)
	flagSet.StringVarP(&anchorFlag, "anchor", "a", "", "recurrence anchor, e.g. monthly:23@08:30, weekly:1@09:00, daily@06:00, never")
	flagSet.StringVarP(&lastFlag, "last", "l", "", "last trigger time as \"YYYY-MM-DD HH:MM:SS\" (default: now)")
	flagSet.IntVarP(&count, "count", "n", 1, "number of consecutive triggers to print")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if anchorFlag == "" {
		return fmt.Errorf("--anchor is required")
	}

	anchor, err := recurrence.ParseAnchor(anchorFlag)
	if err != nil {
		return err
	}
	last := time.Now()
	if lastFlag != "" {
		last, err = time.ParseInLocation(dateTimeLayout, lastFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --last: %w", err)
		}
	}

	for i := 0; i < count; i++ {
		next, err := trigger.Next(last, anchor)
		if err != nil {
			return err
		}
		if trigger.IsNever(next) {
			fmt.Fprintln(stdout, "never")
			return nil
		}
		fmt.Fprintln(stdout, next.Format(dateTimeLayout))
		last = next
	}
	return nil
}

func runWeek(args []string, stdout io.Writer) error {
	flagSet := newFlagSet("week", stdout)
	dateFlag := flagSet.StringP("date", "d", "", "date as YYYY-MM-DD")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	date, err := parseDate(*dateFlag)
	if err != nil {
		return err
	}
	monday, friday := businessday.WeekBounds(date)
	fmt.Fprintf(stdout, "%s %s\n", monday.Format(dateLayout), friday.Format(dateLayout))
	return nil
}

func runClosing(args []string, stdout io.Writer) error {
	flagSet := newFlagSet("closing", stdout)
	kindFlag := flagSet.StringP("kind", "k", "", "period kind: daily, weekly or monthly")
	dateFlag := flagSet.StringP("date", "d", "", "date as YYYY-MM-DD")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	kind, err := period.ParseKind(*kindFlag)
	if err != nil {
		return err
	}
	date, err := parseDate(*dateFlag)
	if err != nil {
		return err
	}
	first, ok := businessday.FirstDayIfLastBusinessDay(kind, date)
	if !ok {
		fmt.Fprintln(stdout, "none")
		return nil
	}
	fmt.Fprintln(stdout, first.Format(dateLayout))
	return nil
}

func runRange(args []string, stdout io.Writer) error {
	flagSet := newFlagSet("range", stdout)
	fromFlag := flagSet.String("from", "", "lower bound as YYYY-MM-DD (optional)")
	toFlag := flagSet.String("to", "", "upper bound as YYYY-MM-DD (optional)")
	step := flagSet.Int("step", 1, "days between dates when both bounds are given")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	var lower, upper time.Time
	var err error
	if *fromFlag != "" {
		if lower, err = parseDate(*fromFlag); err != nil {
			return err
		}
	}
	if *toFlag != "" {
		if upper, err = parseDate(*toFlag); err != nil {
			return err
		}
	}

	it, err := daterange.New(lower, upper, *step)
	if err != nil {
		return err
	}
	for w := range it.All() {
		if w.Single() {
			fmt.Fprintln(stdout, w.Start.Format(dateLayout))
			continue
		}
		fmt.Fprintf(stdout, "%s %s\n", w.Start.Format(dateLayout), w.End.Format(dateLayout))
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("--date is required")
	}
	date, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return date, nil
}
