// internal/domain/period/closing.go
package period

import "time"

// Closing records that ClosingDate was the last business day of a period
// which started on PeriodStart.
// Corresponds to the 'period_closings' table.
type Closing struct {
	ID          int64
	Kind        Kind
	PeriodStart time.Time // DATE
	ClosingDate time.Time // DATE, unique per kind
	CreatedAt   time.Time
}

// TriggerRun is one firing of a configured trigger job.
// Corresponds to the 'trigger_runs' table.
type TriggerRun struct {
	ID      int64
	JobName string
	Anchor  string // Anchor in its textual form at the time of the run
	FiredAt time.Time
	NextDue time.Time
}
