// internal/domain/period/repository.go
package period

import (
	"context"
	"time"
)

// Repository persists detected period closings and trigger run history.
type Repository interface {
	// Closing methods
	CreateClosing(ctx context.Context, c *Closing) error
	GetClosing(ctx context.Context, kind Kind, closingDate time.Time) (*Closing, error)
	ListClosings(ctx context.Context, kind Kind, from, to time.Time) ([]*Closing, error)

	// TriggerRun methods
	RecordRun(ctx context.Context, run *TriggerRun) error
	LastRun(ctx context.Context, jobName string) (*TriggerRun, error)
}
