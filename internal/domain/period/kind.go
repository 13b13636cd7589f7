// internal/domain/period/kind.go
package period

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownKind = errors.New("unknown period kind")

// Kind is the reporting period a closing date is classified against.
type Kind string

const (
	Daily   Kind = "DAILY"
	Weekly  Kind = "WEEKLY"
	Monthly Kind = "MONTHLY"
)

// Kinds lists every kind in the order closings are evaluated.
var Kinds = []Kind{Daily, Weekly, Monthly}

// ParseKind accepts "daily", "weekly" or "monthly" in any case.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(name)))
	switch k {
	case Daily, Weekly, Monthly:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
