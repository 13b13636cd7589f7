// internal/infra/checkpoint/checkpoint.go
package checkpoint

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"period_scheduler/internal/infra/logger"
)

// ErrNoCheckpoint is returned by Clear when there is no recovery file.
var ErrNoCheckpoint = errors.New("checkpoint file does not exist")

// TimeLayout is the format a persisted plain string is parsed with when the
// sequence yields time.Time values.
const TimeLayout = "2006-01-02 15:04:05"

// Store keeps the last element handed to a consumer in <dir>/<name>, so an
// interrupted walk can resume where it stopped.
type Store struct {
	path string
}

// NewStore creates dir if needed. Use a distinct name per walk.
func NewStore(dir, name string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory %s: %w", dir, err)
	}
	return &Store{path: filepath.Join(dir, name)}, nil
}

// Path returns the recovery file location.
func (s *Store) Path() string { return s.path }

// Read returns the persisted value. ok is false when nothing was persisted,
// including an empty file.
func (s *Store) Read() (value string, ok bool, err error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to open checkpoint %s: %w", s.path, err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("failed to read checkpoint %s: %w", s.path, err)
	}
	value = strings.TrimSuffix(line, "\n")
	return value, value != "", nil
}

// Write replaces the persisted value.
func (s *Store) Write(value string) error {
	if err := os.WriteFile(s.path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the recovery file.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNoCheckpoint, s.path)
	}
	if err != nil {
		return fmt.Errorf("failed to remove checkpoint %s: %w", s.path, err)
	}
	return nil
}

// Run feeds the elements of seq to fn, persisting each element's string form
// before the call. When a previous run left a checkpoint, elements before the
// persisted one are skipped and the persisted one is processed again. The
// checkpoint is cleared only after seq is fully consumed; an error from fn or
// a cancelled ctx leaves it in place. An empty seq with no checkpoint is a
// successful no-op.
func Run[T any](ctx context.Context, store *Store, seq iter.Seq[T], fn func(ctx context.Context, index int, element T) error) error {
	log := logger.Component("checkpoint").WithField("file", store.Path())

	resumeFrom, resuming, err := store.Read()
	if err != nil {
		return err
	}
	if resuming {
		log.WithField("resume_from", resumeFrom).Info("Resuming from checkpoint")
	}
	hasFile := resuming

	index := -1
	for element := range seq {
		index++
		if resuming {
			if !matches(resumeFrom, element) {
				continue
			}
			resuming = false
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := store.Write(format(element)); err != nil {
			return err
		}
		hasFile = true
		if err := fn(ctx, index, element); err != nil {
			log.WithError(err).WithField("index", index).Warn("Element failed; checkpoint kept")
			return err
		}
	}

	if resuming {
		// The persisted element never showed up; nothing was processed.
		log.WithField("resume_from", resumeFrom).Warn("Checkpoint did not match any element")
	}
	if !hasFile {
		// Empty sequence and no earlier checkpoint: there is no file to remove.
		return nil
	}
	return store.Clear()
}

func format(element any) string {
	switch v := element.(type) {
	case time.Time:
		return v.Format(TimeLayout)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func matches(persisted string, element any) bool {
	if t, ok := element.(time.Time); ok {
		parsed, err := time.ParseInLocation(TimeLayout, persisted, t.Location())
		return err == nil && parsed.Equal(t)
	}
	return persisted == format(element)
}
