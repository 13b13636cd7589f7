package app

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"period_scheduler/internal/domain/period"
	idb "period_scheduler/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// memoryRepo is an in-memory period.Repository.
type memoryRepo struct {
	mu       sync.Mutex
	closings map[string]*period.Closing
	runs     []*period.TriggerRun
	nextID   int64

	createErr error // returned by CreateClosing when set
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{closings: make(map[string]*period.Closing)}
}

func closingKey(kind period.Kind, date time.Time) string {
	return string(kind) + "/" + date.Format("2006-01-02")
}

func (r *memoryRepo) CreateClosing(_ context.Context, c *period.Closing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	key := closingKey(c.Kind, c.ClosingDate)
	if _, ok := r.closings[key]; ok {
		return idb.ErrDuplicateClosing
	}
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	stored := *c
	r.closings[key] = &stored
	return nil
}

func (r *memoryRepo) GetClosing(_ context.Context, kind period.Kind, closingDate time.Time) (*period.Closing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.closings[closingKey(kind, closingDate)]
	if !ok {
		return nil, idb.ErrClosingNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memoryRepo) ListClosings(_ context.Context, kind period.Kind, from, to time.Time) ([]*period.Closing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*period.Closing
	for _, c := range r.closings {
		if c.Kind == kind && !c.ClosingDate.Before(from) && !c.ClosingDate.After(to) {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClosingDate.Before(out[j].ClosingDate) })
	return out, nil
}

func (r *memoryRepo) RecordRun(_ context.Context, run *period.TriggerRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	run.ID = r.nextID
	stored := *run
	r.runs = append(r.runs, &stored)
	return nil
}

func (r *memoryRepo) LastRun(_ context.Context, jobName string) (*period.TriggerRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *period.TriggerRun
	for _, run := range r.runs {
		if run.JobName == jobName && (last == nil || run.FiredAt.After(last.FiredAt)) {
			last = run
		}
	}
	if last == nil {
		return nil, idb.ErrRunNotFound
	}
	copied := *last
	return &copied, nil
}

// recordingClient captures messages instead of sending them.
type recordingClient struct {
	mu       sync.Mutex
	messages []string
}

func (c *recordingClient) SendMessage(_ int64, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, text)
	return nil
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
