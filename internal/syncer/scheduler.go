package syncer

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"

	appLog "traincal/internal/log"
	"traincal/internal/store"
)

// Syncer is what the scheduler triggers.
type Syncer interface {
	Sync(ctx context.Context) (store.Run, error)
}

// Scheduler triggers Sync on a cron schedule until its context ends.
type Scheduler struct {
	c *cron.Cron
}

// NewScheduler parses spec ("@hourly", "*/30 * * * *", ...) in loc and
// registers s under it. Overlapping runs are skipped.
func NewScheduler(ctx context.Context, spec string, loc *time.Location, s Syncer) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err := c.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		appLog.Info("scheduled sync start", "schedule", spec)
		if _, err := s.Sync(ctx); err != nil {
			appLog.Error("scheduled sync failed", err)
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "parse sync schedule %q", spec)
	}
	return &Scheduler{c: c}, nil
}

// Start runs the schedule in the background.
func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop halts the schedule and waits for a running sync to return.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}

// Next reports when the next sync is due.
func (s *Scheduler) Next() time.Time {
	entries := s.c.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
