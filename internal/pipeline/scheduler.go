package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler fires the runner once per day at a wall-clock time in a
// fixed timezone, so the briefing lands before the market opens no
// matter where the process runs.
type Scheduler struct {
	runner *Runner
	hour   int
	minute int
	loc    *time.Location
	log    zerolog.Logger

	now func() time.Time
}

// NewScheduler parses runAt as "HH:MM" and timezone as an IANA name.
func NewScheduler(runner *Runner, runAt, timezone string, log zerolog.Logger) (*Scheduler, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(runAt, "%d:%d", &hour, &minute); err != nil {
		return nil, fmt.Errorf("parse schedule time %q: %w", runAt, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("schedule time %q out of range", runAt)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Scheduler{
		runner: runner,
		hour:   hour,
		minute: minute,
		loc:    loc,
		log:    log,
		now:    time.Now,
	}, nil
}

// nextFire returns the next occurrence of the configured wall-clock
// time at or after now.
func (s *Scheduler) nextFire(now time.Time) time.Time {
	local := now.In(s.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is cancelled, firing the runner at each
// scheduled time. A run that overlaps the next slot simply delays it;
// runs never stack.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := s.nextFire(s.now())
		wait := next.Sub(s.now())
		s.log.Info().Time("next_run", next).Dur("wait", wait).Msg("scheduler sleeping")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info().Msg("scheduler stopped")
			return
		case <-timer.C:
		}

		s.runner.RunOnce(ctx)
	}
}
