package tempstore

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultSchedule = "0 * * * *"

type State int32

const (
	Idle State = iota
	Sweeping
)

func (s State) String() string {
	if s == Sweeping {
		return "sweeping"
	}
	return "idle"
}

// Sweeper empties a Store on a cron schedule. Failures are logged at debug
// level and otherwise ignored; the next tick retries on its own.
type Sweeper struct {
	store    *Store
	logger   *zap.Logger
	cron     *cron.Cron
	schedule cron.Schedule
	state    atomic.Int32
}

func NewSweeper(store *Store, schedule string, logger *zap.Logger) (*Sweeper, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, err
	}
	s := &Sweeper{store: store, logger: logger, schedule: sched}
	cl := cronLogger{logger: logger}
	s.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	s.cron.Schedule(sched, cron.FuncJob(func() { s.RunOnce(context.Background()) }))
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("temp file sweeper started",
		zap.String("dir", s.store.Dir()),
		zap.Time("next_run", s.Next()))
}

// Stop halts the schedule and waits for a running sweep, bounded by ctx.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Sweeper) State() State {
	return State(s.state.Load())
}

// Next returns the time of the next scheduled sweep after now.
func (s *Sweeper) Next() time.Time {
	return s.schedule.Next(time.Now())
}

// RunOnce performs one sweep and returns its results.
func (s *Sweeper) RunOnce(ctx context.Context) []Result {
	s.state.Store(int32(Sweeping))
	defer s.state.Store(int32(Idle))

	start := time.Now()
	results := s.store.Sweep(ctx)

	var removed, gone, failed int
	for _, r := range results {
		switch r.Outcome {
		case Removed:
			removed++
		case AlreadyGone:
			gone++
		case Failed:
			failed++
			s.logger.Debug("temp file not removed", zap.String("name", r.Name), zap.Error(r.Err))
		}
	}
	s.logger.Debug("temp file sweep finished",
		zap.Int("removed", removed),
		zap.Int("already_gone", gone),
		zap.Int("failed", failed),
		zap.Duration("took", time.Since(start)))
	return results
}

type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
