package worker

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/workspace"
)

// Janitor evicts idle client workspaces on a cron schedule.
type Janitor struct {
	cron       *cron.Cron
	workspaces *workspace.Registry
	idle       time.Duration
	logger     *zap.Logger
}

// NewJanitor schedules Sweep using a standard five-field cron expression.
func NewJanitor(workspaces *workspace.Registry, schedule string, idle time.Duration, logger *zap.Logger) (*Janitor, error) {
	j := &Janitor{
		cron:       cron.New(),
		workspaces: workspaces,
		idle:       idle,
		logger:     logger,
	}
	if _, err := j.cron.AddFunc(schedule, func() { j.Sweep() }); err != nil {
		return nil, fmt.Errorf("invalid workspace sweep schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start runs the scheduler in its own goroutine.
func (j *Janitor) Start() {
	j.cron.Start()
	j.logger.Info("workspace janitor started", zap.Duration("idle", j.idle))
}

// Stop halts scheduling and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Sweep evicts idle workspaces once and returns how many were removed.
func (j *Janitor) Sweep() int {
	removed := j.workspaces.Sweep(j.idle)
	if removed > 0 {
		j.logger.Info("evicted idle workspaces",
			zap.Int("removed", removed),
			zap.Int("remaining", j.workspaces.Len()))
	}
	return removed
}
