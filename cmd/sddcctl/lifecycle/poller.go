package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tilinna/clock"
	"go.uber.org/zap"

	"github.com/yaroslav/sddcctl/internal/logging"
	"github.com/yaroslav/sddcctl/models"
)

// DefaultPollInterval is the time between two task polls.
const DefaultPollInterval = 60 * time.Second

var (
	// ErrTaskFailed is returned when a polled task ends in FAILED.
	ErrTaskFailed = errors.New("task failed")

	// ErrTaskCanceled is returned when a polled task ends canceled.
	ErrTaskCanceled = errors.New("task canceled")
)

// State is the poller's view of a task status.
type State int

const (
	StatePending State = iota
	StateFinished
	StateFailed
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StateFinished:
		return "FINISHED"
	case StateFailed:
		return "FAILED"
	case StateCanceled:
		return "CANCELED"
	default:
		return "PENDING"
	}
}

// StateOf maps a provider task status to a poller state.
// Any status that is not terminal is pending.
func StateOf(status string) State {
	switch status {
	case models.TaskStatusFinished:
		return StateFinished
	case models.TaskStatusFailed:
		return StateFailed
	case models.TaskStatusCanceled, models.TaskStatusCanceledLegacy:
		return StateCanceled
	default:
		return StatePending
	}
}

// Poller waits for a task to reach a terminal status.
type Poller struct {
	// client fetches task state
	client TaskGetter

	// logger is the structured logger for the poll loop
	logger *zap.Logger

	// interval is the time between polls
	interval time.Duration

	// onPending is called with every non-terminal task observed
	onPending func(*models.Task)
}

// PollerConfig holds configuration for creating a Poller.
type PollerConfig struct {
	// Client fetches task state
	Client TaskGetter

	// Logger is the structured logger
	Logger *zap.Logger

	// Interval is the polling interval (default: 60 seconds)
	Interval time.Duration

	// OnPending is called after each poll that found the task still running (optional)
	OnPending func(*models.Task)
}

// NewPoller creates a new task poller.
func NewPoller(config PollerConfig) *Poller {
	interval := config.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Poller{
		client:    config.Client,
		logger:    logger,
		interval:  interval,
		onPending: config.OnPending,
	}
}

// Wait polls taskID in org until it is terminal and returns the last task seen.
//
// FINISHED returns a nil error. FAILED and CANCELED return the task together with
// ErrTaskFailed or ErrTaskCanceled. There is no attempt cap: the loop also ends
// when ctx is done, or on the first failed GET. Sleeping uses the clock carried by
// ctx.
func (p *Poller) Wait(ctx context.Context, org, taskID string) (*models.Task, error) {
	logger := p.logger.With(
		zap.String(logging.FieldOrgID, org),
		zap.String(logging.FieldTaskID, taskID),
	)
	logger.Info("Waiting for task", zap.Duration("interval", p.interval))

	for {
		task, err := p.client.GetTask(ctx, org, taskID)
		if err != nil {
			return nil, err
		}

		switch StateOf(task.Status) {
		case StateFinished:
			logger.Info("Task finished")
			return task, nil
		case StateFailed:
			logger.Error("Task failed", zap.String("error_message", task.ErrorMessage))
			return task, fmt.Errorf("%w: %s: %s", ErrTaskFailed, taskID, task.ErrorMessage)
		case StateCanceled:
			logger.Warn("Task canceled", zap.String(logging.FieldTaskStatus, task.Status))
			return task, fmt.Errorf("%w: %s", ErrTaskCanceled, taskID)
		}

		logger.Info("Task in progress",
			zap.String(logging.FieldTaskStatus, task.Status),
			zap.Int("estimated_remaining_minutes", task.EstimatedRemainingMinutes),
		)
		if p.onPending != nil {
			p.onPending(task)
		}

		if !pause(ctx, p.interval) {
			return task, ctx.Err()
		}
	}
}

// pause blocks for d as measured by the clock carried in ctx.
// A done ctx cuts the wait short and makes it report false.
func pause(ctx context.Context, d time.Duration) bool {
	timer := clock.NewTimer(ctx, d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
