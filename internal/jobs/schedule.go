// Package jobs queues calendar placements so a worker can push them to the
// platform with retries.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/toffan/running/internal/garmin"
	"github.com/toffan/running/internal/workout"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler is satisfied by *garmin.Client.
type Scheduler interface {
	ScheduleOn(ctx context.Context, w *workout.Workout, day time.Time, alsoSave bool) error
}

// Lookup resolves a workout name, e.g. catalog.Registry.Workout.
type Lookup func(name string) (*workout.Workout, error)

// NewScheduleTask builds the task placing one workout on one day. The task
// id makes a second enqueue of the same placement a conflict.
func NewScheduleTask(p ScheduleWorkoutPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskScheduleWorkout, b,
		asynq.TaskID(fmt.Sprintf("schedule:%s:%s", p.Workout, p.Day)),
		asynq.Queue(QueueSchedule),
		asynq.MaxRetry(3),
	), nil
}

// EnqueueResult counts what EnqueuePlan did.
type EnqueueResult struct {
	Queued    int
	Duplicate int
}

// EnqueuePlan queues slot i for start + i days. Nil slots are rest days.
// Placements already queued are counted as duplicates.
func EnqueuePlan(ctx context.Context, enq Enqueuer, slots []*workout.Workout, start time.Time, save bool) (EnqueueResult, error) {
	var res EnqueueResult
	for i, w := range slots {
		if w == nil {
			continue
		}
		task, err := NewScheduleTask(ScheduleWorkoutPayload{
			Workout: w.Name,
			Day:     start.AddDate(0, 0, i).Format(garmin.DateLayout),
			Save:    save,
		})
		if err != nil {
			return res, err
		}
		if _, err := enq.EnqueueContext(ctx, task); err != nil {
			if errors.Is(err, asynq.ErrTaskIDConflict) {
				res.Duplicate++
				continue
			}
			return res, fmt.Errorf("enqueue %q: %w", w.Name, err)
		}
		res.Queued++
	}
	return res, nil
}

// NewScheduleHandler returns the worker side of TaskScheduleWorkout.
// Bad payloads, unknown workouts and unsaved workouts are not retried.
func NewScheduleHandler(s Scheduler, lookup Lookup, log zerolog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p ScheduleWorkoutPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			log.Error().Err(err).Msg("bad payload")
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}
		day, err := time.Parse(garmin.DateLayout, p.Day)
		if err != nil {
			return fmt.Errorf("day %q: %v: %w", p.Day, err, asynq.SkipRetry)
		}
		w, err := lookup(p.Workout)
		if err != nil {
			log.Error().Err(err).Str("workout", p.Workout).Msg("unknown workout")
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		start := time.Now()
		err = s.ScheduleOn(ctx, w, day, p.Save)
		logger := log.With().Str("workout", p.Workout).Str("day", p.Day).Dur("duration", time.Since(start)).Logger()
		if err != nil {
			if isRetryableError(err) {
				logger.Warn().Err(err).Msg("retryable error")
				return err
			}
			logger.Error().Err(err).Msg("permanent error, dropping job")
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		logger.Info().Msg("scheduled")
		return nil
	}
}

// isRetryableError determines if an error should trigger a job retry
func isRetryableError(err error) bool {
	if errors.Is(err, garmin.ErrNotSaved) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *garmin.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}

	errStr := strings.ToLower(err.Error())

	// Network/connectivity issues - should retry
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "dns") {
		return true
	}

	// Rate limiting - should retry later
	if strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") {
		return true
	}

	// Temporary server errors - should retry
	if strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") {
		return true
	}

	// Everything else (auth failures, bad data, etc.) - don't retry
	return false
}
