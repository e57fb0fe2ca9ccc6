package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toffan/running/internal/catalog"
	"github.com/toffan/running/internal/garmin"
	"github.com/toffan/running/internal/workout"
)

type fakeEnqueuer struct {
	ids   map[string]bool
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	var p ScheduleWorkoutPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return nil, err
	}
	id := fmt.Sprintf("schedule:%s:%s", p.Workout, p.Day)
	if f.ids[id] {
		return nil, asynq.ErrTaskIDConflict
	}
	f.ids[id] = true
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: id, Queue: QueueSchedule}, nil
}

type call struct {
	name string
	day  string
	save bool
}

type fakeScheduler struct {
	calls []call
	err   error
}

func (f *fakeScheduler) ScheduleOn(_ context.Context, w *workout.Workout, day time.Time, alsoSave bool) error {
	f.calls = append(f.calls, call{w.Name, day.Format(garmin.DateLayout), alsoSave})
	return f.err
}

func TestEnqueuePlan(t *testing.T) {
	a := workout.NewWorkout("A", workout.Warmup())
	b := workout.NewWorkout("B", workout.Cooldown())
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	enq := &fakeEnqueuer{ids: map[string]bool{}}

	res, err := EnqueuePlan(context.Background(), enq, []*workout.Workout{nil, a, nil, b}, start, true)
	require.NoError(t, err)
	assert.Equal(t, EnqueueResult{Queued: 2}, res)

	require.Len(t, enq.tasks, 2)
	assert.Equal(t, TaskScheduleWorkout, enq.tasks[0].Type())
	var p ScheduleWorkoutPayload
	require.NoError(t, json.Unmarshal(enq.tasks[1].Payload(), &p))
	assert.Equal(t, ScheduleWorkoutPayload{Workout: "B", Day: "2025-01-09", Save: true}, p)

	// same plan again only hits conflicts
	res, err = EnqueuePlan(context.Background(), enq, []*workout.Workout{nil, a, nil, b}, start, true)
	require.NoError(t, err)
	assert.Equal(t, EnqueueResult{Duplicate: 2}, res)
}

func TestScheduleHandler(t *testing.T) {
	reg := catalog.Default()
	sched := &fakeScheduler{}
	h := NewScheduleHandler(sched, reg.Workout, zerolog.Nop())

	task, err := NewScheduleTask(ScheduleWorkoutPayload{Workout: "Tempo run 1", Day: "2025-01-07", Save: true})
	require.NoError(t, err)
	require.NoError(t, h(context.Background(), task))
	assert.Equal(t, []call{{"Tempo run 1", "2025-01-07", true}}, sched.calls)
}

func TestScheduleHandlerErrors(t *testing.T) {
	reg := catalog.Default()
	tests := []struct {
		name      string
		payload   []byte
		err       error
		skipRetry bool
	}{
		{"bad payload", []byte("{"), nil, true},
		{"bad day", []byte(`{"workout":"Tempo run 1","day":"tomorrow"}`), nil, true},
		{"unknown workout", []byte(`{"workout":"Jog 1","day":"2025-01-07"}`), nil, true},
		{"not saved", []byte(`{"workout":"Tempo run 1","day":"2025-01-07"}`), fmt.Errorf("schedule: %w", garmin.ErrNotSaved), true},
		{"timeout", []byte(`{"workout":"Tempo run 1","day":"2025-01-07"}`), context.DeadlineExceeded, false},
		{"server error", []byte(`{"workout":"Tempo run 1","day":"2025-01-07"}`), errors.New("GET /x: 503 Service Unavailable"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewScheduleHandler(&fakeScheduler{err: tt.err}, reg.Workout, zerolog.Nop())
			err := h(context.Background(), asynq.NewTask(TaskScheduleWorkout, tt.payload))
			require.Error(t, err)
			assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}

// A strict client behind a busy platform must leave the task retryable,
// whether the create or the schedule call is rejected.
func TestScheduleHandlerRetriesRejectedRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `[{"workoutId":7,"workoutName":"Long run 1"}]`)
			return
		}
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client, err := garmin.New(garmin.Credentials{Token: "Bearer abc", Cookies: "SESSIONID=s1"},
		garmin.WithBaseURL(srv.URL), garmin.WithStrictStatus())
	require.NoError(t, err)
	_, err = client.LoadAll(context.Background())
	require.NoError(t, err)

	h := NewScheduleHandler(client, catalog.Default().Workout, zerolog.Nop())
	for _, name := range []string{"Tempo run 1", "Long run 1"} {
		t.Run(name, func(t *testing.T) {
			task, err := NewScheduleTask(ScheduleWorkoutPayload{Workout: name, Day: "2025-01-07", Save: true})
			require.NoError(t, err)
			err = h(context.Background(), task)
			require.Error(t, err)
			assert.False(t, errors.Is(err, asynq.SkipRetry))
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("dial tcp: connection refused")))
	assert.True(t, isRetryableError(errors.New("429 Too Many Requests")))
	assert.False(t, isRetryableError(errors.New("401 Unauthorized")))
	assert.False(t, isRetryableError(context.Canceled))
	assert.True(t, isRetryableError(&garmin.StatusError{Op: "save", Code: http.StatusBadGateway}))
	assert.False(t, isRetryableError(&garmin.StatusError{Op: "schedule", Code: http.StatusForbidden, Status: "403 Forbidden"}))
}
