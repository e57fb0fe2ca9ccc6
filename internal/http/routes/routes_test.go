package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toffan/running/internal/catalog"
	"github.com/toffan/running/internal/garmin"
	"github.com/toffan/running/internal/jobs"
	"github.com/toffan/running/internal/plans"
	"github.com/toffan/running/internal/workout"
)

type recordingQueue struct {
	tasks []*asynq.Task
}

func (q *recordingQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newTestServer(t *testing.T, queue jobs.Enqueuer) *httptest.Server {
	t.Helper()
	reg := catalog.Default()
	set, err := plans.Builtin(reg)
	require.NoError(t, err)

	s := New(ServerOptions{
		Catalog:    reg,
		Plans:      set,
		Serializer: garmin.NewSerializer(),
		Queue:      queue,
		Token:      "s3cret",
		Logger:     zerolog.Nop(),
	})
	srv := httptest.NewServer(s.Router)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthz", nil))
}

func TestCatalog(t *testing.T) {
	srv := newTestServer(t, nil)

	var families []familyView
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/catalog", &families))
	require.Len(t, families, 14)
	assert.Equal(t, "recovery_run", families[0].Key)
	assert.Equal(t, "Recovery run 1", families[0].Workouts[0])
}

func TestWorkout(t *testing.T) {
	srv := newTestServer(t, nil)

	var v workoutView
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/workouts/Tempo%20run%201", &v))
	assert.Equal(t, "Tempo run 1", v.Name)
	assert.Equal(t, 5, v.Steps)
	assert.Equal(t, 35*60, v.TotalSeconds)

	var doc garmin.Document
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/workouts/Tempo%20run%201/garmin", &doc))
	assert.Equal(t, "Tempo run 1", doc.WorkoutName)
	require.Len(t, doc.WorkoutSegments, 1)
	assert.Len(t, doc.WorkoutSegments[0].WorkoutSteps, 5)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/workouts/Jog%201", nil))
}

func TestWorkoutNameWithPercent(t *testing.T) {
	reg := catalog.NewRegistry()
	reg.Register(&catalog.Family{
		Key:      "strides",
		Singular: "Strides",
		Workouts: []*workout.Workout{workout.NewWorkout("100% strides", workout.Warmup())},
	})
	s := New(ServerOptions{Catalog: reg, Plans: plans.Set{}, Serializer: garmin.NewSerializer(), Logger: zerolog.Nop()})
	srv := httptest.NewServer(s.Router)
	t.Cleanup(srv.Close)

	var v workoutView
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/workouts/100%25%20strides", &v))
	assert.Equal(t, "100% strides", v.Name)
}

func TestPlans(t *testing.T) {
	srv := newTestServer(t, nil)

	var list []planSummary
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/plans", &list))
	assert.Equal(t, []planSummary{
		{Name: "half_marathon_2", Title: "Half marathon, level 2", Weeks: 15},
		{Name: "marathon_1", Title: "Marathon, level 1", Weeks: 18},
	}, list)

	var p planView
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/plans/marathon_1", &p))
	require.Len(t, p.Weeks, 18)
	assert.Nil(t, p.Weeks[0].Days[0])
	require.NotNil(t, p.Weeks[14].Days[6])
	assert.Equal(t, "Marathon simulator run", *p.Weeks[14].Days[6])

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/plans/ultra", nil))
}

func TestSchedulePlan(t *testing.T) {
	queue := &recordingQueue{}
	srv := newTestServer(t, queue)

	post := func(path, token string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, srv.URL+path, nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := post("/plans/marathon_1/schedule?start=2025-01-06&week=W18", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = post("/plans/marathon_1/schedule?start=soon", "s3cret")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post("/plans/marathon_1/schedule?start=2025-01-06&week=W18&save=false", "s3cret")
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var got map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 5, got["queued"])

	require.Len(t, queue.tasks, 5)
	var first jobs.ScheduleWorkoutPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &first))
	assert.Equal(t, jobs.ScheduleWorkoutPayload{Workout: "Fast finish run 4", Day: "2025-01-07"}, first)
}

func TestScheduleDisabledWithoutQueue(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Post(srv.URL+"/plans/marathon_1/schedule?start=2025-01-06", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
