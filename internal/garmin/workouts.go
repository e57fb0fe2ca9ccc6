package garmin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"time"

	"github.com/toffan/running/internal/workout"
)

// DateLayout is the calendar date format of the schedule endpoint.
const DateLayout = "2006-01-02"

// ErrNotSaved is returned when scheduling a workout the platform has no id for.
var ErrNotSaved = errors.New("workout not saved")

// SaveResult is the outcome of Save. ID is zero when nothing was recorded.
type SaveResult struct {
	ID      int64
	Created bool
}

// LoadAll replaces the local index with the caller's workouts on the platform.
func (c *Client) LoadAll(ctx context.Context) (map[string][]int64, error) {
	c.log.Info().Msg("load all workouts")

	q := url.Values{}
	q.Set("start", "1")
	q.Set("limit", "999")
	q.Set("myWorkoutsOnly", "true")
	q.Set("includeAtp", "false")

	var list []workoutSummary
	if err := c.doJSON(ctx, "/workout-service/workouts", q, &list); err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	index := make(map[string][]int64, len(list))
	for _, w := range list {
		index[w.WorkoutName] = append(index[w.WorkoutName], w.WorkoutID)
	}

	c.mu.Lock()
	c.workouts = index
	c.mu.Unlock()
	return c.Workouts(), nil
}

// Workouts returns a copy of the name to ids index.
func (c *Client) Workouts() map[string][]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]int64, len(c.workouts))
	for name, ids := range c.workouts {
		out[name] = slices.Clone(ids)
	}
	return out
}

// IDs returns the ids recorded for name, oldest first.
func (c *Client) IDs(name string) []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.workouts[name])
}

// Save creates w on the platform. Unless force is set or the client uses
// ForceDuplicate, a name that is already known is left alone.
// A rejected create is logged and reported as a zero result, not an error,
// unless the client was built WithStrictStatus.
func (c *Client) Save(ctx context.Context, w *workout.Workout, force bool) (SaveResult, error) {
	if ids := c.IDs(w.Name); len(ids) > 0 && !force && c.policy != ForceDuplicate {
		c.log.Debug().Str("workout", w.Name).Ints64("ids", ids).Msg("workout already exists")
		return SaveResult{ID: ids[0]}, nil
	}

	c.log.Info().Str("workout", w.Name).Msg("save workout")
	body, err := c.serializer.Marshal(w)
	if err != nil {
		return SaveResult{}, err
	}
	req, err := c.newReq(ctx, http.MethodPost, "/workout-service/workout", nil, body)
	if err != nil {
		return SaveResult{}, err
	}
	resp, b, err := c.do(req)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save %q: %w", w.Name, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error().Str("workout", w.Name).Int("code", resp.StatusCode).Str("status", resp.Status).Msg("save rejected")
		return SaveResult{}, c.rejected("save", w.Name, resp)
	}

	var created createResponse
	if err := json.Unmarshal(b, &created); err != nil {
		return SaveResult{}, fmt.Errorf("save %q: decode response: %w", w.Name, err)
	}
	c.log.Debug().Str("workout", w.Name).Int64("id", created.WorkoutID).Msg("saved workout")

	c.mu.Lock()
	c.workouts[w.Name] = append(c.workouts[w.Name], created.WorkoutID)
	c.mu.Unlock()

	if c.recorder != nil {
		if err := c.recorder.RecordSave(ctx, w.Name, created.WorkoutID); err != nil {
			c.log.Warn().Err(err).Str("workout", w.Name).Msg("record save")
		}
	}
	return SaveResult{ID: created.WorkoutID, Created: true}, nil
}

// Delete removes every workout recorded under name.
func (c *Client) Delete(ctx context.Context, name string) error {
	for _, id := range c.IDs(name) {
		c.log.Info().Str("workout", name).Int64("id", id).Msg("delete workout")

		req, err := c.newReq(ctx, http.MethodPost, fmt.Sprintf("/workout-service/workout/%d", id), nil, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-HTTP-Method-Override", "DELETE")
		resp, _, err := c.do(req)
		if err != nil {
			return fmt.Errorf("delete %q (id: %d): %w", name, id, err)
		}
		if resp.StatusCode >= 300 {
			c.log.Error().Str("workout", name).Int64("id", id).Str("status", resp.Status).Msg("delete rejected")
			if err := c.rejected("delete", name, resp); err != nil {
				return err
			}
		}
	}

	c.mu.Lock()
	delete(c.workouts, name)
	c.mu.Unlock()
	return nil
}

// DeleteWorkout removes every workout recorded under w's name.
func (c *Client) DeleteWorkout(ctx context.Context, w *workout.Workout) error {
	return c.Delete(ctx, w.Name)
}

// DeleteAll removes every workout in the index.
func (c *Client) DeleteAll(ctx context.Context) error {
	c.log.Info().Msg("delete all workouts")
	c.mu.Lock()
	names := slices.Collect(maps.Keys(c.workouts))
	c.mu.Unlock()
	sort.Strings(names)

	for _, name := range names {
		if err := c.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleOn puts w on the calendar at day, saving it first when alsoSave is set.
// The first id recorded for the name is used.
func (c *Client) ScheduleOn(ctx context.Context, w *workout.Workout, day time.Time, alsoSave bool) error {
	date := day.Format(DateLayout)
	c.log.Info().Str("workout", w.Name).Str("date", date).Msg("schedule workout")

	if alsoSave {
		if _, err := c.Save(ctx, w, false); err != nil {
			return err
		}
	}

	ids := c.IDs(w.Name)
	if len(ids) == 0 {
		return fmt.Errorf("schedule %q: %w", w.Name, ErrNotSaved)
	}
	id := ids[0]

	req, err := c.newReq(ctx, http.MethodPost, fmt.Sprintf("/workout-service/schedule/%d", id), nil, scheduleRequest{Date: date})
	if err != nil {
		return err
	}
	resp, _, err := c.do(req)
	if err != nil {
		return fmt.Errorf("schedule %q: %w", w.Name, err)
	}
	if resp.StatusCode >= 300 {
		c.log.Error().Str("workout", w.Name).Str("date", date).Str("status", resp.Status).Msg("schedule rejected")
		return c.rejected("schedule", w.Name, resp)
	}

	if c.recorder != nil {
		if err := c.recorder.RecordSchedule(ctx, w.Name, id, day); err != nil {
			c.log.Warn().Err(err).Str("workout", w.Name).Msg("record schedule")
		}
	}
	return nil
}

// ScheduleSequentially schedules slot i on start + i days. Nil slots are
// rest days: nothing is scheduled but the day still passes.
func (c *Client) ScheduleSequentially(ctx context.Context, slots []*workout.Workout, start time.Time, alsoSave bool) error {
	for i, w := range slots {
		if w == nil {
			continue
		}
		if err := c.ScheduleOn(ctx, w, start.AddDate(0, 0, i), alsoSave); err != nil {
			return err
		}
	}
	return nil
}
