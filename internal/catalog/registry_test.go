package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toffan/running/internal/workout"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	if registry == nil {
		t.Fatal("NewRegistry should not return nil")
	}
	if len(registry.List()) != 0 {
		t.Errorf("New registry should be empty, got %v", registry.List())
	}
}

func TestRegistryOverwrite(t *testing.T) {
	registry := NewRegistry()
	first := &Family{Key: "test", Singular: "Old"}
	first.add(workout.Warmup())
	second := &Family{Key: "test", Singular: "New"}
	second.add(workout.Cooldown())

	registry.Register(first)
	registry.Register(second)

	got, exists := registry.Get("test")
	require.True(t, exists)
	assert.Same(t, second, got)
	assert.Equal(t, []string{"test"}, registry.List())

	_, err := registry.Workout("Old 1")
	assert.True(t, errors.Is(err, ErrUnknownWorkout))
	w, err := registry.Workout("New 1")
	require.NoError(t, err)
	assert.Equal(t, "New 1", w.Name)
}

func TestDefaultFamilies(t *testing.T) {
	reg := Default()

	sizes := map[string]int{
		"recovery_run":              9,
		"foundation_run":            9,
		"long_run":                  15,
		"fast_finish_run":           10,
		"tempo_run":                 10,
		"cruise_interval_run":       5,
		"long_run_with_speed_play":  6,
		"long_run_with_fast_finish": 6,
		"speed_play_run":            14,
		"hill_repetition_run":       12,
		"short_interval_run":        8,
		"long_interval_run":         10,
		"mixed_interval_run":        4,
		"marathon_simulator_run":    1,
	}
	require.Len(t, reg.List(), len(sizes))
	assert.Equal(t, "recovery_run", reg.List()[0])

	for key, n := range sizes {
		f, ok := reg.Get(key)
		require.True(t, ok, key)
		assert.Len(t, f.Workouts, n, key)
	}
	assert.Len(t, reg.Workouts(), 119)
}

func TestDefaultWorkouts(t *testing.T) {
	reg := Default()

	tempo, err := reg.Workout("Tempo run 1")
	require.NoError(t, err)
	assert.Equal(t, "Tempo run 1:"+
		"\n  Warmup(5m0s at HR[133-142])"+
		"\n  Segment(5m0s at HR[143-158])"+
		"\n  Segment(15m0s at HR[170-177])"+
		"\n  Segment(5m0s at HR[143-158])"+
		"\n  Cooldown(5m0s at HR[133-142])", tempo.Display())

	f, _ := reg.Get("tempo_run")
	fourth, ok := f.Get(4)
	require.True(t, ok)
	assert.Equal(t, "Tempo run 4", fourth.Name)
	_, ok = f.Get(0)
	assert.False(t, ok)
	_, ok = f.Get(11)
	assert.False(t, ok)

	hill, err := reg.Workout("Hill repetition run 7")
	require.NoError(t, err)
	rep, ok := hill.Steps[2].(*workout.Repeat)
	require.True(t, ok)
	assert.Equal(t, 6, rep.Count)
	up := rep.Steps[0].(*workout.Segment)
	assert.Equal(t, "uphill", up.Note)
	assert.Equal(t, 90, up.Duration.Seconds())
	assert.Equal(t, 150, rep.Steps[1].(*workout.Segment).Duration.Seconds())

	long, err := reg.Workout("Long run 15")
	require.NoError(t, err)
	assert.InDelta(t, 20*workout.KilometersPerMile, long.TotalDistance(), 1e-9)

	sim, err := reg.Workout("Marathon simulator run")
	require.NoError(t, err)
	assert.Len(t, sim.Steps, 4)

	speed, err := reg.Workout("Speed play run 2")
	require.NoError(t, err)
	set := speed.Steps[2].(*workout.Repeat)
	assert.Equal(t, 5, set.Count)
	assert.Equal(t, workout.HR5, set.Steps[0].(*workout.Segment).Zone)
	assert.Equal(t, 60, set.Steps[0].(*workout.Segment).Duration.Seconds())
}
