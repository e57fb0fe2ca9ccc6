// Package catalog holds the named workout families training plans draw from.
package catalog

import (
	"errors"
	"fmt"

	"github.com/toffan/running/internal/workout"
)

// ErrUnknownWorkout is returned when a workout name is not in the catalog.
var ErrUnknownWorkout = errors.New("unknown workout")

// Family is a progression of workouts of one kind, numbered from 1.
type Family struct {
	Key      string // e.g. "tempo_run"
	Title    string // e.g. "Tempo runs"
	Singular string // e.g. "Tempo run"
	Workouts []*workout.Workout
}

// Get returns the n-th workout of the family (1-based).
func (f *Family) Get(n int) (*workout.Workout, bool) {
	if n < 1 || n > len(f.Workouts) {
		return nil, false
	}
	return f.Workouts[n-1], true
}

// add appends the next numbered workout.
func (f *Family) add(steps ...workout.Step) {
	name := fmt.Sprintf("%s %d", f.Singular, len(f.Workouts)+1)
	f.Workouts = append(f.Workouts, workout.NewWorkout(name, steps...))
}

// Registry manages workout families and indexes their workouts by name
type Registry struct {
	families map[string]*Family
	order    []string
	byName   map[string]*workout.Workout
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		families: make(map[string]*Family),
		byName:   make(map[string]*workout.Workout),
	}
}

// Register adds a family. A family registered under an existing key replaces it.
func (r *Registry) Register(f *Family) {
	if old, exists := r.families[f.Key]; exists {
		for _, w := range old.Workouts {
			delete(r.byName, w.Name)
		}
	} else {
		r.order = append(r.order, f.Key)
	}
	r.families[f.Key] = f
	for _, w := range f.Workouts {
		r.byName[w.Name] = w
	}
}

// Get retrieves a family by key
func (r *Registry) Get(key string) (*Family, bool) {
	f, exists := r.families[key]
	return f, exists
}

// List returns family keys in registration order
func (r *Registry) List() []string {
	return append([]string(nil), r.order...)
}

// Families returns the families in registration order
func (r *Registry) Families() []*Family {
	out := make([]*Family, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.families[key])
	}
	return out
}

// Workout looks a workout up by its name, e.g. "Tempo run 4".
func (r *Registry) Workout(name string) (*workout.Workout, error) {
	w, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkout, name)
	}
	return w, nil
}

// Workouts returns every workout, family by family.
func (r *Registry) Workouts() []*workout.Workout {
	var out []*workout.Workout
	for _, f := range r.Families() {
		out = append(out, f.Workouts...)
	}
	return out
}
