// Package plans loads week-by-week training plans built from catalog workouts.
package plans

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/toffan/running/internal/catalog"
	"github.com/toffan/running/internal/workout"
)

// DaysPerWeek is the number of slots in every plan week.
const DaysPerWeek = 7

// ErrUnknownPlan is returned by Set.Get for a missing plan.
var ErrUnknownPlan = errors.New("unknown plan")

//go:embed data/*.yaml
var builtin embed.FS

// Plan is an ordered list of weeks.
type Plan struct {
	Name  string
	Title string
	Weeks []Week
}

// Week holds one workout per day; nil is a rest day.
type Week struct {
	Label string
	Days  [DaysPerWeek]*workout.Workout
}

// planFile is the YAML layout. A null day is a rest day.
type planFile struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Weeks []struct {
		Label string    `yaml:"label"`
		Days  []*string `yaml:"days"`
	} `yaml:"weeks"`
}

// Parse reads a plan and resolves workout names against reg.
func Parse(r io.Reader, reg *catalog.Registry) (*Plan, error) {
	var pf planFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if pf.Name == "" {
		return nil, errors.New("plan has no name")
	}

	p := &Plan{Name: pf.Name, Title: pf.Title}
	for i, wk := range pf.Weeks {
		label := wk.Label
		if label == "" {
			label = fmt.Sprintf("W%02d", i+1)
		}
		if len(wk.Days) != DaysPerWeek {
			return nil, fmt.Errorf("plan %s week %s: %d days, want %d", pf.Name, label, len(wk.Days), DaysPerWeek)
		}
		week := Week{Label: label}
		for d, name := range wk.Days {
			if name == nil {
				continue
			}
			w, err := reg.Workout(*name)
			if err != nil {
				return nil, fmt.Errorf("plan %s week %s: %w", pf.Name, label, err)
			}
			week.Days[d] = w
		}
		p.Weeks = append(p.Weeks, week)
	}
	return p, nil
}

// LoadFile parses the plan stored at path.
func LoadFile(path string, reg *catalog.Registry) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, reg)
}

// Slots flattens the plan into one entry per day, rest days included.
func (p *Plan) Slots() []*workout.Workout {
	out := make([]*workout.Workout, 0, len(p.Weeks)*DaysPerWeek)
	for _, w := range p.Weeks {
		out = append(out, w.Days[:]...)
	}
	return out
}

// Week returns the week with the given label.
func (p *Plan) Week(label string) (*Week, bool) {
	for i := range p.Weeks {
		if p.Weeks[i].Label == label {
			return &p.Weeks[i], true
		}
	}
	return nil, false
}

// From returns a copy of the plan starting at the week labelled label.
func (p *Plan) From(label string) (*Plan, error) {
	for i := range p.Weeks {
		if p.Weeks[i].Label == label {
			return &Plan{Name: p.Name, Title: p.Title, Weeks: p.Weeks[i:]}, nil
		}
	}
	return nil, fmt.Errorf("plan %s has no week %q", p.Name, label)
}

// Workouts returns the distinct workouts of the plan in first-use order.
func (p *Plan) Workouts() []*workout.Workout {
	seen := make(map[string]bool)
	var out []*workout.Workout
	for _, w := range p.Slots() {
		if w == nil || seen[w.Name] {
			continue
		}
		seen[w.Name] = true
		out = append(out, w)
	}
	return out
}

// Set is a collection of plans keyed by name.
type Set map[string]*Plan

// Builtin loads the plans shipped with the binary.
func Builtin(reg *catalog.Registry) (Set, error) {
	entries, err := fs.ReadDir(builtin, "data")
	if err != nil {
		return nil, err
	}
	set := make(Set, len(entries))
	for _, e := range entries {
		f, err := builtin.Open(path.Join("data", e.Name()))
		if err != nil {
			return nil, err
		}
		p, err := Parse(f, reg)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		set[p.Name] = p
	}
	return set, nil
}

func (s Set) Get(name string) (*Plan, error) {
	p, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, name)
	}
	return p, nil
}

// Names returns the plan names sorted.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
