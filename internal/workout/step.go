package workout

import (
	"fmt"
	"strings"
	"time"
)

// Role is the purpose of a leaf step.
type Role int

const (
	Interval Role = iota
	WarmupRole
	CooldownRole
	RecoveryRole
)

func (r Role) String() string {
	switch r {
	case WarmupRole:
		return "Warmup"
	case CooldownRole:
		return "Cooldown"
	case RecoveryRole:
		return "Recovery"
	default:
		return "Segment"
	}
}

// Step is either a *Segment or a *Repeat.
type Step interface {
	fmt.Stringer
	isStep()
}

// Segment is one contiguous effort interval.
type Segment struct {
	Role     Role
	Duration Duration
	Zone     HeartRateZone
	Note     string
}

// Repeat runs Steps Count times.
type Repeat struct {
	Count int
	Steps []Step
}

func (*Segment) isStep() {}
func (*Repeat) isStep()  {}

type SegmentOption func(*Segment)

func WithDuration(d Duration) SegmentOption {
	return func(s *Segment) { s.Duration = d }
}

func WithZone(z HeartRateZone) SegmentOption {
	return func(s *Segment) { s.Zone = z }
}

func WithNote(note string) SegmentOption {
	return func(s *Segment) { s.Note = note }
}

// NewSegment returns a plain interval. Its target is always sent.
func NewSegment(d Duration, z HeartRateZone, opts ...SegmentOption) *Segment {
	return build(Segment{Role: Interval, Duration: d, Zone: z}, opts)
}

// Warmup defaults to 5 minutes in zone 1.
func Warmup(opts ...SegmentOption) *Segment {
	return build(Segment{Role: WarmupRole, Duration: Minutes(5), Zone: HR1}, opts)
}

// Cooldown defaults to 5 minutes in zone 1.
func Cooldown(opts ...SegmentOption) *Segment {
	return build(Segment{Role: CooldownRole, Duration: Minutes(5), Zone: HR1}, opts)
}

// Recovery defaults to 2 minutes in zone 1.
func Recovery(opts ...SegmentOption) *Segment {
	return build(Segment{Role: RecoveryRole, Duration: Minutes(2), Zone: HR1}, opts)
}

func build(s Segment, opts []SegmentOption) *Segment {
	for _, o := range opts {
		o(&s)
	}
	return &s
}

func NewRepeat(count int, steps ...Step) *Repeat {
	return &Repeat{Count: count, Steps: steps}
}

func (s *Segment) String() string {
	out := fmt.Sprintf("%s(%s at %s", s.Role, s.Duration, s.Zone)
	if s.Note != "" {
		out += ", " + s.Note
	}
	return out + ")"
}

func (r *Repeat) String() string {
	parts := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		parts = append(parts, s.String())
	}
	return fmt.Sprintf("Rep x%d [%s]", r.Count, strings.Join(parts, ", "))
}

// Workout is the unit stored and scheduled on the platform, keyed by Name.
type Workout struct {
	Name  string
	Steps []Step
}

func NewWorkout(name string, steps ...Step) *Workout {
	return &Workout{Name: name, Steps: steps}
}

func (w *Workout) String() string { return w.Name }

// Display renders the name followed by one indented line per top-level step.
func (w *Workout) Display() string {
	var b strings.Builder
	b.WriteString(w.Name + ":")
	for _, s := range w.Steps {
		b.WriteString("\n  " + s.String())
	}
	return b.String()
}

// Count returns the number of nodes (segments plus repeat groups) in the tree.
func (w *Workout) Count() int {
	return count(w.Steps)
}

func count(steps []Step) int {
	n := 0
	for _, s := range steps {
		n++
		if r, ok := s.(*Repeat); ok {
			n += count(r.Steps)
		}
	}
	return n
}

// TotalTime sums time-based segments, expanding repeats. Distance and open
// segments contribute nothing.
func (w *Workout) TotalTime() time.Duration {
	return totalTime(w.Steps)
}

func totalTime(steps []Step) time.Duration {
	var total time.Duration
	for _, s := range steps {
		switch v := s.(type) {
		case *Segment:
			total += v.Duration.Span()
		case *Repeat:
			total += time.Duration(v.Count) * totalTime(v.Steps)
		}
	}
	return total
}

// TotalDistance sums distance-based segments in kilometers, expanding repeats.
func (w *Workout) TotalDistance() float64 {
	return totalDistance(w.Steps)
}

func totalDistance(steps []Step) float64 {
	var km float64
	for _, s := range steps {
		switch v := s.(type) {
		case *Segment:
			km += v.Duration.Km()
		case *Repeat:
			km += float64(v.Count) * totalDistance(v.Steps)
		}
	}
	return km
}
