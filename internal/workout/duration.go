package workout

import (
	"fmt"
	"math"
	"time"
)

// KilometersPerMile converts imperial distances.
const KilometersPerMile = 1.60934

// DurationKind tells how a step ends.
type DurationKind int

const (
	// Open steps end when the runner presses the lap button.
	Open DurationKind = iota
	Time
	Distance
)

func (k DurationKind) String() string {
	switch k {
	case Time:
		return "time"
	case Distance:
		return "distance"
	default:
		return "open"
	}
}

// Duration is either a time span or a distance, never both.
// The zero value is an open (lap button) duration.
type Duration struct {
	kind DurationKind
	span time.Duration
	km   float64
}

func Minutes(m float64) Duration {
	return Duration{kind: Time, span: time.Duration(m * float64(time.Minute))}
}

func Seconds(s int) Duration {
	return Duration{kind: Time, span: time.Duration(s) * time.Second}
}

func Kilometers(km float64) Duration {
	return Duration{kind: Distance, km: km}
}

func Miles(mi float64) Duration {
	return Kilometers(mi * KilometersPerMile)
}

func LapButton() Duration {
	return Duration{}
}

func (d Duration) Kind() DurationKind { return d.kind }

// Span is the time value; zero for non-time durations.
func (d Duration) Span() time.Duration { return d.span }

// Km is the distance value; zero for non-distance durations.
func (d Duration) Km() float64 { return d.km }

// Seconds returns whole seconds, truncated.
func (d Duration) Seconds() int {
	return int(d.span / time.Second)
}

// Meters returns the distance rounded to the nearest meter.
func (d Duration) Meters() int {
	return int(math.Round(d.km * 1000))
}

func (d Duration) String() string {
	switch d.kind {
	case Time:
		return d.span.String()
	case Distance:
		return fmt.Sprintf("%0.1fkm", d.km)
	default:
		return "lap"
	}
}
