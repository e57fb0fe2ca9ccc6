// Package workout models structured running workouts: heart rate zones,
// durations, leaf segments, repeat groups and named workouts.
package workout

import (
	"fmt"
	"math"
)

// ThresholdHeartRate is the athlete's lactate threshold heart rate in bpm.
const ThresholdHeartRate = 177

// HeartRateZone is a named intensity band. Number is 0 for a zone the
// platform does not know by number; such zones are targeted by bounds.
type HeartRateZone struct {
	Number int
	Name   string
	Low    int // bpm
	High   int // bpm
}

// NewZone derives absolute bounds from fractions of ThresholdHeartRate.
// Bounds are rounded once, here.
func NewZone(number int, name string, lowFrac, highFrac float64) HeartRateZone {
	return HeartRateZone{
		Number: number,
		Name:   name,
		Low:    int(math.Round(lowFrac * ThresholdHeartRate)),
		High:   int(math.Round(highFrac * ThresholdHeartRate)),
	}
}

// CustomZone builds a free-bound zone from raw bpm values.
func CustomZone(name string, low, high int) HeartRateZone {
	return HeartRateZone{Name: name, Low: low, High: high}
}

var (
	HR1 = NewZone(1, "Low Aerobic", 0.75, 0.80)
	HR2 = NewZone(2, "Moderate Aerobic", 0.81, 0.89)
	HR3 = NewZone(3, "Threshold", 0.96, 1)
	HR4 = NewZone(4, "VO2 max", 1.02, 1.05)
	HR5 = NewZone(5, "Speed", 1.06, 1.15)
)

// HasNumber reports whether the zone is known to the platform by number.
func (z HeartRateZone) HasNumber() bool {
	return z.Number > 0
}

func (z HeartRateZone) String() string {
	return fmt.Sprintf("HR[%d-%d]", z.Low, z.High)
}
