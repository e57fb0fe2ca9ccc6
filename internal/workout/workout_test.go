package workout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinZones(t *testing.T) {
	tests := []struct {
		zone      HeartRateZone
		number    int
		low, high int
	}{
		{HR1, 1, 133, 142},
		{HR2, 2, 143, 158},
		{HR3, 3, 170, 177},
		{HR4, 4, 181, 186},
		{HR5, 5, 188, 204},
	}
	for _, tt := range tests {
		t.Run(tt.zone.Name, func(t *testing.T) {
			assert.Equal(t, tt.number, tt.zone.Number)
			assert.Equal(t, tt.low, tt.zone.Low)
			assert.Equal(t, tt.high, tt.zone.High)
			assert.LessOrEqual(t, tt.zone.Low, tt.zone.High)
			assert.True(t, tt.zone.HasNumber())
		})
	}
}

func TestZoneEquality(t *testing.T) {
	assert.Equal(t, HR3, NewZone(3, "Threshold", 0.96, 1))
	assert.NotEqual(t, HR3, NewZone(3, "Tempo", 0.96, 1))

	custom := CustomZone("easy", 120, 130)
	assert.False(t, custom.HasNumber())
	assert.Equal(t, "HR[120-130]", custom.String())
}

func TestDuration(t *testing.T) {
	d := Minutes(1.5)
	assert.Equal(t, Time, d.Kind())
	assert.Equal(t, 90, d.Seconds())
	assert.Equal(t, 90*time.Second, d.Span())

	km := Kilometers(2.4567)
	assert.Equal(t, Distance, km.Kind())
	assert.Equal(t, 2457, km.Meters())
	assert.Equal(t, "2.5km", km.String())

	assert.Equal(t, 1609, Miles(1).Meters())
	assert.Equal(t, 402, Miles(0.25).Meters())

	assert.Equal(t, Open, LapButton().Kind())
	assert.Equal(t, Open, Duration{}.Kind())
}

func TestRoleDefaults(t *testing.T) {
	w := Warmup()
	assert.Equal(t, WarmupRole, w.Role)
	assert.Equal(t, 300, w.Duration.Seconds())
	assert.Equal(t, HR1, w.Zone)

	c := Cooldown(WithDuration(Miles(0.5)))
	assert.Equal(t, CooldownRole, c.Role)
	assert.Equal(t, Distance, c.Duration.Kind())
	assert.Equal(t, HR1, c.Zone)

	r := Recovery()
	assert.Equal(t, RecoveryRole, r.Role)
	assert.Equal(t, 120, r.Duration.Seconds())

	s := NewSegment(Minutes(0.5), HR5, WithNote("uphill"))
	assert.Equal(t, Interval, s.Role)
	assert.Equal(t, "uphill", s.Note)
}

func TestDisplay(t *testing.T) {
	w := NewWorkout("Hill repetition run 1",
		Warmup(),
		NewRepeat(6, NewSegment(Minutes(0.5), HR5, WithNote("uphill")), Recovery(WithDuration(Minutes(1.5)))),
		Cooldown(),
	)

	want := "Hill repetition run 1:" +
		"\n  Warmup(5m0s at HR[133-142])" +
		"\n  Rep x6 [Segment(30s at HR[188-204], uphill), Recovery(1m30s at HR[133-142])]" +
		"\n  Cooldown(5m0s at HR[133-142])"
	assert.Equal(t, want, w.Display())
	assert.Equal(t, "Hill repetition run 1", w.String())
}

func TestCountAndTotals(t *testing.T) {
	w := NewWorkout("mixed",
		Warmup(),
		NewRepeat(4, NewSegment(Minutes(5), HR3), Recovery(WithDuration(Minutes(3)))),
		NewSegment(Kilometers(2), HR2),
		Cooldown(),
	)

	require.Equal(t, 6, w.Count())
	assert.Equal(t, 42*time.Minute, w.TotalTime())
	assert.InDelta(t, 2.0, w.TotalDistance(), 1e-9)
}
