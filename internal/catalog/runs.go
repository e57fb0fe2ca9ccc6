package catalog

import (
	w "github.com/toffan/running/internal/workout"
)

// Default returns a registry holding every built-in family.
func Default() *Registry {
	r := NewRegistry()
	for _, f := range []*Family{
		recoveryRuns(),
		foundationRuns(),
		longRuns(),
		fastFinishRuns(),
		tempoRuns(),
		cruiseIntervalRuns(),
		longRunsWithSpeedPlay(),
		longRunsWithFastFinish(),
		speedPlayRuns(),
		hillRepetitionRuns(),
		shortIntervalRuns(),
		longIntervalRuns(),
		mixedIntervalRuns(),
		marathonSimulatorRun(),
	} {
		r.Register(f)
	}
	return r
}

func mins(m float64) w.Duration { return w.Minutes(m) }
func mile(m float64) w.Duration { return w.Miles(m) }

func seg(d w.Duration, z w.HeartRateZone) *w.Segment { return w.NewSegment(d, z) }

func recovery(m float64) *w.Segment { return w.Recovery(w.WithDuration(mins(m))) }

// intervalRun is the warmup, 5 easy minutes, main set, cooldown shape shared
// by the speed families.
func intervalRun(set ...w.Step) []w.Step {
	steps := []w.Step{w.Warmup(), seg(mins(5), w.HR2)}
	steps = append(steps, set...)
	return append(steps, w.Cooldown())
}

func recoveryRuns() *Family {
	f := &Family{Key: "recovery_run", Title: "Recovery runs", Singular: "Recovery run"}
	for m := 20.0; m <= 60; m += 5 {
		f.add(seg(mins(m), w.HR1))
	}
	return f
}

func foundationRuns() *Family {
	f := &Family{Key: "foundation_run", Title: "Foundation runs", Singular: "Foundation run"}
	for m := 10.0; m <= 50; m += 5 {
		f.add(w.Warmup(), seg(mins(m), w.HR2), w.Cooldown())
	}
	return f
}

func longRuns() *Family {
	f := &Family{Key: "long_run", Title: "Long runs", Singular: "Long run"}
	for mi := 4.5; mi <= 18.5; mi++ {
		f.add(
			w.Warmup(w.WithDuration(mile(1))),
			seg(mile(mi), w.HR2),
			w.Cooldown(w.WithDuration(mile(0.5))),
		)
	}
	return f
}

func fastFinishRuns() *Family {
	f := &Family{Key: "fast_finish_run", Title: "Fast finish runs", Singular: "Fast finish run"}
	for _, p := range [][2]float64{
		{15, 5}, {20, 5}, {20, 10}, {25, 10}, {25, 12},
		{30, 12}, {35, 12}, {35, 15}, {40, 15}, {45, 15},
	} {
		f.add(w.Warmup(), seg(mins(p[0]), w.HR2), seg(mins(p[1]), w.HR3))
	}
	return f
}

func tempoRuns() *Family {
	f := &Family{Key: "tempo_run", Title: "Tempo runs", Singular: "Tempo run"}
	for _, m := range []float64{15, 18, 20, 24, 28, 30, 32, 36, 40, 45} {
		f.add(
			w.Warmup(),
			seg(mins(5), w.HR2),
			seg(mins(m), w.HR3),
			seg(mins(5), w.HR2),
			w.Cooldown(),
		)
	}
	return f
}

func cruiseIntervalRuns() *Family {
	f := &Family{Key: "cruise_interval_run", Title: "Cruise interval runs", Singular: "Cruise interval run"}
	for _, m := range []float64{5, 8, 10, 12, 15} {
		f.add(
			w.Warmup(),
			seg(mins(5), w.HR2),
			w.NewRepeat(4, seg(mins(m), w.HR3), recovery(3)),
			seg(mins(5), w.HR2),
			w.Cooldown(),
		)
	}
	return f
}

func longRunsWithSpeedPlay() *Family {
	f := &Family{Key: "long_run_with_speed_play", Title: "Long runs with speed play", Singular: "Long run with speed play"}
	for reps := 8; reps <= 18; reps += 2 {
		f.add(
			w.Warmup(w.WithDuration(mile(0.5))),
			seg(mile(1), w.HR2),
			w.NewRepeat(reps, seg(mile(0.25), w.HR3), seg(mile(0.75), w.HR2)),
			w.Cooldown(w.WithDuration(mile(0.5))),
		)
	}
	return f
}

func longRunsWithFastFinish() *Family {
	f := &Family{Key: "long_run_with_fast_finish", Title: "Long runs with fast finish", Singular: "Long run with fast finish"}
	for _, mi := range []float64{8.5, 10.5, 12, 14, 15.5, 17.5} {
		f.add(
			w.Warmup(w.WithDuration(mile(0.5))),
			seg(mile(mi), w.HR2),
			seg(mile(1), w.HR3),
		)
	}
	return f
}

func speedPlayRuns() *Family {
	f := &Family{Key: "speed_play_run", Title: "Speed play runs", Singular: "Speed play run"}
	// zone 4 pickups last 2 minutes, zone 5 ones 1 minute
	for _, p := range []struct {
		reps int
		zone w.HeartRateZone
	}{
		{3, w.HR4}, {5, w.HR5}, {4, w.HR4}, {6, w.HR5}, {5, w.HR4}, {7, w.HR5}, {6, w.HR4},
		{8, w.HR5}, {9, w.HR5}, {7, w.HR4}, {10, w.HR5}, {8, w.HR4}, {9, w.HR4}, {12, w.HR5},
	} {
		on := 1.0
		if p.zone == w.HR4 {
			on = 2
		}
		f.add(intervalRun(w.NewRepeat(p.reps, seg(mins(on), p.zone), w.Recovery()))...)
	}
	return f
}

// repetitions lists (reps, minutes on, minutes off) sets.
type repetitions []struct {
	reps    int
	on, off float64
}

func hillRepetitionRuns() *Family {
	f := &Family{Key: "hill_repetition_run", Title: "Hill repetition runs", Singular: "Hill repetition run"}
	for _, p := range (repetitions{
		{6, 0.5, 1.5}, {8, 0.5, 1.5}, {6, 1, 2}, {10, 0.5, 1.5}, {12, 0.5, 1.5}, {8, 1, 2},
		{6, 1.5, 2.5}, {10, 1, 2}, {8, 1.5, 2.5}, {12, 1, 2}, {10, 1.5, 2.5}, {12, 1.5, 2.5},
	}) {
		uphill := w.NewSegment(mins(p.on), w.HR5, w.WithNote("uphill"))
		f.add(intervalRun(w.NewRepeat(p.reps, uphill, recovery(p.off)))...)
	}
	return f
}

func shortIntervalRuns() *Family {
	f := &Family{Key: "short_interval_run", Title: "Short interval runs", Singular: "Short interval run"}
	for _, p := range (repetitions{
		{6, 1, 2}, {8, 1, 2}, {6, 1.5, 2.5}, {10, 1, 2.5},
		{8, 1.5, 2}, {12, 1, 2}, {10, 1.5, 2.5}, {12, 1.5, 2.5},
	}) {
		f.add(intervalRun(w.NewRepeat(p.reps, seg(mins(p.on), w.HR5), recovery(p.off)))...)
	}
	return f
}

func longIntervalRuns() *Family {
	f := &Family{Key: "long_interval_run", Title: "Long interval runs", Singular: "Long interval run"}
	for _, p := range (repetitions{
		{3, 3, 2}, {4, 3, 2}, {3, 5, 3}, {5, 3, 2}, {6, 3, 2},
		{4, 5, 3}, {5, 5, 3}, {6, 5, 3}, {7, 5, 3}, {8, 5, 3},
	}) {
		f.add(intervalRun(w.NewRepeat(p.reps, seg(mins(p.on), w.HR4), recovery(p.off)))...)
	}
	return f
}

func mixedIntervalRuns() *Family {
	f := &Family{Key: "mixed_interval_run", Title: "Mixed interval runs", Singular: "Mixed interval run"}
	f.add(intervalRun(
		seg(mins(1), w.HR5), w.Recovery(),
		seg(mins(3), w.HR4), w.Recovery(),
		seg(mins(5), w.HR3), w.Recovery(),
		seg(mins(3), w.HR4), w.Recovery(),
		seg(mins(1), w.HR5),
	)...)
	f.add(intervalRun(
		seg(mins(1.5), w.HR5), w.Recovery(),
		seg(mins(5), w.HR4), w.Recovery(),
		seg(mins(10), w.HR3), w.Recovery(),
		seg(mins(5), w.HR4), w.Recovery(),
		seg(mins(1.5), w.HR5),
	)...)
	f.add(intervalRun(
		w.NewRepeat(2, seg(mins(1), w.HR5), w.Recovery()),
		w.NewRepeat(2, seg(mins(3), w.HR4), w.Recovery()),
		seg(mins(10), w.HR3), w.Recovery(),
		w.NewRepeat(2, seg(mins(3), w.HR4), w.Recovery()),
		w.NewRepeat(2, seg(mins(1), w.HR5), w.Recovery()),
	)...)
	f.add(intervalRun(
		w.NewRepeat(2, seg(mins(1.5), w.HR5), recovery(2.5)),
		w.NewRepeat(2, seg(mins(5), w.HR4), w.Recovery()),
		seg(mins(10), w.HR3), w.Recovery(),
		w.NewRepeat(2, seg(mins(1.5), w.HR5), w.Recovery()),
		w.NewRepeat(2, seg(mins(5), w.HR4), w.Recovery()),
	)...)
	return f
}

// marathonSimulatorRun is a single workout; its name carries no number.
func marathonSimulatorRun() *Family {
	return &Family{
		Key:      "marathon_simulator_run",
		Title:    "Marathon simulator run",
		Singular: "Marathon simulator run",
		Workouts: []*w.Workout{w.NewWorkout("Marathon simulator run",
			w.Warmup(w.WithDuration(mile(1.5))),
			seg(mile(16), w.HR3),
			seg(mile(1), w.HR2),
			w.Cooldown(w.WithDuration(mile(1.5))),
		)},
	}
}
