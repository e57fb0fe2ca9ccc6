package garmin

import "github.com/toffan/running/internal/workout"

// SportType identifies the activity a workout is for.
type SportType int

const (
	Running SportType = iota + 1
	Cycling
	Other
	Swimming
	StrengthTraining
	CardioTraining
	Yoga
	Pilates
	HIIT
)

// StepType is the role code the platform uses to render a step.
type StepType int

const (
	StepWarmup   StepType = 1
	StepCooldown StepType = 2
	StepInterval StepType = 3
	StepRecovery StepType = 4
	StepRepeat   StepType = 6
)

// EndCondition tells the watch when a step is over.
type EndCondition int

const (
	EndLapButton  EndCondition = 1 // no value
	EndTime       EndCondition = 2 // seconds
	EndDistance   EndCondition = 3 // meters
	EndIterations EndCondition = 7
)

// TargetType is what the watch enforces during a step.
type TargetType int

const (
	NoTarget  TargetType = 1
	HeartRate TargetType = 4 // bpm
	Pace      TargetType = 6 // m/s
)

func stepTypeOf(r workout.Role) StepType {
	switch r {
	case workout.WarmupRole:
		return StepWarmup
	case workout.CooldownRole:
		return StepCooldown
	case workout.RecoveryRole:
		return StepRecovery
	default:
		return StepInterval
	}
}
