package garmin

// Document is the body accepted by the workout creation endpoint.
type Document struct {
	SportType       SportTypeRef     `json:"sportType"`
	WorkoutName     string           `json:"workoutName"`
	WorkoutSegments []WorkoutSegment `json:"workoutSegments"`
}

type WorkoutSegment struct {
	SportType    SportTypeRef `json:"sportType"`
	WorkoutSteps []StepDTO    `json:"workoutSteps"`
}

type SportTypeRef struct {
	SportTypeID SportType `json:"sportTypeId"`
}

type StepTypeRef struct {
	StepTypeID StepType `json:"stepTypeId"`
}

type EndConditionRef struct {
	ConditionTypeID EndCondition `json:"conditionTypeId"`
}

type TargetTypeRef struct {
	WorkoutTargetTypeID TargetType `json:"workoutTargetTypeId"`
}

// StepDTO is either an ExecutableStepDTO (leaf) or a RepeatGroupDTO.
// Optional fields are pointers or omitempty so they are left out, never null.
type StepDTO struct {
	Type               string          `json:"type"`
	StepOrder          int             `json:"stepOrder"`
	StepType           StepTypeRef     `json:"stepType"`
	EndCondition       EndConditionRef `json:"endCondition"`
	EndConditionValue  *int            `json:"endConditionValue,omitempty"`
	NumberOfIterations *int            `json:"numberOfIterations,omitempty"`
	TargetType         *TargetTypeRef  `json:"targetType,omitempty"`
	ZoneNumber         string          `json:"zoneNumber,omitempty"`
	TargetValueOne     *int            `json:"targetValueOne,omitempty"` // bpm
	TargetValueTwo     *int            `json:"targetValueTwo,omitempty"` // bpm
	Description        string          `json:"description,omitempty"`
	WorkoutSteps       []StepDTO       `json:"workoutSteps,omitempty"`
}

const (
	executableStep = "ExecutableStepDTO"
	repeatGroup    = "RepeatGroupDTO"
)

// workoutSummary is one entry of the workout listing.
type workoutSummary struct {
	WorkoutID   int64  `json:"workoutId"`
	WorkoutName string `json:"workoutName"`
}

type createResponse struct {
	WorkoutID int64 `json:"workoutId"`
}

type scheduleRequest struct {
	Date string `json:"date"`
}
