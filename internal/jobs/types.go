package jobs

const (
	TaskScheduleWorkout = "workout:schedule"

	QueueSchedule = "schedule"
)

type ScheduleWorkoutPayload struct {
	Workout string `json:"workout"`
	Day     string `json:"day"` // 2006-01-02
	Save    bool   `json:"save,omitempty"`
}
