package model

// TrackerState is the lifecycle state of a step tracker
type TrackerState int

const (
	StateIdle TrackerState = iota
	StateRunning
	StateCompleted
)

func (s TrackerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ProgressState is a snapshot of a step tracker.
type ProgressState struct {
	TaskName       string       `json:"task_name"`
	TotalSteps     int          `json:"total_steps"`
	CompletedSteps []string     `json:"completed_steps"`
	CurrentStep    string       `json:"current_step,omitempty"`
	Completed      int          `json:"completed"`
	State          TrackerState `json:"state"`
}
