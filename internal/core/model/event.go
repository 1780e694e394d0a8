package model

// Event types accepted on the agent event feed
const (
	EventRecord   = "record"
	EventStart    = "start"
	EventStep     = "step"
	EventCurrent  = "current"
	EventComplete = "complete"
)

// Event is one line of the agent event feed.
type Event struct {
	Type    string   `json:"type"`
	Service string   `json:"service,omitempty"`
	Model   string   `json:"model,omitempty"`
	Input   int64    `json:"input,omitempty"`
	Output  int64    `json:"output,omitempty"`
	Cost    *float64 `json:"cost,omitempty"`
	Task    string   `json:"task,omitempty"`
	Total   int      `json:"total,omitempty"`
	Label   string   `json:"label,omitempty"`
}
