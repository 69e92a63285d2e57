package hermes

import "time"

// RunCompletedEvent is published after a run has been persisted.
type RunCompletedEvent struct {
	RunID           string    `json:"run_id"`
	Kind            string    `json:"kind"`
	Mode            string    `json:"mode"`
	Method          string    `json:"method"`
	HistoryID       *int64    `json:"history_id,omitempty"`
	CandidatesCount int       `json:"candidates_count"`
	BestID          string    `json:"best_id"`
	BestName        string    `json:"best_name"`
	BestScore       float64   `json:"best_score"`
	ExecutionTime   float64   `json:"execution_time"`
	Timestamp       time.Time `json:"timestamp"`
}

// RunFailedEvent is published when a run ends without a result.
type RunFailedEvent struct {
	Kind      string    `json:"kind"`
	Mode      string    `json:"mode"`
	Reason    string    `json:"reason"`
	Error     string    `json:"error"`
	HistoryID *int64    `json:"history_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RunProgressEvent reports how many candidate groups a long run has covered.
type RunProgressEvent struct {
	Kind      string    `json:"kind"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}
