package models

// Analysis run states. The state of the most recent dispatch is what the
// API reports; older runs never overwrite it.
const (
	AnalysisStatusIdle      = "idle"
	AnalysisStatusRunning   = "running"
	AnalysisStatusSucceeded = "succeeded"
	AnalysisStatusFailed    = "failed"
)

// AnalysisState is a point-in-time view of the analysis pipeline.
type AnalysisState struct {
	Status    string          `json:"status"`
	Busy      bool            `json:"busy"`
	Error     string          `json:"error,omitempty"`
	ErrorCode string          `json:"errorCode,omitempty"`
	Result    *AnalysisResult `json:"result"`
	Selection *Selection      `json:"selection"`
	Displayed *Suggestion     `json:"displayed"`
	Token     uint64          `json:"token"`
}
