package models

// Outcome is what happened to a single row during a run. Outcomes are logged,
// not persisted; only Created and Skipped advance the checkpoint.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Report summarizes one invocation of the filer.
type Report struct {
	RowsFound       int `json:"rowsFound"`
	Created         int `json:"created"`
	Skipped         int `json:"skipped"`
	StartCheckpoint int `json:"startCheckpoint"`
	Checkpoint      int `json:"checkpoint"`
}
