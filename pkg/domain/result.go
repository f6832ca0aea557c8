package domain

import "time"

// FinalResult is the archived outcome of one completed workflow run. One
// result is retained per user id, overwritten on each new completion.
type FinalResult struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	// Answers is a snapshot of the session's answer map at completion.
	Answers map[string]string `json:"answers"`

	// Analysis is the recommendation produced by the analysis stage. When
	// the structured response failed to parse, Analysis carries an error
	// payload and Raw the unparsed text for diagnosis.
	Analysis string `json:"analysis"`
	Raw      string `json:"raw,omitempty"`

	CompletedAt time.Time `json:"completed_at"`
}
