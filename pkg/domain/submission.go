package domain

import "time"

// Submission is the record snapshotted when a session completes a form:
// every stored answer keyed by question id plus the final variable state.
type Submission struct {
	ID        string         `json:"id"`
	FormID    int            `json:"form_id"`
	SessionID string         `json:"session_id"`
	Answers   map[int]string `json:"answers"`
	Variables Variables      `json:"variables"`
	CreatedAt time.Time      `json:"created_at"`
}
