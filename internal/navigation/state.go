// Package navigation implements end-user traversal of a quiz: a small state
// machine over InProgress and Completed driven by navigation intents.
package navigation

import "time"

// Status distinguishes the two navigation states.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// State is one end user's position in a quiz. On completion CurrentStepID is
// the final step.
//
// BackDepth counts the previous intents applied in a row. History stays
// append-only, so each one adds an entry and the next step back sits two
// entries further from the end.
type State struct {
	QuizID           string     `json:"quizId"`
	CurrentStepID    string     `json:"currentStepId"`
	LastStepID       string     `json:"lastStepId,omitempty"`
	History          []string   `json:"navigationHistory"`
	BackDepth        int        `json:"backDepth,omitempty"`
	LastNavigationAt time.Time  `json:"lastNavigationAt"`
	Status           Status     `json:"status"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// Completed reports whether the state is terminal.
func (s State) Completed() bool {
	return s.Status == StatusCompleted
}

// Clone returns a copy that shares no slices or pointers with s.
func (s State) Clone() State {
	out := s
	out.History = append([]string(nil), s.History...)
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

// StepInfo is derived from a State and never stored.
type StepInfo struct {
	CurrentStepID    string  `json:"currentStepId"`
	CurrentStepIndex int     `json:"currentStepIndex"`
	TotalSteps       int     `json:"totalSteps"`
	IsFirstStep      bool    `json:"isFirstStep"`
	IsLastStep       bool    `json:"isLastStep"`
	IsCompleted      bool    `json:"isCompleted"`
	Progress         float64 `json:"progress"`
}
