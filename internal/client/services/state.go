package services

import "time"

// EntryState is the position of one entry inside a sync pass.
type EntryState int

const (
	StatePending EntryState = iota
	StateClassifying
	StatePushing
	StateSynced
	StateFailed
)

func (s EntryState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateClassifying:
		return "classifying"
	case StatePushing:
		return "pushing"
	case StateSynced:
		return "synced"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EntryOutcome is the final state of one entry after a pass. Entries never
// dispatched because the pass was aborted stay StatePending.
type EntryOutcome struct {
	ID    string
	State EntryState
	Tags  []string
	Err   error
}

// PassReport summarises one sync pass.
type PassReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []EntryOutcome

	Synced  int
	Failed  int
	Skipped int

	// Aborted is set when connectivity was lost or the context was cancelled
	// before every entry was dispatched.
	Aborted bool

	// Err is set only when the pass could not list entries at all.
	Err error
}

// RetryItem is an entry that failed on a previous pass and is still offline.
type RetryItem struct {
	ID          string
	Attempts    int
	LastError   string
	LastAttempt time.Time
}
