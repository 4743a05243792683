package model

// SessionStatus enumerates the session lifecycle states. The lifecycle is
// monotonic: Created → Configuring → Preflight → InProgress → Completed →
// Scored, with Aborted reachable from any non-terminal state. There is no
// backward transition; a user starts over by creating a new session.
type SessionStatus string

const (
	StatusCreated     SessionStatus = "created"
	StatusConfiguring SessionStatus = "configuring"
	StatusPreflight   SessionStatus = "preflight"
	StatusInProgress  SessionStatus = "in_progress"
	StatusCompleted   SessionStatus = "completed"
	StatusScored      SessionStatus = "scored"
	StatusAborted     SessionStatus = "aborted"
)

var statusRank = map[SessionStatus]int{
	StatusCreated:     0,
	StatusConfiguring: 1,
	StatusPreflight:   2,
	StatusInProgress:  3,
	StatusCompleted:   4,
	StatusScored:      5,
}

// Terminal reports whether no further transitions are allowed from s.
func (s SessionStatus) Terminal() bool {
	return s == StatusScored || s == StatusAborted
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Aborted is reachable from any non-terminal state; every other move
// must advance the rank by exactly one.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusAborted {
		return true
	}
	from, okFrom := statusRank[s]
	to, okTo := statusRank[next]
	return okFrom && okTo && to == from+1
}
