package models

// SignalStatus is the lifecycle state of a signal inside the pipeline.
// Transitions are strictly forward; once a terminal state is reached the
// signal never moves again.
type SignalStatus string

const (
	StatusReceived  SignalStatus = "received"
	StatusParsed    SignalStatus = "parsed"
	StatusEnriched  SignalStatus = "enriched"
	StatusAnalyzed  SignalStatus = "analyzed"
	StatusCompleted SignalStatus = "completed"
	StatusFailed    SignalStatus = "failed"
)

// statusRank fixes the forward chain. Failed sits outside the chain and is
// reachable from any non-terminal state.
var statusRank = map[SignalStatus]int{
	StatusReceived:  0,
	StatusParsed:    1,
	StatusEnriched:  2,
	StatusAnalyzed:  3,
	StatusCompleted: 4,
}

func (s SignalStatus) String() string { return string(s) }

// Terminal reports whether the signal has finished processing.
func (s SignalStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo is the single authority on lifecycle moves: exactly one
// step forward along the chain, or Failed from any non-terminal state.
func (s SignalStatus) CanTransitionTo(next SignalStatus) bool {
	if s.Terminal() || s == next {
		return false
	}
	if next == StatusFailed {
		return true
	}
	cur, ok := statusRank[s]
	if !ok {
		return false
	}
	want, ok := statusRank[next]
	if !ok {
		return false
	}
	return want == cur+1
}
