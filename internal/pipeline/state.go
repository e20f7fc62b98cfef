package pipeline

import "fmt"

// State identifies where a run is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateAcquiring
	StateTranscribing
	StateSummarizing
	StatePersisting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateTranscribing:
		return "transcribing"
	case StateSummarizing:
		return "summarizing"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// transitions lists the legal successor states. StateFailed is
// reachable from every non-terminal state; persistence failures degrade
// to StateDone instead of failing the run.
var transitions = map[State][]State{
	StateIdle:         {StateAcquiring},
	StateAcquiring:    {StateTranscribing, StateFailed},
	StateTranscribing: {StateSummarizing, StateFailed},
	StateSummarizing:  {StatePersisting, StateDone, StateFailed},
	StatePersisting:   {StateDone},
	StateDone:         {},
	StateFailed:       {},
}

func canTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
