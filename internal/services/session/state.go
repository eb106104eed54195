// File: internal/services/session/state.go
package session

// Phase is the interaction state for one user session. Each submitted
// question walks Idle -> AwaitingAnswer -> Idle, detouring through Error
// on engine failure.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseError          Phase = "error"
)

// State is the explicit per-user session state: the active conversation,
// the draft input, and the interaction phase. It replaces ambient UI
// globals so the state machine is deterministic and testable.
type State struct {
	ActiveConversationID uint
	Input                string
	Phase                Phase
	LastError            string
}
