// Package machine provides the reasoning kernel: a registry of named
// states, a table of guarded transitions, and the single current-state
// pointer that both operation modes share.
package machine

// Definition describes a registered state. A state carries the macro
// instruction injected into the reasoning context while it is active,
// the capabilities it expects to be available, and an optional query
// used to select relevant protocols at assembly time.
//
// Definitions are immutable once registered; re-registering the same
// name replaces the definition atomically.
type Definition struct {
	// Name is the unique state identifier.
	Name string

	// Instruction is the macro instruction for this state.
	Instruction string

	// Requires lists capability names the state expects.
	Requires []string

	// ProtocolQuery selects relevant protocols by substring match.
	// Empty means no protocols are requested for this state.
	ProtocolQuery string
}

// Canonical state names registered by NewDefault.
const (
	StateIdle            = "IDLE"
	StateRequestReceived = "REQUEST_RECEIVED"
	StateThinking        = "THINKING"
	StateWorking         = "WORKING"
	StateMonitoring      = "MONITORING"
	StateInterrupted     = "INTERRUPTED"
	StateError           = "ERROR"
	StateShutdown        = "SHUTDOWN"
)

// Trigger tokens, namespaced by origin.
const (
	TriggerUserMessage   = "input:user_message"
	TriggerProcessStart  = "process:start"
	TriggerProcessDone   = "process:complete"
	TriggerActionExecute = "action:execute"
	TriggerActionDone    = "action:complete"
	TriggerMonitoring    = "mode:monitoring"
	TriggerStandby       = "mode:standby"
	TriggerInboxActivity = "event:inbox_activity"
	TriggerTaskActivity  = "event:task_activity"
	TriggerEventHandled  = "event:handled"
	TriggerTimeout       = "watchdog:timeout"
)

// DefaultStates returns the canonical state set with their macro
// instructions.
func DefaultStates() []Definition {
	return []Definition{
		{
			Name:        StateIdle,
			Instruction: "You are idle. Wait for instructions or events.",
		},
		{
			Name:        StateRequestReceived,
			Instruction: "A new request has arrived. Prepare to reason about it.",
		},
		{
			Name: StateThinking,
			Instruction: "You are in THINKING mode. Analyze the context, form " +
				"hypotheses, weigh options, and plan the next action. Keep the " +
				"reasoning internal; do not reveal it to the user.",
			ProtocolQuery: "analysis",
		},
		{
			Name: StateWorking,
			Instruction: "You are in WORKING mode. Carry out the planned actions " +
				"with the available tools and document each step.",
		},
		{
			Name: StateMonitoring,
			Instruction: "You are in MONITORING mode. Observe the configured " +
				"event sources and respond to anything actionable.",
		},
		{
			Name: StateInterrupted,
			Instruction: "The current cycle was interrupted. Preserve what was " +
				"done and prepare to resume or wind down.",
		},
		{
			Name:        StateError,
			Instruction: "An error occurred. Assess the situation and decide on recovery.",
		},
		{
			Name:        StateShutdown,
			Instruction: "The agent is shutting down. Finish pending work.",
		},
	}
}

// DefaultTransitions returns the canonical transition table wiring the
// default states for both operation modes.
func DefaultTransitions() []Transition {
	return []Transition{
		{Source: StateIdle, Target: StateRequestReceived, Trigger: TriggerUserMessage},
		{Source: StateRequestReceived, Target: StateThinking, Trigger: TriggerProcessStart},
		{Source: StateThinking, Target: StateWorking, Trigger: TriggerActionExecute},
		{Source: StateWorking, Target: StateThinking, Trigger: TriggerActionDone},
		{Source: StateThinking, Target: StateIdle, Trigger: TriggerProcessDone},
		{Source: StateIdle, Target: StateMonitoring, Trigger: TriggerMonitoring},
		{Source: StateMonitoring, Target: StateThinking, Trigger: TriggerInboxActivity},
		{Source: StateMonitoring, Target: StateThinking, Trigger: TriggerTaskActivity},
		{Source: StateThinking, Target: StateMonitoring, Trigger: TriggerEventHandled},
		{Source: StateMonitoring, Target: StateIdle, Trigger: TriggerStandby},
		{Source: StateThinking, Target: StateInterrupted, Trigger: TriggerTimeout},
		{Source: StateWorking, Target: StateInterrupted, Trigger: TriggerTimeout},
		{Source: StateMonitoring, Target: StateInterrupted, Trigger: TriggerTimeout},
		{Source: StateInterrupted, Target: StateIdle, Trigger: TriggerStandby},
	}
}
