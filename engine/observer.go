package engine

import "github.com/tailored-agentic-units/supra/observability"

// Engine event types emitted while processing turns.
const (
	EventSessionStart    observability.EventType = "engine.session.start"
	EventTurnStart       observability.EventType = "engine.turn.start"
	EventTurnEmpty       observability.EventType = "engine.turn.empty"
	EventTurnSatisfied   observability.EventType = "engine.turn.satisfied"
	EventIntent          observability.EventType = "engine.intent"
	EventRemoval         observability.EventType = "engine.removal"
	EventPreserve        observability.EventType = "engine.preserve"
	EventOracleCall      observability.EventType = "engine.oracle.call"
	EventOracleComplete  observability.EventType = "engine.oracle.complete"
	EventMerge           observability.EventType = "engine.merge"
	EventPolicyViolation observability.EventType = "engine.policy.violation"
	EventTurnComplete    observability.EventType = "engine.turn.complete"
	EventError           observability.EventType = "engine.error"
)
