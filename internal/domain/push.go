package domain

// Priority is the delivery-priority hint passed to the push platform.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// PushMessage is the ephemeral output of the decision engine: one payload
// addressed to one or more device tokens. It is handed to the dispatcher and
// then discarded — never persisted.
type PushMessage struct {
	Tokens   []string
	Title    string
	Body     string
	Priority Priority
}

// BatchResult is the per-target breakdown reported by a multicast send.
type BatchResult struct {
	Success int
	Failure int
}

// Outcome is the explicit result of a handler invocation. Handlers return an
// Outcome plus an error; only a failed cascade-cleanup commit carries a
// non-nil error, everything else is observability-only.
type Outcome string

const (
	// OutcomeNoop: a precondition for action was not met. Expected steady state.
	OutcomeNoop Outcome = "noop"
	// OutcomeDispatched: the notification was handed to the push platform.
	OutcomeDispatched Outcome = "dispatched"
	// OutcomePartialFailure: a multicast reached some but not all targets.
	OutcomePartialFailure Outcome = "partial_failure"
	// OutcomeDeliveryFailed: the push platform rejected the send. Not retried.
	OutcomeDeliveryFailed Outcome = "delivery_failed"
	// OutcomeCleaned: cascade cleanup removed dependent records.
	OutcomeCleaned Outcome = "cleaned"
)
