package remediate

import "net/http"

// Decision classifies what the engine did (or declined to do) for a
// single alarm event.
type Decision string

const (
	DecisionActed                Decision = "acted"
	DecisionSkippedStateNotAlarm Decision = "skipped_state_not_alarm"
	DecisionSkippedCooldown      Decision = "skipped_cooldown"
	DecisionSkippedNotRunning    Decision = "skipped_not_running"
	DecisionResourceNotFound     Decision = "resource_not_found"
	DecisionActionFailed         Decision = "action_failed"
	DecisionMalformedEvent       Decision = "malformed_event"
	DecisionInternalError        Decision = "internal_error"
)

// Outcome is the per-event result of remediation. It is produced once
// and never mutated afterwards.
type Outcome struct {
	InstanceID string   `json:"instanceId"`
	AlarmName  string   `json:"alarmName"`
	Decision   Decision `json:"decision"`
	StatusCode int      `json:"statusCode"`
	Detail     string   `json:"detail"`
}

// Succeeded reports whether the outcome counts as a full success for
// batch aggregation.
func (o Outcome) Succeeded() bool {
	return o.StatusCode == http.StatusOK
}

// MalformedOutcome builds the outcome for an event whose payload could
// not be parsed or carries no instance ID.
func MalformedOutcome(detail string) Outcome {
	return Outcome{
		Decision:   DecisionMalformedEvent,
		StatusCode: http.StatusBadRequest,
		Detail:     detail,
	}
}

// InternalErrorOutcome builds the outcome for an event whose
// processing failed unexpectedly.
func InternalErrorOutcome(detail string) Outcome {
	return Outcome{
		Decision:   DecisionInternalError,
		StatusCode: http.StatusInternalServerError,
		Detail:     detail,
	}
}
