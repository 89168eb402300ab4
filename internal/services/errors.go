package services

import "errors"

// Validation and state-conflict errors surfaced to the API layer.
// Handlers map these onto 400 responses with descriptive detail strings.
var (
	// ErrMissingJobOrder indicates a job was built without both halves of its
	// job order defined
	ErrMissingJobOrder = errors.New("system or user job order is missing")

	// ErrDuplicateSequence indicates two input files share a
	// (sequence group, sequence) key within one stage group
	ErrDuplicateSequence = errors.New("duplicate sequence key in stage group")

	// ErrMissingToken indicates authorize was called without a token
	ErrMissingToken = errors.New("missing required token field")

	// ErrInvalidToken indicates the supplied token does not exist
	ErrInvalidToken = errors.New("not a valid token")

	// ErrTokenAlreadyUsed indicates the supplied token is already bound to a job
	ErrTokenAlreadyUsed = errors.New("token has already been used")

	// ErrInvalidJobState indicates an action that is illegal from the job's
	// current state
	ErrInvalidJobState = errors.New("invalid job state")

	// ErrOrchestrator wraps failures talking to the external orchestrator.
	// The state transition it guarded is never committed.
	ErrOrchestrator = errors.New("orchestrator request failed")
)
