// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility

import (
	"github.com/samber/oops"
)

// Error codes for facility layer failures.
const (
	CodeUnknownFacility = "UNKNOWN_FACILITY"
	CodeUnknownAction   = "UNKNOWN_ACTION"
	CodeNoParty         = "NO_PARTY"
	CodeInvalidParams   = "INVALID_PARAMS"
	CodeInactive        = "FACILITY_INACTIVE"
	CodeAlreadyActive   = "FACILITY_ALREADY_ACTIVE"
	CodeExitFailed      = "EXIT_FAILED"
	CodeExecutionPanic  = "EXECUTION_PANIC"
)

// ErrUnknownFacility creates an error for an unregistered facility ID.
func ErrUnknownFacility(id ID) error {
	return oops.Code(CodeUnknownFacility).
		With("facility", string(id)).
		Errorf("unknown facility: %s", id)
}

// ErrUnknownAction creates an error for an action the facility does not offer.
func ErrUnknownAction(facility ID, action ActionID) error {
	return oops.Code(CodeUnknownAction).
		With("facility", string(facility)).
		With("action", string(action)).
		Errorf("unknown action %s for facility %s", action, facility)
}

// ErrNoParty creates an error for an action attempted with no party bound.
func ErrNoParty(facility ID) error {
	return oops.Code(CodeNoParty).
		With("facility", string(facility)).
		Errorf("no party bound to facility %s", facility)
}

// ErrInvalidParams creates an error for malformed action parameters.
func ErrInvalidParams(action ActionID, reason string) error {
	return oops.Code(CodeInvalidParams).
		With("action", string(action)).
		With("reason", reason).
		Errorf("invalid parameters for %s: %s", action, reason)
}

// ErrInactive creates an error for a service call on an inactive controller.
func ErrInactive(facility ID) error {
	return oops.Code(CodeInactive).
		With("facility", string(facility)).
		Errorf("facility %s is not active", facility)
}

// ErrAlreadyActive creates an error for entering a facility whose controller
// is unexpectedly still active.
func ErrAlreadyActive(facility ID) error {
	return oops.Code(CodeAlreadyActive).
		With("facility", string(facility)).
		Errorf("facility %s is already active", facility)
}

// ErrExitFailed creates an error for a failed facility exit.
func ErrExitFailed(facility ID, cause error) error {
	builder := oops.Code(CodeExitFailed).With("facility", string(facility))
	if cause != nil {
		return builder.Wrap(cause)
	}
	return builder.Errorf("failed to exit facility %s", facility)
}

// ErrExecutionPanic creates an error for a panic recovered during action
// execution.
func ErrExecutionPanic(facility ID, action ActionID, recovered any) error {
	return oops.Code(CodeExecutionPanic).
		With("facility", string(facility)).
		With("action", string(action)).
		With("panic", recovered).
		Errorf("panic during %s: %v", action, recovered)
}

// PlayerMessage extracts a player-facing message from an error.
func PlayerMessage(err error) string {
	if err == nil {
		return "Something went wrong. Try again."
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "Something went wrong. Try again."
	}

	switch oopsErr.Code() {
	case CodeUnknownFacility:
		return "There is no such place in town."
	case CodeUnknownAction:
		return "This establishment offers no such service."
	case CodeNoParty:
		return "No party is visiting this establishment."
	case CodeInvalidParams:
		if reason, ok := oopsErr.Context()["reason"].(string); ok && reason != "" {
			return "Invalid request: " + reason
		}
		return "Invalid request."
	case CodeInactive:
		return "Facility not active"
	case CodeAlreadyActive:
		return "That establishment is already occupied."
	case CodeExitFailed:
		return "You cannot leave right now."
	case CodeExecutionPanic:
		return "Something went wrong. Try again."
	default:
		return "Something went wrong. Try again."
	}
}

// resultFromError converts an error into an ERROR Result carrying the
// player-facing message plus the raw error detail.
func resultFromError(err error) *Result {
	return Error(PlayerMessage(err), err.Error())
}
