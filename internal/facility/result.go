// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

// Package facility provides the town facility service, controller, and
// registry layer: typed, validated, possibly-costly actions against a shared
// party, with a uniform confirm-then-execute protocol and a single-active-
// facility invariant.
package facility

// Kind tags the outcome of a service action.
type Kind string

// Result kinds.
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindConfirm Kind = "confirm"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Result is the uniform outcome of every facility action.
// Message is the single line shown to the player; Data carries a typed
// payload the UI may render (a Selection, a ConfirmData, a receipt).
// Results are value objects: created fresh per call, owned by the caller,
// never mutated by the service after return.
type Result struct {
	Success  bool
	Message  string
	Data     any
	Kind     Kind
	Errors   []string
	Warnings []string
	Metadata map[string]any
}

// OK creates a SUCCESS result. data may be nil.
func OK(message string, data any) *Result {
	return &Result{Success: true, Message: message, Data: data, Kind: KindSuccess}
}

// Error creates an ERROR result with optional detail lines.
func Error(message string, errs ...string) *Result {
	return &Result{Message: message, Kind: KindError, Errors: errs}
}

// Warning creates a WARNING result with optional detail lines.
// A warning is recoverable by the player (try again with more gold); the
// action applied no mutation.
func Warning(message string, data any, warnings ...string) *Result {
	return &Result{Success: true, Message: message, Data: data, Kind: KindWarning, Warnings: warnings}
}

// Info creates an INFO result. Used for selection lists and "nothing to do"
// outcomes.
func Info(message string, data any) *Result {
	return &Result{Success: true, Message: message, Data: data, Kind: KindInfo}
}

// Confirm creates a CONFIRM result. The action is not yet committed:
// Success is false until the caller re-invokes with Confirmed set.
func Confirm(message string, data any) *Result {
	return &Result{Message: message, Data: data, Kind: KindConfirm}
}

// IsSuccess reports whether the action committed successfully.
func (r *Result) IsSuccess() bool {
	return r.Success && r.Kind != KindError
}

// IsError reports whether the action failed.
func (r *Result) IsError() bool {
	return r.Kind == KindError
}

// IsWarning reports whether the result carries warnings.
func (r *Result) IsWarning() bool {
	return r.Kind == KindWarning || len(r.Warnings) > 0
}

// NeedsConfirmation reports whether the caller must re-invoke the action
// with confirmation to commit it.
func (r *Result) NeedsConfirmation() bool {
	return r.Kind == KindConfirm
}

// AddError appends an error line and forces the result into the ERROR kind.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Kind = KindError
	r.Success = false
}

// AddWarning appends a warning line. The result becomes WARNING unless it is
// already an ERROR.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
	if r.Kind != KindError {
		r.Kind = KindWarning
	}
}

// SetMeta records a free-form metadata entry, allocating the map on first use.
func (r *Result) SetMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
}
