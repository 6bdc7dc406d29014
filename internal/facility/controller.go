// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/willowgate/willowgate/internal/party"
)

var tracer = otel.Tracer("willowgate/facility")

// UI is the opaque handle to a facility's presentation surface. The core
// never calls anything on it beyond Close.
type UI interface {
	Close()
}

// UIFactory creates the UI surface for a facility visit. Returning an error
// puts the visit into UI-less mode; it never blocks activation.
type UIFactory func(facility ID) (UI, error)

// Controller wraps one facility service with visit lifecycle. It has two
// states, inactive (initial) and active, and guarantees every ExecuteService
// call returns a Result, never a panic.
type Controller struct {
	service   Service
	uiFactory UIFactory
	ui        UI
	active    bool
}

// ControllerOption configures a Controller during construction.
type ControllerOption func(*Controller)

// WithUIFactory configures the controller to create a UI surface on entry.
// If not provided, visits run UI-less (valid, e.g. for headless tests).
func WithUIFactory(f UIFactory) ControllerOption {
	return func(c *Controller) {
		c.uiFactory = f
	}
}

// NewController creates a controller for the given service.
func NewController(service Service, opts ...ControllerOption) *Controller {
	c := &Controller{service: service}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FacilityID returns the facility this controller manages.
func (c *Controller) FacilityID() ID {
	return c.service.ID()
}

// IsActive reports whether a visit is in progress.
func (c *Controller) IsActive() bool {
	return c.active
}

// Party returns the party bound to the current visit, or nil.
func (c *Controller) Party() *party.Party {
	return c.service.Party()
}

// Enter transitions inactive -> active and binds the party into the service.
// Returns false with a log line when already active. A failing UI factory is
// logged and ignored: activation must not depend on presentation.
func (c *Controller) Enter(p *party.Party) bool {
	if c.active {
		slog.Warn("facility already active, ignoring enter",
			"facility", c.FacilityID().String())
		return false
	}
	if p == nil {
		slog.Warn("refusing to enter facility without a party",
			"facility", c.FacilityID().String())
		return false
	}

	c.service.BindParty(p)
	c.active = true

	if c.uiFactory != nil {
		ui, err := c.uiFactory(c.FacilityID())
		if err != nil {
			slog.Warn("facility UI unavailable, continuing UI-less",
				"facility", c.FacilityID().String(),
				"error", err)
		} else {
			c.ui = ui
		}
	}

	slog.Info("entered facility",
		"facility", c.FacilityID().String(),
		"party", p.Name)
	return true
}

// Exit transitions active -> inactive, unbinding the party and clearing any
// service-scoped transient data. A no-op with a warning when already
// inactive.
func (c *Controller) Exit() bool {
	if !c.active {
		slog.Warn("facility not active, ignoring exit",
			"facility", c.FacilityID().String())
		return false
	}

	if c.ui != nil {
		c.ui.Close()
		c.ui = nil
	}
	c.service.ClearTransient()
	c.service.BindParty(nil)
	c.active = false

	slog.Info("exited facility", "facility", c.FacilityID().String())
	return true
}

// MenuItems delegates to the service while active; returns an empty list
// while inactive, never panics.
func (c *Controller) MenuItems() []MenuItem {
	if !c.active {
		return []MenuItem{}
	}
	return c.service.MenuItems()
}

// ExecuteService runs one action through the gate sequence: active check,
// action membership, parameter validation, then execution. Every failure
// short-circuits into an ERROR Result; panics raised by the service are
// recovered and converted, never propagated.
func (c *Controller) ExecuteService(ctx context.Context, action ActionID, params Params) (res *Result) {
	facility := c.FacilityID()

	_, span := tracer.Start(ctx, "facility.execute",
		trace.WithAttributes(
			attribute.String("facility.id", facility.String()),
			attribute.String("facility.action", action.String()),
		),
	)
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err := ErrExecutionPanic(facility, action, rec)
			slog.Error("facility action panicked",
				"facility", facility.String(),
				"action", action.String(),
				"panic", rec)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			res = resultFromError(err)
		}
		if res.IsError() {
			span.SetStatus(codes.Error, res.Message)
		}
		RecordAction(facility, action, res.Kind)
		RecordActionDuration(facility, action, time.Since(start))
		span.End()
	}()

	if !c.active {
		return resultFromError(ErrInactive(facility))
	}
	if !c.service.CanExecute(action) {
		return resultFromError(ErrUnknownAction(facility, action))
	}
	if err := c.service.ValidateParams(action, params); err != nil {
		return resultFromError(err)
	}

	res = c.service.ExecuteAction(action, params)
	if res == nil {
		// A service returning nil is a bug; surface it as a fault.
		return resultFromError(ErrExecutionPanic(facility, action, "service returned nil result"))
	}
	if res.IsError() {
		slog.Warn("facility action failed",
			"facility", facility.String(),
			"action", action.String(),
			"message", res.Message)
	}
	return res
}
