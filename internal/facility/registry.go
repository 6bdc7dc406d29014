// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/willowgate/willowgate/internal/party"
)

// ServiceFactory creates a facility service. Factories run at most once per
// facility ID for the registry's lifetime: controllers are created lazily on
// first entry and cached until Close.
type ServiceFactory func() Service

// Registry is the single source of truth for which facility the party is
// currently inside. It enforces the invariant that at most one controller is
// active at any time. Construct one explicitly at application start and
// inject it into the UI layer; there is no package-level instance.
type Registry struct {
	mu           sync.Mutex
	factories    map[ID]ServiceFactory
	controllers  map[ID]*Controller
	current      ID // "" when no facility is active
	currentParty *party.Party
	uiFactory    UIFactory
}

// RegistryOption configures a Registry during construction.
type RegistryOption func(*Registry)

// WithRegistryUIFactory makes every lazily-created controller use the given
// UI factory. If not provided, visits run UI-less.
func WithRegistryUIFactory(f UIFactory) RegistryOption {
	return func(r *Registry) {
		r.uiFactory = f
	}
}

// NewRegistry creates an empty facility registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		factories:   make(map[ID]ServiceFactory),
		controllers: make(map[ID]*Controller),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterService adds a facility to the directory. Registering an ID twice
// overwrites the factory with a warning; an already-cached controller for
// that ID is kept.
func (r *Registry) RegisterService(id ID, factory ServiceFactory) error {
	if factory == nil {
		return ErrUnknownFacility(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[id]; ok {
		slog.Warn("facility conflict: overwriting existing registration",
			"facility", id.String())
	}
	r.factories[id] = factory
	return nil
}

// FacilityIDs returns the registered facility IDs in sorted order.
func (r *Registry) FacilityIDs() []ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]ID, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Controller returns the cached controller for the facility, creating it on
// first use. Returns an error for an unregistered ID.
func (r *Registry) Controller(id ID) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.controllerLocked(id)
}

func (r *Registry) controllerLocked(id ID) (*Controller, error) {
	if ctrl, ok := r.controllers[id]; ok {
		return ctrl, nil
	}
	factory, ok := r.factories[id]
	if !ok {
		return nil, ErrUnknownFacility(id)
	}
	var opts []ControllerOption
	if r.uiFactory != nil {
		opts = append(opts, WithUIFactory(r.uiFactory))
	}
	ctrl := NewController(factory(), opts...)
	r.controllers[id] = ctrl
	return ctrl, nil
}

// EnterFacility moves the party into the given facility. If another facility
// is active it is exited first; a failing exit aborts the entry. Entering
// the facility the party is already inside exits and re-enters it.
func (r *Registry) EnterFacility(ctx context.Context, id ID, p *party.Party) error {
	_, span := tracer.Start(ctx, "facility.enter",
		trace.WithAttributes(attribute.String("facility.id", id.String())),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[id]; !ok {
		err := ErrUnknownFacility(id)
		span.RecordError(err)
		return err
	}

	if r.current != "" {
		if err := r.exitCurrentLocked(); err != nil {
			span.RecordError(err)
			return ErrExitFailed(id, err)
		}
	}

	ctrl, err := r.controllerLocked(id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !ctrl.Enter(p) {
		err := ErrAlreadyActive(id)
		span.RecordError(err)
		return err
	}

	r.current = id
	r.currentParty = p
	RecordEntry(id)
	return nil
}

// ExitCurrentFacility ends the current visit. A no-op success when nothing
// is active. The current-facility bookkeeping is cleared even when the
// controller misbehaves, so the registry can never get stuck believing a
// facility is active when it is not.
func (r *Registry) ExitCurrentFacility() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exitCurrentLocked()
}

func (r *Registry) exitCurrentLocked() (err error) {
	if r.current == "" {
		return nil
	}

	id := r.current
	ctrl := r.controllers[id]

	defer func() {
		r.current = ""
		r.currentParty = nil
		if rec := recover(); rec != nil {
			slog.Error("facility exit panicked, clearing current facility anyway",
				"facility", id.String(),
				"panic", rec)
			err = ErrExitFailed(id, ErrExecutionPanic(id, "", rec))
		}
	}()

	if ctrl == nil {
		// Broken bookkeeping; clearing the fields restores the invariant.
		slog.Error("current facility has no controller, clearing",
			"facility", id.String())
		return nil
	}
	if !ctrl.Exit() {
		slog.Warn("current facility controller was already inactive",
			"facility", id.String())
	}
	return nil
}

// CurrentFacility returns the active facility ID, or false when the party is
// in the overworld.
func (r *Registry) CurrentFacility() (ID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.current != ""
}

// CurrentParty returns the party bound to the active visit, or nil.
func (r *Registry) CurrentParty() *party.Party {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentParty
}

// InFacility reports whether the given facility is the active one.
func (r *Registry) InFacility(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current == id
}

// Close exits any active facility and drops all cached controllers. The
// registry can be reused after Close, but controllers are recreated.
func (r *Registry) Close() error {
	err := r.ExitCurrentFacility()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers = make(map[ID]*Controller)
	return err
}
