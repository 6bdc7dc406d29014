// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility

import (
	"github.com/oklog/ulid/v2"

	"github.com/willowgate/willowgate/internal/party"
)

// ID identifies one of the mutually-exclusive town facilities.
type ID string

// Facility IDs.
const (
	Guild      ID = "guild"
	Inn        ID = "inn"
	Shop       ID = "shop"
	Temple     ID = "temple"
	MagicGuild ID = "magic_guild"
)

// String returns the string representation of the facility ID.
func (id ID) String() string {
	return string(id)
}

// ActionID identifies one service action within a facility. Each facility
// owns a closed set of action IDs; dispatch is an exhaustive switch.
type ActionID string

// String returns the string representation of the action ID.
func (a ActionID) String() string {
	return string(a)
}

// Params carries the arguments of one action invocation. Which fields are
// meaningful depends on the action; a missing prerequisite field (zero
// CharacterID, empty ItemID) asks the service for a selection list rather
// than producing an error.
type Params struct {
	CharacterID ulid.ULID
	ItemID      string
	SpellbookID string
	Quantity    int
	NewName     string
	Class       party.Class
	Confirmed   bool
}

// CostUnknown marks an action whose cost depends on a target not yet chosen
// (resurrection target, purchase quantity). The real cost is computed and
// embedded in the CONFIRM result.
const CostUnknown = 0

// Service is the per-facility business-logic unit. Implementations must keep
// every mutation inside ExecuteAction, after all guards have passed, so that
// a failing action leaves the party untouched.
type Service interface {
	// ID returns the facility this service implements.
	ID() ID

	// MenuItems enumerates the selectable services. Safe to call at any
	// time; with no party bound it returns disabled items.
	MenuItems() []MenuItem

	// CanExecute is a cheap membership check for the action ID.
	CanExecute(action ActionID) bool

	// ValidateParams checks parameter shape for the action before execution.
	ValidateParams(action ActionID, params Params) error

	// ExecuteAction runs the action. It is the only place party state
	// mutates, and it re-validates every precondition even when the caller
	// arrives with Confirmed set.
	ExecuteAction(action ActionID, params Params) *Result

	// BindParty binds the visiting party. A nil party unbinds.
	BindParty(p *party.Party)
	// Party returns the bound party, or nil.
	Party() *party.Party
	// HasParty reports whether a party is bound.
	HasParty() bool

	// ActionCost returns the gold cost of the action, or CostUnknown when
	// the cost depends on a target not expressible without parameters.
	ActionCost(action ActionID) int

	// CanAfford reports whether the bound party can pay for the action.
	// Always false with no party bound.
	CanAfford(action ActionID) bool

	// ClearTransient drops any service-scoped transient data accumulated
	// during a visit. Called by the controller on exit.
	ClearTransient()
}

// boundService holds the party binding shared by every facility service.
type boundService struct {
	id    ID
	party *party.Party
}

func (b *boundService) ID() ID                   { return b.id }
func (b *boundService) BindParty(p *party.Party) { b.party = p }
func (b *boundService) Party() *party.Party      { return b.party }
func (b *boundService) HasParty() bool           { return b.party != nil }
func (b *boundService) ClearTransient()          {}

// affordable implements the shared CanAfford logic: a bound party, a known
// action, and enough gold for its fixed cost. Actions with target-dependent
// costs (CostUnknown) are affordable until the confirm step prices them.
func affordable(s Service, action ActionID) bool {
	if !s.HasParty() || !s.CanExecute(action) {
		return false
	}
	cost := s.ActionCost(action)
	return cost >= 0 && s.Party().CanAfford(cost)
}

// requireParty returns an ERROR result when no party is bound, or nil.
func requireParty(s Service) *Result {
	if s.HasParty() {
		return nil
	}
	return resultFromError(ErrNoParty(s.ID()))
}

// Choice is one entry of a selection list.
type Choice struct {
	ID       string
	Label    string
	Detail   string
	Disabled bool
}

// Selection is the Data payload of an INFO result asking the UI to let the
// player pick from a list.
type Selection struct {
	Prompt  string
	Choices []Choice
}

// ConfirmData is the Data payload of a CONFIRM result. It embeds everything
// the caller needs to re-invoke the action with Confirmed set.
type ConfirmData struct {
	Action      ActionID
	Cost        int
	CharacterID ulid.ULID
	ItemID      string
	SpellbookID string
	Quantity    int
}
