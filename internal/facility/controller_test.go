// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowgate/willowgate/internal/facility"
	"github.com/willowgate/willowgate/internal/party"
)

// panicService implements facility.Service and panics on execution.
type panicService struct {
	bound *party.Party
}

func (s *panicService) ID() facility.ID                  { return "haunted" }
func (s *panicService) MenuItems() []facility.MenuItem   { return nil }
func (s *panicService) CanExecute(facility.ActionID) bool { return true }
func (s *panicService) ValidateParams(facility.ActionID, facility.Params) error {
	return nil
}
func (s *panicService) ExecuteAction(facility.ActionID, facility.Params) *facility.Result {
	panic("the floor gives way")
}
func (s *panicService) BindParty(p *party.Party) { s.bound = p }
func (s *panicService) Party() *party.Party      { return s.bound }
func (s *panicService) HasParty() bool           { return s.bound != nil }
func (s *panicService) ActionCost(facility.ActionID) int { return 0 }
func (s *panicService) CanAfford(facility.ActionID) bool { return false }
func (s *panicService) ClearTransient()                  {}

// closeTrackingUI records whether Close was called.
type closeTrackingUI struct {
	closed bool
}

func (u *closeTrackingUI) Close() { u.closed = true }

func TestController_EnterExitLifecycle(t *testing.T) {
	ctrl := facility.NewController(facility.NewInn(10))
	p := newParty(t, 100)
	addMember(t, p, "Alaric", 1)

	assert.False(t, ctrl.IsActive())
	assert.True(t, ctrl.Enter(p))
	assert.True(t, ctrl.IsActive())
	assert.Same(t, p, ctrl.Party())

	// Entering twice fails without disturbing the visit.
	assert.False(t, ctrl.Enter(p))
	assert.True(t, ctrl.IsActive())

	assert.True(t, ctrl.Exit())
	assert.False(t, ctrl.IsActive())
	assert.Nil(t, ctrl.Party())

	// Exiting twice is a warned no-op, never a panic.
	assert.False(t, ctrl.Exit())
}

func TestController_EnterWithoutParty(t *testing.T) {
	ctrl := facility.NewController(facility.NewInn(10))
	assert.False(t, ctrl.Enter(nil))
	assert.False(t, ctrl.IsActive())
}

func TestController_MenuItemsWhileInactive(t *testing.T) {
	ctrl := facility.NewController(facility.NewInn(10))

	items := ctrl.MenuItems()
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestController_ExecuteWhileInactive(t *testing.T) {
	ctrl := facility.NewController(facility.NewInn(10))

	res := ctrl.ExecuteService(context.Background(), facility.ActionRest, facility.Params{})
	require.True(t, res.IsError())
	assert.Equal(t, "Facility not active", res.Message)
}

func TestController_ExecuteUnknownAction(t *testing.T) {
	ctrl := facility.NewController(facility.NewInn(10))
	p := newParty(t, 100)
	addMember(t, p, "Alaric", 1)
	require.True(t, ctrl.Enter(p))

	res := ctrl.ExecuteService(context.Background(), "juggle", facility.Params{})
	assert.True(t, res.IsError())
}

func TestController_PanicBecomesErrorResult(t *testing.T) {
	ctrl := facility.NewController(&panicService{})
	p := newParty(t, 0)
	require.True(t, ctrl.Enter(p))

	var res *facility.Result
	require.NotPanics(t, func() {
		res = ctrl.ExecuteService(context.Background(), "collapse", facility.Params{})
	})
	require.True(t, res.IsError())
	assert.NotEmpty(t, res.Errors)
}

func TestController_UIFactoryFailureDoesNotBlockEntry(t *testing.T) {
	factory := func(facility.ID) (facility.UI, error) {
		return nil, errors.New("no display")
	}
	ctrl := facility.NewController(facility.NewInn(10), facility.WithUIFactory(factory))
	p := newParty(t, 100)
	addMember(t, p, "Alaric", 1)

	assert.True(t, ctrl.Enter(p))
	assert.True(t, ctrl.IsActive())
}

func TestController_UIClosedOnExit(t *testing.T) {
	ui := &closeTrackingUI{}
	factory := func(facility.ID) (facility.UI, error) {
		return ui, nil
	}
	ctrl := facility.NewController(facility.NewInn(10), facility.WithUIFactory(factory))
	p := newParty(t, 100)
	addMember(t, p, "Alaric", 1)

	require.True(t, ctrl.Enter(p))
	require.True(t, ctrl.Exit())
	assert.True(t, ui.closed)
}

func TestController_FullRestVisit(t *testing.T) {
	ctrl := facility.NewController(facility.NewInn(10))
	p := newParty(t, 100)
	a := addMember(t, p, "Alaric", 5)
	a.HP = 1
	require.True(t, ctrl.Enter(p))

	confirm := ctrl.ExecuteService(context.Background(), facility.ActionRest, facility.Params{})
	require.True(t, confirm.NeedsConfirmation())

	res := ctrl.ExecuteService(context.Background(), facility.ActionRest, facility.Params{Confirmed: true})
	require.True(t, res.IsSuccess())
	assert.Equal(t, 50, 100-p.Gold)
	assert.Equal(t, a.MaxHP, a.HP)
}
