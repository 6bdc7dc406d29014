// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowgate/willowgate/internal/facility"
	"github.com/willowgate/willowgate/internal/party"
)

func TestInn_RestCost(t *testing.T) {
	inn := facility.NewInn(10)
	p := newParty(t, 1000)
	addMember(t, p, "Alaric", 4)
	addMember(t, p, "Brin", 6)
	inn.BindParty(p)

	// Average level 5, base 10 -> 50.
	assert.Equal(t, 50, inn.ActionCost(facility.ActionRest))
	assert.True(t, inn.CanAfford(facility.ActionRest))
}

func TestInn_RestConfirmThenExecute(t *testing.T) {
	inn := facility.NewInn(10)
	p := newParty(t, 1000)
	a := addMember(t, p, "Alaric", 5)
	b := addMember(t, p, "Brin", 5)
	a.HP = 1
	b.Status = party.StatusPoison
	inn.BindParty(p)

	confirm := inn.ExecuteAction(facility.ActionRest, facility.Params{})
	require.True(t, confirm.NeedsConfirmation())
	data, ok := confirm.Data.(facility.ConfirmData)
	require.True(t, ok)
	assert.Equal(t, 50, data.Cost)

	res := inn.ExecuteAction(facility.ActionRest, facility.Params{Confirmed: true})
	require.True(t, res.IsSuccess())

	receipt, ok := res.Data.(facility.RestReceipt)
	require.True(t, ok)
	// Confirm and execute price the same rest identically.
	assert.Equal(t, data.Cost, receipt.Cost)

	assert.Equal(t, 950, p.Gold)
	assert.Equal(t, a.MaxHP, a.HP)
	assert.Equal(t, party.StatusNormal, b.Status)
	assert.ElementsMatch(t, []string{"Alaric", "Brin"}, receipt.Healed)
}

func TestInn_RestInsufficientGold(t *testing.T) {
	// Scenario: average level 5 prices rest at 50; the party holds 40.
	inn := facility.NewInn(10)
	p := newParty(t, 40)
	a := addMember(t, p, "Alaric", 5)
	a.HP = 1
	inn.BindParty(p)

	res := inn.ExecuteAction(facility.ActionRest, facility.Params{Confirmed: true})
	require.True(t, res.IsWarning())
	assert.Contains(t, res.Message, "Insufficient gold")
	assert.Equal(t, 40, p.Gold)
	assert.Equal(t, 1, a.HP) // nobody was healed
}

func TestInn_RestAlreadyWell(t *testing.T) {
	inn := facility.NewInn(10)
	p := newParty(t, 100)
	addMember(t, p, "Alaric", 5)
	inn.BindParty(p)

	res := inn.ExecuteAction(facility.ActionRest, facility.Params{})
	require.Equal(t, facility.KindInfo, res.Kind)
	assert.Equal(t, 100, p.Gold) // no charge

	// Same answer when the caller confirms anyway.
	res = inn.ExecuteAction(facility.ActionRest, facility.Params{Confirmed: true})
	assert.Equal(t, facility.KindInfo, res.Kind)
	assert.Equal(t, 100, p.Gold)
}

func TestInn_RestSkipsTheDead(t *testing.T) {
	inn := facility.NewInn(10)
	p := newParty(t, 1000)
	a := addMember(t, p, "Alaric", 5)
	dead := addMember(t, p, "Brin", 5)
	dead.Status = party.StatusDead
	dead.HP = 0
	a.HP = 1
	inn.BindParty(p)

	res := inn.ExecuteAction(facility.ActionRest, facility.Params{Confirmed: true})
	require.True(t, res.IsSuccess())
	assert.Equal(t, party.StatusDead, dead.Status)
	assert.Equal(t, 0, dead.HP)
	assert.Equal(t, a.MaxHP, a.HP)
}

func TestInn_RestNobodyLiving(t *testing.T) {
	inn := facility.NewInn(10)
	p := newParty(t, 1000)
	dead := addMember(t, p, "Alaric", 5)
	dead.Status = party.StatusAshes
	inn.BindParty(p)

	res := inn.ExecuteAction(facility.ActionRest, facility.Params{})
	assert.True(t, res.IsWarning())
	assert.Equal(t, 1000, p.Gold)
}

func TestInn_NoPartyBound(t *testing.T) {
	inn := facility.NewInn(10)

	res := inn.ExecuteAction(facility.ActionRest, facility.Params{})
	assert.True(t, res.IsError())
	assert.False(t, inn.CanAfford(facility.ActionRest))
	assert.Equal(t, facility.CostUnknown, inn.ActionCost(facility.ActionRest))
}

func TestInn_MenuItems(t *testing.T) {
	inn := facility.NewInn(10)

	items := inn.MenuItems()
	require.Len(t, items, 1)
	assert.False(t, items[0].Enabled)

	p := newParty(t, 100)
	addMember(t, p, "Alaric", 1)
	inn.BindParty(p)

	items = inn.MenuItems()
	assert.True(t, items[0].Enabled)
}

func TestInn_UnknownAction(t *testing.T) {
	inn := facility.NewInn(10)
	inn.BindParty(newParty(t, 0))

	assert.False(t, inn.CanExecute("dance"))
	res := inn.ExecuteAction("dance", facility.Params{})
	assert.True(t, res.IsError())
}
