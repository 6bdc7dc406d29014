// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/willowgate/willowgate/internal/party"
)

// newParty builds a test party with the given gold.
func newParty(t *testing.T, gold int) *party.Party {
	t.Helper()
	p, err := party.New("The Gatecrashers", gold)
	require.NoError(t, err)
	return p
}

// addMember adds a living member at the given level.
func addMember(t *testing.T, p *party.Party, name string, level int) *party.Character {
	t.Helper()
	c, err := party.NewCharacter(name, party.ClassFighter, level)
	require.NoError(t, err)
	c.MaxHP = level * 10
	c.HP = c.MaxHP
	c.MaxMP = level * 4
	c.MP = c.MaxMP
	require.NoError(t, p.AddMember(c))
	return c
}
