// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowgate/willowgate/internal/config"
	"github.com/willowgate/willowgate/internal/facility"
)

func TestTownCommand_Help(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"town", "--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, flag := range []string{"--listen.addr", "--listen.metrics_addr", "--log.format", "--config"} {
		assert.Contains(t, output, flag, "town help missing %q flag", flag)
	}
}

func TestSessionFactory_Defaults(t *testing.T) {
	cfg := config.Default()

	newSession, err := sessionFactory(&cfg)
	require.NoError(t, err)

	session, err := newSession()
	require.NoError(t, err)

	wantIDs := []facility.ID{
		facility.Guild, facility.Inn, facility.MagicGuild, facility.Shop, facility.Temple,
	}
	assert.Equal(t, wantIDs, session.Registry.FacilityIDs())

	assert.Equal(t, "Wanderers", session.Party.Name)
	assert.Equal(t, 800, session.Party.Gold)
	require.Len(t, session.Party.Members, 2)
}

func TestSessionFactory_SessionsAreIsolated(t *testing.T) {
	cfg := config.Default()

	newSession, err := sessionFactory(&cfg)
	require.NoError(t, err)

	s1, err := newSession()
	require.NoError(t, err)
	s2, err := newSession()
	require.NoError(t, err)

	// Draining one session's gold must not touch the other.
	require.True(t, s1.Party.SpendGold(500))
	assert.Equal(t, 300, s1.Party.Gold)
	assert.Equal(t, 800, s2.Party.Gold)
	assert.NotSame(t, s1.Registry, s2.Registry)
}

func TestSessionFactory_ScriptedCatalogs(t *testing.T) {
	shop := writeScript(t, "shop.lua", `
item{ id = "rope", name = "Rope", kind = "tool", price = 10, stock = 5 }
`)
	shelf := writeScript(t, "shelf.lua", `
spellbook{ id = "tome_ward", name = "Tome of Warding", price = 350, stock = 2, spell = "ward", level_req = 2 }
`)

	cfg := config.Default()
	cfg.Catalogs.ShopScript = shop
	cfg.Catalogs.ShelfScript = shelf

	newSession, err := sessionFactory(&cfg)
	require.NoError(t, err)

	session, err := newSession()
	require.NoError(t, err)
	assert.Contains(t, session.Registry.FacilityIDs(), facility.Shop)
}

func TestSessionFactory_BrokenScriptFailsFast(t *testing.T) {
	cfg := config.Default()
	cfg.Catalogs.ShopScript = filepath.Join(t.TempDir(), "missing.lua")

	_, err := sessionFactory(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shop catalog")
}

func TestNewStarterParty(t *testing.T) {
	p, err := newStarterParty()
	require.NoError(t, err)

	require.Len(t, p.Members, 2)
	// The starter party is deliberately worn down so the inn has work to do.
	brann := p.Members[0]
	assert.Less(t, brann.HP, brann.MaxHP)
}
