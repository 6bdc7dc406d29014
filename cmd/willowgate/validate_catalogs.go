// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/willowgate/willowgate/internal/catalog"
)

// NewValidateCatalogsCmd creates the validate-catalogs subcommand.
func NewValidateCatalogsCmd() *cobra.Command {
	var shopScript, shelfScript string

	cmd := &cobra.Command{
		Use:   "validate-catalogs",
		Short: "Validate catalog Lua scripts without starting the server",
		Long: `Loads the shop and spellbook shelf scripts through the sandboxed
Lua interpreter and checks every entry. Does NOT start the server.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch catalog errors early:
  willowgate validate-catalogs --shop shop.lua --shelf shelf.lua`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runValidateCatalogs(shopScript, shelfScript)
		},
	}

	cmd.Flags().StringVar(&shopScript, "shop", "", "shop catalog script to validate")
	cmd.Flags().StringVar(&shelfScript, "shelf", "", "spellbook shelf script to validate")

	return cmd
}

func runValidateCatalogs(shopScript, shelfScript string) error {
	if shopScript == "" && shelfScript == "" {
		return fmt.Errorf("nothing to validate: pass --shop and/or --shelf")
	}

	var failures int

	if shopScript != "" {
		c, err := catalog.LoadShopScript(shopScript)
		if err != nil {
			slog.Error("shop catalog invalid", "path", shopScript, "error", err)
			failures++
		} else {
			slog.Info("shop catalog valid", "path", shopScript, "items", len(c.Items()))
		}
	}

	if shelfScript != "" {
		c, err := catalog.LoadShelfScript(shelfScript)
		if err != nil {
			slog.Error("shelf catalog invalid", "path", shelfScript, "error", err)
			failures++
		} else {
			slog.Info("shelf catalog valid", "path", shelfScript, "spellbooks", len(c.Books()))
		}
	}

	if failures > 0 {
		return fmt.Errorf("validation failed: %d catalog(s) invalid", failures)
	}
	return nil
}
