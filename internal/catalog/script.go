// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package catalog

import (
	"os"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/willowgate/willowgate/internal/party"
)

// Catalog scripts are plain Lua run in a sandboxed state. A shop script
// calls item{...} once per entry; a magic guild script calls spellbook{...}.
// Only the base, table, string, and math libraries are available.

// safeLibrary represents a Lua library that is safe to load in the sandboxed
// catalog state.
type safeLibrary struct {
	name string
	fn   lua.LGFunction
}

// defaultSafeLibraries returns the list of libraries safe to load.
// Blocked: os, io, debug, package.
func defaultSafeLibraries() []safeLibrary {
	return []safeLibrary{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
}

// unsafeBaseFunctions lists base library functions that must be blocked.
// These allow filesystem access which would break sandboxing.
var unsafeBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load"}

// newSandboxedState creates a fresh Lua state with only safe libraries.
func newSandboxedState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	for _, lib := range defaultSafeLibraries() {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, oops.With("library", lib.name).Wrap(err)
		}
	}

	for _, fn := range unsafeBaseFunctions {
		L.SetGlobal(fn, lua.LNil)
	}

	return L, nil
}

// tableString reads a string field from a Lua table.
func tableString(tbl *lua.LTable, key string) string {
	if v, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(v)
	}
	return ""
}

// tableInt reads an integer field from a Lua table.
func tableInt(tbl *lua.LTable, key string) int {
	if v, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(v)
	}
	return 0
}

// LoadShopScript runs a shop catalog script and returns the declared stock.
func LoadShopScript(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}

	var items []Item
	var declErr error

	L, err := newSandboxedState()
	if err != nil {
		return nil, err
	}
	defer L.Close()

	L.SetGlobal("item", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		item := Item{
			ID:    tableString(tbl, "id"),
			Name:  tableString(tbl, "name"),
			Kind:  ItemKind(tableString(tbl, "kind")),
			Price: tableInt(tbl, "price"),
			Stock: tableInt(tbl, "stock"),
		}
		if err := validateItem(item); err != nil && declErr == nil {
			declErr = err
		}
		items = append(items, item)
		return 0
	}))

	if err := L.DoString(string(src)); err != nil {
		return nil, oops.With("path", path).Wrapf(err, "run shop catalog script")
	}
	if declErr != nil {
		return nil, oops.With("path", path).Wrap(declErr)
	}
	if len(items) == 0 {
		return nil, oops.With("path", path).Errorf("shop catalog script declared no items")
	}
	return NewCatalog(items...), nil
}

// LoadShelfScript runs a spellbook catalog script and returns the declared
// shelf.
func LoadShelfScript(path string) (*ShelfCatalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}

	var books []Spellbook
	var declErr error

	L, err := newSandboxedState()
	if err != nil {
		return nil, err
	}
	defer L.Close()

	L.SetGlobal("spellbook", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		book := Spellbook{
			ID:       tableString(tbl, "id"),
			Name:     tableString(tbl, "name"),
			Price:    tableInt(tbl, "price"),
			Stock:    tableInt(tbl, "stock"),
			SpellID:  party.SpellID(tableString(tbl, "spell")),
			LevelReq: tableInt(tbl, "level_req"),
		}
		if err := validateSpellbook(book); err != nil && declErr == nil {
			declErr = err
		}
		books = append(books, book)
		return 0
	}))

	if err := L.DoString(string(src)); err != nil {
		return nil, oops.With("path", path).Wrapf(err, "run spellbook catalog script")
	}
	if declErr != nil {
		return nil, oops.With("path", path).Wrap(declErr)
	}
	if len(books) == 0 {
		return nil, oops.With("path", path).Errorf("spellbook catalog script declared no books")
	}
	return NewShelfCatalog(books...), nil
}

func validateItem(item Item) error {
	if item.ID == "" {
		return oops.Errorf("item missing id")
	}
	if item.Name == "" {
		return oops.With("item", item.ID).Errorf("item %s missing name", item.ID)
	}
	if item.Price <= 0 {
		return oops.With("item", item.ID).Errorf("item %s has non-positive price", item.ID)
	}
	if item.Stock < 0 {
		return oops.With("item", item.ID).Errorf("item %s has negative stock", item.ID)
	}
	return nil
}

func validateSpellbook(book Spellbook) error {
	if book.ID == "" {
		return oops.Errorf("spellbook missing id")
	}
	if book.Name == "" {
		return oops.With("spellbook", book.ID).Errorf("spellbook %s missing name", book.ID)
	}
	if book.SpellID == "" {
		return oops.With("spellbook", book.ID).Errorf("spellbook %s missing spell", book.ID)
	}
	if book.Price <= 0 {
		return oops.With("spellbook", book.ID).Errorf("spellbook %s has non-positive price", book.ID)
	}
	if book.Stock < 0 {
		return oops.With("spellbook", book.ID).Errorf("spellbook %s has negative stock", book.ID)
	}
	if book.LevelReq < 1 {
		return oops.With("spellbook", book.ID).Errorf("spellbook %s has level requirement below 1", book.ID)
	}
	return nil
}
