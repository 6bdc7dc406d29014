// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

// Package catalog holds the purchasable inventories of the shop and the
// magic guild: items and spellbooks with prices and stock.
package catalog

import (
	"sort"

	"github.com/willowgate/willowgate/internal/party"
)

// ItemKind categorizes shop stock.
type ItemKind string

// Item kinds.
const (
	KindWeapon ItemKind = "weapon"
	KindArmor  ItemKind = "armor"
	KindTool   ItemKind = "tool"
)

// Item is one purchasable shop entry.
type Item struct {
	ID    string
	Name  string
	Kind  ItemKind
	Price int
	Stock int
}

// Spellbook is one purchasable magic guild entry. Buying it teaches SpellID
// to a member of at least LevelReq.
type Spellbook struct {
	ID       string
	Name     string
	Price    int
	Stock    int
	SpellID  party.SpellID
	LevelReq int
}

// Catalog is a mutable stock of items keyed by ID.
type Catalog struct {
	items map[string]*Item
}

// NewCatalog creates a catalog from the given items. Later duplicates of an
// ID replace earlier ones.
func NewCatalog(items ...Item) *Catalog {
	c := &Catalog{items: make(map[string]*Item, len(items))}
	for i := range items {
		item := items[i]
		c.items[item.ID] = &item
	}
	return c
}

// Item returns the item with the given ID, or nil.
func (c *Catalog) Item(id string) *Item {
	return c.items[id]
}

// Items returns all items sorted by ID.
func (c *Catalog) Items() []*Item {
	out := make([]*Item, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TakeStock removes quantity units of the item from stock.
// Returns false without mutation when the item is unknown or stock is short.
func (c *Catalog) TakeStock(id string, quantity int) bool {
	item := c.items[id]
	if item == nil || quantity <= 0 || quantity > item.Stock {
		return false
	}
	item.Stock -= quantity
	return true
}

// ShelfCatalog is a mutable stock of spellbooks keyed by ID.
type ShelfCatalog struct {
	books map[string]*Spellbook
}

// NewShelfCatalog creates a spellbook catalog from the given books.
func NewShelfCatalog(books ...Spellbook) *ShelfCatalog {
	c := &ShelfCatalog{books: make(map[string]*Spellbook, len(books))}
	for i := range books {
		book := books[i]
		c.books[book.ID] = &book
	}
	return c
}

// Book returns the spellbook with the given ID, or nil.
func (c *ShelfCatalog) Book(id string) *Spellbook {
	return c.books[id]
}

// Books returns all spellbooks sorted by ID.
func (c *ShelfCatalog) Books() []*Spellbook {
	out := make([]*Spellbook, 0, len(c.books))
	for _, book := range c.books {
		out = append(out, book)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TakeStock removes one copy of the book from stock.
// Returns false without mutation when the book is unknown or out of stock.
func (c *ShelfCatalog) TakeStock(id string) bool {
	book := c.books[id]
	if book == nil || book.Stock < 1 {
		return false
	}
	book.Stock--
	return true
}

// DefaultShopCatalog returns the stock a town shop opens with when no
// catalog script is configured.
func DefaultShopCatalog() *Catalog {
	return NewCatalog(
		Item{ID: "short_sword", Name: "Short Sword", Kind: KindWeapon, Price: 80, Stock: 5},
		Item{ID: "long_sword", Name: "Long Sword", Kind: KindWeapon, Price: 250, Stock: 3},
		Item{ID: "leather_armor", Name: "Leather Armor", Kind: KindArmor, Price: 120, Stock: 4},
		Item{ID: "chain_mail", Name: "Chain Mail", Kind: KindArmor, Price: 450, Stock: 2},
		Item{ID: "torch", Name: "Torch", Kind: KindTool, Price: 5, Stock: 20},
		Item{ID: "antidote", Name: "Antidote", Kind: KindTool, Price: 40, Stock: 10},
	)
}

// DefaultSpellbookCatalog returns the shelf a magic guild opens with when no
// catalog script is configured.
func DefaultSpellbookCatalog() *ShelfCatalog {
	return NewShelfCatalog(
		Spellbook{ID: "tome_spark", Name: "Tome of Sparks", Price: 200, Stock: 3, SpellID: "spark", LevelReq: 1},
		Spellbook{ID: "tome_flame", Name: "Tome of Flame", Price: 600, Stock: 2, SpellID: "flame_lance", LevelReq: 5},
		Spellbook{ID: "tome_mend", Name: "Tome of Mending", Price: 350, Stock: 3, SpellID: "mend", LevelReq: 3},
		Spellbook{ID: "tome_ward", Name: "Tome of Warding", Price: 800, Stock: 1, SpellID: "ward", LevelReq: 7},
	)
}
