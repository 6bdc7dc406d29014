// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

// Package party contains the party and character domain types mutated by
// facility services.
package party

import (
	"github.com/oklog/ulid/v2"
)

// Status identifies a character's condition.
type Status string

// Character statuses.
const (
	StatusNormal    Status = "normal"
	StatusPoison    Status = "poison"
	StatusParalysis Status = "paralysis"
	StatusDead      Status = "dead"
	StatusAshes     Status = "ashes"
	StatusLost      Status = "lost"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsAilment reports whether the status is a minor ailment curable by resting.
func (s Status) IsAilment() bool {
	return s == StatusPoison || s == StatusParalysis
}

// Class identifies a character's profession.
type Class string

// Character classes.
const (
	ClassFighter Class = "fighter"
	ClassMage    Class = "mage"
	ClassPriest  Class = "priest"
	ClassThief   Class = "thief"
	ClassSamurai Class = "samurai"
	ClassLord    Class = "lord"
)

// String returns the string representation of the class.
func (c Class) String() string {
	return string(c)
}

// SpellID identifies a learnable spell.
type SpellID string

// Item is a single inventory entry. Unidentified items show their name but
// hide their powers until analyzed at the magic guild.
type Item struct {
	ID         string
	Name       string
	Equipped   bool
	Identified bool
}

// Character represents one party member.
// Fields are mutated in place by facility actions; the active facility
// controller is the single owner during a visit.
type Character struct {
	ID          ulid.ULID
	Name        string
	Class       Class
	Level       int
	HP          int
	MaxHP       int
	MP          int
	MaxMP       int
	Status      Status
	Vitality    int // remaining resurrection budget
	Inventory   []Item
	KnownSpells []SpellID
}

// NewCharacter creates a new Character with a generated ID.
// The character is validated before being returned.
func NewCharacter(name string, class Class, level int) (*Character, error) {
	c := &Character{
		ID:       ulid.Make(),
		Name:     name,
		Class:    class,
		Level:    level,
		Status:   StatusNormal,
		Vitality: DefaultVitality,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the character has required fields.
func (c *Character) Validate() error {
	if c.ID.IsZero() {
		return &ValidationError{Field: "id", Message: "cannot be zero"}
	}
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if c.Level < 1 {
		return &ValidationError{Field: "level", Message: "must be at least 1"}
	}
	if c.HP < 0 || (c.MaxHP > 0 && c.HP > c.MaxHP) {
		return &ValidationError{Field: "hp", Message: "out of range"}
	}
	if c.MP < 0 || (c.MaxMP > 0 && c.MP > c.MaxMP) {
		return &ValidationError{Field: "mp", Message: "out of range"}
	}
	if c.Vitality < 0 {
		return &ValidationError{Field: "vitality", Message: "cannot be negative"}
	}
	return nil
}

// IsAlive reports whether the character can act (neither dead, ashes, nor lost).
func (c *Character) IsAlive() bool {
	switch c.Status {
	case StatusDead, StatusAshes, StatusLost:
		return false
	default:
		return true
	}
}

// FullyHealed reports whether resting would change nothing for this character.
func (c *Character) FullyHealed() bool {
	return c.HP == c.MaxHP && c.MP == c.MaxMP && !c.Status.IsAilment()
}

// KnowsSpell reports whether the character already knows the given spell.
func (c *Character) KnowsSpell(id SpellID) bool {
	for _, s := range c.KnownSpells {
		if s == id {
			return true
		}
	}
	return false
}

// LearnSpell records a spell as known. Learning an already-known spell is a no-op.
func (c *Character) LearnSpell(id SpellID) {
	if c.KnowsSpell(id) {
		return
	}
	c.KnownSpells = append(c.KnownSpells, id)
}
