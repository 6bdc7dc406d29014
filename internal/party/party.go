// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package party

import (
	"github.com/oklog/ulid/v2"
)

// MaxMembers is the maximum party size.
const MaxMembers = 6

// DefaultVitality is the resurrection budget a fresh character starts with.
const DefaultVitality = 10

// Party is the adventuring party shared across facility visits.
// It is mutable and single-owner-at-a-time: whichever facility controller is
// currently active owns it for the duration of the visit.
type Party struct {
	ID      ulid.ULID
	Name    string
	Gold    int
	Blessed bool
	Members []*Character
}

// New creates a named party with a generated ID and the given starting gold.
func New(name string, gold int) (*Party, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if gold < 0 {
		return nil, &ValidationError{Field: "gold", Message: "cannot be negative"}
	}
	return &Party{
		ID:   ulid.Make(),
		Name: name,
		Gold: gold,
	}, nil
}

// Rename changes the party's name after validation.
func (p *Party) Rename(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	p.Name = name
	return nil
}

// AddMember appends a character to the party.
// Returns a ValidationError if the party is already full.
func (p *Party) AddMember(c *Character) error {
	if len(p.Members) >= MaxMembers {
		return &ValidationError{Field: "members", Message: "party is full"}
	}
	p.Members = append(p.Members, c)
	return nil
}

// RemoveMember removes the character with the given ID.
// Returns false if no such member exists.
func (p *Party) RemoveMember(id ulid.ULID) bool {
	for i, c := range p.Members {
		if c.ID == id {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return true
		}
	}
	return false
}

// Member returns the character with the given ID, or nil.
func (p *Party) Member(id ulid.ULID) *Character {
	for _, c := range p.Members {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// LivingMembers returns the members that can act.
func (p *Party) LivingMembers() []*Character {
	living := make([]*Character, 0, len(p.Members))
	for _, c := range p.Members {
		if c.IsAlive() {
			living = append(living, c)
		}
	}
	return living
}

// AverageLevel returns the mean level of living members, using integer
// division. Returns 0 when nobody is alive.
func (p *Party) AverageLevel() int {
	living := p.LivingMembers()
	if len(living) == 0 {
		return 0
	}
	sum := 0
	for _, c := range living {
		sum += c.Level
	}
	return sum / len(living)
}

// CanAfford reports whether the party holds at least cost gold.
func (p *Party) CanAfford(cost int) bool {
	return cost >= 0 && p.Gold >= cost
}

// SpendGold debits cost from the party's gold.
// Returns false without mutation when the party cannot afford it.
func (p *Party) SpendGold(cost int) bool {
	if !p.CanAfford(cost) {
		return false
	}
	p.Gold -= cost
	return true
}
