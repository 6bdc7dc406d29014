// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility

import (
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/willowgate/willowgate/internal/party"
)

// Temple actions.
const (
	ActionResurrect ActionID = "resurrect"
	ActionBlessing  ActionID = "blessing"
)

// Temple pricing.
const (
	// ResurrectCostPerLevel is the per-level fee for raising the dead.
	ResurrectCostPerLevel = 100
	// DefaultBlessingFee is the flat fee for a blessing.
	DefaultBlessingFee = 500
)

// ResurrectReceipt is the Data payload of a successful resurrection.
type ResurrectReceipt struct {
	CharacterID  ulid.ULID
	Name         string
	Cost         int
	VitalityLeft int
}

// TempleService raises dead party members and sells blessings.
type TempleService struct {
	boundService
	blessingFee int
}

// NewTemple creates the temple service. A non-positive blessingFee falls
// back to DefaultBlessingFee.
func NewTemple(blessingFee int) *TempleService {
	if blessingFee <= 0 {
		blessingFee = DefaultBlessingFee
	}
	return &TempleService{
		boundService: boundService{id: Temple},
		blessingFee:  blessingFee,
	}
}

// resurrectCost prices a resurrection: level x 100, and half again (rounded
// down) when only ashes remain.
func resurrectCost(c *party.Character) int {
	cost := c.Level * ResurrectCostPerLevel
	if c.Status == party.StatusAshes {
		cost = cost * 3 / 2
	}
	return cost
}

// fallen returns the members eligible for resurrection.
func (s *TempleService) fallen() []*party.Character {
	out := make([]*party.Character, 0, len(s.party.Members))
	for _, c := range s.party.Members {
		if c.Status == party.StatusDead || c.Status == party.StatusAshes {
			out = append(out, c)
		}
	}
	return out
}

// MenuItems enumerates the temple's services.
func (s *TempleService) MenuItems() []MenuItem {
	hasFallen := s.HasParty() && len(s.fallen()) > 0
	return []MenuItem{
		{
			ID:          ActionResurrect,
			Label:       "Resurrect a fallen member",
			Description: "Raise the dead, for a price scaled by their level",
			Enabled:     hasFallen,
			Kind:        MenuWizard,
		},
		{
			ID:          ActionBlessing,
			Label:       "Receive a blessing",
			Description: fmt.Sprintf("A blessing for the road, %d gold", s.blessingFee),
			Enabled:     s.HasParty(),
			Kind:        MenuAction,
		},
	}
}

// CanExecute reports whether the temple offers the action.
func (s *TempleService) CanExecute(action ActionID) bool {
	switch action {
	case ActionResurrect, ActionBlessing:
		return true
	default:
		return false
	}
}

// ValidateParams checks parameter shape for temple actions.
func (s *TempleService) ValidateParams(action ActionID, params Params) error {
	switch action {
	case ActionResurrect:
		if params.Confirmed && params.CharacterID.IsZero() {
			return ErrInvalidParams(action, "confirmed resurrection requires a character")
		}
		return nil
	case ActionBlessing:
		return nil
	default:
		return ErrUnknownAction(Temple, action)
	}
}

// ActionCost returns the flat blessing fee; resurrection is priced per
// target during the confirm step.
func (s *TempleService) ActionCost(action ActionID) int {
	if action == ActionBlessing {
		return s.blessingFee
	}
	return CostUnknown
}

// CanAfford reports whether the bound party can pay for the action.
func (s *TempleService) CanAfford(action ActionID) bool {
	return affordable(s, action)
}

// ExecuteAction runs a temple action.
func (s *TempleService) ExecuteAction(action ActionID, params Params) *Result {
	if r := requireParty(s); r != nil {
		return r
	}
	switch action {
	case ActionResurrect:
		return s.resurrect(params)
	case ActionBlessing:
		return s.blessing(params)
	default:
		return resultFromError(ErrUnknownAction(Temple, action))
	}
}

// resurrect is a multi-step flow: pick a fallen member, confirm the cost,
// then commit. Every guard is re-checked on the confirmed call; no gold
// moves before all guards pass.
func (s *TempleService) resurrect(params Params) *Result {
	fallen := s.fallen()
	if len(fallen) == 0 {
		return Info("No one in the party needs resurrection.", nil)
	}

	// Step 1: no target chosen yet, offer the list of the fallen.
	if params.CharacterID.IsZero() {
		choices := make([]Choice, 0, len(fallen))
		for _, c := range fallen {
			choices = append(choices, Choice{
				ID:       c.ID.String(),
				Label:    c.Name,
				Detail:   fmt.Sprintf("%s, level %d, %d gold", c.Status, c.Level, resurrectCost(c)),
				Disabled: c.Vitality == 0,
			})
		}
		return Info("Who shall be raised?", Selection{
			Prompt:  "Choose a fallen member",
			Choices: choices,
		})
	}

	c := s.party.Member(params.CharacterID)
	if c == nil {
		return resultFromError(ErrInvalidParams(ActionResurrect, "no such party member"))
	}
	if c.Status != party.StatusDead && c.Status != party.StatusAshes {
		return Info(fmt.Sprintf("%s does not need resurrection.", c.Name), nil)
	}
	if c.Vitality <= 0 {
		// Terminal for this character: no vitality left to spend.
		return Error(fmt.Sprintf("%s's vitality is exhausted; the temple can do nothing more.", c.Name))
	}

	cost := resurrectCost(c)

	// Step 2: target chosen but not confirmed, quote the price.
	if !params.Confirmed {
		return Confirm(
			fmt.Sprintf("Raising %s will cost %d gold.", c.Name, cost),
			ConfirmData{Action: ActionResurrect, Cost: cost, CharacterID: c.ID},
		)
	}

	// Step 3: confirmed. Funds were not trusted from the confirm step.
	if !s.party.CanAfford(cost) {
		return Warning(
			fmt.Sprintf("Insufficient gold: raising %s costs %d gold.", c.Name, cost),
			ConfirmData{Action: ActionResurrect, Cost: cost, CharacterID: c.ID},
		)
	}

	c.Status = party.StatusNormal
	c.HP = 1
	c.Vitality--
	s.party.SpendGold(cost)
	RecordGoldSpent(Temple, cost)

	return OK(
		fmt.Sprintf("%s rises, weak but alive. %d gold donated.", c.Name, cost),
		ResurrectReceipt{CharacterID: c.ID, Name: c.Name, Cost: cost, VitalityLeft: c.Vitality},
	)
}

// blessing debits a flat fee and marks the party blessed.
func (s *TempleService) blessing(params Params) *Result {
	if s.party.Blessed {
		return Info("The party already carries a blessing. No charge.", nil)
	}

	if !params.Confirmed {
		return Confirm(
			fmt.Sprintf("A blessing costs %d gold.", s.blessingFee),
			ConfirmData{Action: ActionBlessing, Cost: s.blessingFee},
		)
	}

	if !s.party.CanAfford(s.blessingFee) {
		return Warning(
			fmt.Sprintf("Insufficient gold: a blessing costs %d gold.", s.blessingFee),
			ConfirmData{Action: ActionBlessing, Cost: s.blessingFee},
		)
	}

	s.party.Blessed = true
	s.party.SpendGold(s.blessingFee)
	RecordGoldSpent(Temple, s.blessingFee)

	return OK(
		fmt.Sprintf("The party is blessed. %d gold donated.", s.blessingFee),
		ConfirmData{Action: ActionBlessing, Cost: s.blessingFee},
	)
}
