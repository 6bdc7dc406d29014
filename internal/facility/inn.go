// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility

import (
	"fmt"

	"github.com/willowgate/willowgate/internal/party"
)

// Inn actions.
const (
	ActionRest ActionID = "rest"
)

// DefaultRestCost is the per-level base cost of a night's rest.
const DefaultRestCost = 10

// RestReceipt is the Data payload of a successful rest.
type RestReceipt struct {
	Cost   int
	Healed []string // names of members whose condition changed
}

// InnService heals the party for a fee scaled by its average level.
type InnService struct {
	boundService
	baseRestCost int
}

// NewInn creates the inn service. A non-positive baseRestCost falls back to
// DefaultRestCost.
func NewInn(baseRestCost int) *InnService {
	if baseRestCost <= 0 {
		baseRestCost = DefaultRestCost
	}
	return &InnService{
		boundService: boundService{id: Inn},
		baseRestCost: baseRestCost,
	}
}

// MenuItems enumerates the inn's services.
func (s *InnService) MenuItems() []MenuItem {
	enabled := s.HasParty() && len(s.party.LivingMembers()) > 0
	return []MenuItem{
		{
			ID:          ActionRest,
			Label:       "Rest for the night",
			Description: "Restore the party's health and cure minor ailments",
			Enabled:     enabled,
			Kind:        MenuAction,
		},
	}
}

// CanExecute reports whether the inn offers the action.
func (s *InnService) CanExecute(action ActionID) bool {
	return action == ActionRest
}

// ValidateParams checks parameter shape for inn actions.
func (s *InnService) ValidateParams(action ActionID, _ Params) error {
	if !s.CanExecute(action) {
		return ErrUnknownAction(Inn, action)
	}
	return nil
}

// ActionCost returns the price of a night's rest for the bound party.
func (s *InnService) ActionCost(action ActionID) int {
	if action != ActionRest || !s.HasParty() {
		return CostUnknown
	}
	return s.restCost()
}

// CanAfford reports whether the bound party can pay for the action.
func (s *InnService) CanAfford(action ActionID) bool {
	return affordable(s, action)
}

// restCost is the base cost scaled by the average level of living members,
// using integer division throughout.
func (s *InnService) restCost() int {
	return s.baseRestCost * s.party.AverageLevel()
}

// ExecuteAction runs an inn action. Rest follows the confirm-then-execute
// protocol; all preconditions are re-checked on the confirmed call.
func (s *InnService) ExecuteAction(action ActionID, params Params) *Result {
	if !s.CanExecute(action) {
		return resultFromError(ErrUnknownAction(Inn, action))
	}
	if r := requireParty(s); r != nil {
		return r
	}
	return s.rest(params)
}

func (s *InnService) rest(params Params) *Result {
	living := s.party.LivingMembers()
	if len(living) == 0 {
		return Warning("No one in the party is able to rest.", nil)
	}

	needsRest := false
	for _, c := range living {
		if !c.FullyHealed() {
			needsRest = true
			break
		}
	}
	if !needsRest {
		return Info("The party is already well rested. No charge.", nil)
	}

	cost := s.restCost()
	if !params.Confirmed {
		return Confirm(
			fmt.Sprintf("A night's rest for %d members costs %d gold.", len(living), cost),
			ConfirmData{Action: ActionRest, Cost: cost},
		)
	}

	// Confirmed: re-check funds, then heal and debit as one atomic block.
	if !s.party.CanAfford(cost) {
		return Warning(
			fmt.Sprintf("Insufficient gold: a night's rest costs %d gold.", cost),
			ConfirmData{Action: ActionRest, Cost: cost},
		)
	}

	healed := make([]string, 0, len(living))
	for _, c := range living {
		if c.FullyHealed() {
			continue
		}
		c.HP = c.MaxHP
		c.MP = c.MaxMP
		if c.Status.IsAilment() {
			c.Status = party.StatusNormal
		}
		healed = append(healed, c.Name)
	}
	s.party.SpendGold(cost)
	RecordGoldSpent(Inn, cost)

	return OK(
		fmt.Sprintf("The party rests for the night. %d gold paid.", cost),
		RestReceipt{Cost: cost, Healed: healed},
	)
}
