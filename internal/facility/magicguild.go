// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility

import (
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/willowgate/willowgate/internal/catalog"
	"github.com/willowgate/willowgate/internal/party"
)

// Magic guild actions.
const (
	ActionBuySpellbook ActionID = "buy_spellbook"
	ActionAnalyzeItem  ActionID = "analyze_item"
	ActionListShelf    ActionID = "list_shelf"
)

// DefaultAnalysisFee is the flat fee for identifying an item.
const DefaultAnalysisFee = 100

// SpellbookReceipt is the Data payload of a successful spellbook purchase.
type SpellbookReceipt struct {
	SpellbookID string
	SpellID     party.SpellID
	Learner     string
	Cost        int
	Remaining   int
}

// AnalysisReceipt is the Data payload of a successful item analysis.
type AnalysisReceipt struct {
	CharacterID ulid.ULID
	ItemID      string
	Name        string
	Cost        int
}

// MagicGuildService sells spellbooks and identifies items.
type MagicGuildService struct {
	boundService
	shelf       *catalog.ShelfCatalog
	analysisFee int
}

// NewMagicGuild creates the magic guild service over the given shelf. A nil
// shelf opens with the default spellbook catalog; a non-positive analysisFee
// falls back to DefaultAnalysisFee.
func NewMagicGuild(shelf *catalog.ShelfCatalog, analysisFee int) *MagicGuildService {
	if shelf == nil {
		shelf = catalog.DefaultSpellbookCatalog()
	}
	if analysisFee <= 0 {
		analysisFee = DefaultAnalysisFee
	}
	return &MagicGuildService{
		boundService: boundService{id: MagicGuild},
		shelf:        shelf,
		analysisFee:  analysisFee,
	}
}

// MenuItems enumerates the magic guild's services.
func (s *MagicGuildService) MenuItems() []MenuItem {
	return []MenuItem{
		{
			ID:          ActionBuySpellbook,
			Label:       "Buy a spellbook",
			Description: "Teach a spell to a member who can bear it",
			Enabled:     s.HasParty(),
			Kind:        MenuWizard,
		},
		{
			ID:          ActionAnalyzeItem,
			Label:       "Analyze an item",
			Description: fmt.Sprintf("Identify an item's true nature, %d gold", s.analysisFee),
			Enabled:     s.HasParty(),
			Kind:        MenuWizard,
		},
		{
			ID:          ActionListShelf,
			Label:       "Browse the shelf",
			Description: "See which tomes are for sale",
			Enabled:     true,
			Kind:        MenuList,
		},
	}
}

// CanExecute reports whether the magic guild offers the action.
func (s *MagicGuildService) CanExecute(action ActionID) bool {
	switch action {
	case ActionBuySpellbook, ActionAnalyzeItem, ActionListShelf:
		return true
	default:
		return false
	}
}

// ValidateParams checks parameter shape for magic guild actions.
func (s *MagicGuildService) ValidateParams(action ActionID, params Params) error {
	switch action {
	case ActionBuySpellbook:
		if params.Confirmed && (params.CharacterID.IsZero() || params.SpellbookID == "") {
			return ErrInvalidParams(action, "confirmed purchase requires a learner and a spellbook")
		}
		return nil
	case ActionAnalyzeItem:
		if params.Confirmed && (params.CharacterID.IsZero() || params.ItemID == "") {
			return ErrInvalidParams(action, "confirmed analysis requires a member and an item")
		}
		return nil
	case ActionListShelf:
		return nil
	default:
		return ErrUnknownAction(MagicGuild, action)
	}
}

// ActionCost returns the flat analysis fee; spellbooks are priced per tome
// during the confirm step.
func (s *MagicGuildService) ActionCost(action ActionID) int {
	if action == ActionAnalyzeItem {
		return s.analysisFee
	}
	return CostUnknown
}

// CanAfford reports whether the bound party can pay for the action.
func (s *MagicGuildService) CanAfford(action ActionID) bool {
	return affordable(s, action)
}

// shelfSelection builds the selection list of spellbooks for sale.
func (s *MagicGuildService) shelfSelection() Selection {
	books := s.shelf.Books()
	choices := make([]Choice, 0, len(books))
	for _, book := range books {
		choices = append(choices, Choice{
			ID:       book.ID,
			Label:    book.Name,
			Detail:   fmt.Sprintf("%d gold, requires level %d, %d in stock", book.Price, book.LevelReq, book.Stock),
			Disabled: book.Stock == 0,
		})
	}
	return Selection{Prompt: "Which tome?", Choices: choices}
}

// memberSelection builds the selection list of living members.
func (s *MagicGuildService) memberSelection(prompt string) Selection {
	living := s.party.LivingMembers()
	choices := make([]Choice, 0, len(living))
	for _, c := range living {
		choices = append(choices, Choice{
			ID:     c.ID.String(),
			Label:  c.Name,
			Detail: fmt.Sprintf("%s, level %d", c.Class, c.Level),
		})
	}
	return Selection{Prompt: prompt, Choices: choices}
}

// ExecuteAction runs a magic guild action.
func (s *MagicGuildService) ExecuteAction(action ActionID, params Params) *Result {
	switch action {
	case ActionListShelf:
		return Info("The librarian gestures at the shelf.", s.shelfSelection())
	case ActionBuySpellbook:
		if r := requireParty(s); r != nil {
			return r
		}
		return s.buySpellbook(params)
	case ActionAnalyzeItem:
		if r := requireParty(s); r != nil {
			return r
		}
		return s.analyzeItem(params)
	default:
		return resultFromError(ErrUnknownAction(MagicGuild, action))
	}
}

// buySpellbook is the full wizard flow: pick a learner, pick a tome, confirm
// the price, commit. Level requirement, stock, and funds are all re-checked
// on the confirmed call.
func (s *MagicGuildService) buySpellbook(params Params) *Result {
	// Step 1: pick the learner.
	if params.CharacterID.IsZero() {
		living := s.party.LivingMembers()
		if len(living) == 0 {
			return Warning("No one in the party can study.", nil)
		}
		return Info("Who will study the tome?", s.memberSelection("Choose the learner"))
	}

	learner := s.party.Member(params.CharacterID)
	if learner == nil {
		return resultFromError(ErrInvalidParams(ActionBuySpellbook, "no such party member"))
	}
	if !learner.IsAlive() {
		return Warning(fmt.Sprintf("%s is in no state to study.", learner.Name), nil)
	}

	// Step 2: pick the tome.
	if params.SpellbookID == "" {
		return Info(fmt.Sprintf("Which tome shall %s study?", learner.Name), s.shelfSelection())
	}

	book := s.shelf.Book(params.SpellbookID)
	if book == nil {
		return resultFromError(ErrInvalidParams(ActionBuySpellbook, "no such spellbook on the shelf"))
	}
	if learner.KnowsSpell(book.SpellID) {
		return Info(fmt.Sprintf("%s already knows %s.", learner.Name, book.SpellID), nil)
	}
	if learner.Level < book.LevelReq {
		return Warning(
			fmt.Sprintf("%s must reach level %d to study %s.", learner.Name, book.LevelReq, book.Name),
			nil,
		)
	}
	if book.Stock < 1 {
		return Warning(fmt.Sprintf("%s is out of stock.", book.Name), s.shelfSelection())
	}

	// Step 3: quote the price.
	if !params.Confirmed {
		return Confirm(
			fmt.Sprintf("%s costs %d gold.", book.Name, book.Price),
			ConfirmData{Action: ActionBuySpellbook, Cost: book.Price, CharacterID: learner.ID, SpellbookID: book.ID},
		)
	}

	// Step 4: confirmed. Re-check funds and stock before mutating anything.
	if !s.party.CanAfford(book.Price) {
		return Warning(
			fmt.Sprintf("Insufficient gold: %s costs %d gold.", book.Name, book.Price),
			ConfirmData{Action: ActionBuySpellbook, Cost: book.Price, CharacterID: learner.ID, SpellbookID: book.ID},
		)
	}
	if !s.shelf.TakeStock(book.ID) {
		return Warning(fmt.Sprintf("%s is out of stock.", book.Name), s.shelfSelection())
	}
	s.party.SpendGold(book.Price)
	RecordGoldSpent(MagicGuild, book.Price)
	learner.LearnSpell(book.SpellID)

	return OK(
		fmt.Sprintf("%s studies %s and learns %s. %d gold paid.", learner.Name, book.Name, book.SpellID, book.Price),
		SpellbookReceipt{
			SpellbookID: book.ID,
			SpellID:     book.SpellID,
			Learner:     learner.Name,
			Cost:        book.Price,
			Remaining:   book.Stock,
		},
	)
}

// analyzeItem identifies one unidentified item from a member's inventory for
// a flat fee.
func (s *MagicGuildService) analyzeItem(params Params) *Result {
	// Step 1: pick the member.
	if params.CharacterID.IsZero() {
		return Info("Whose belongings shall we examine?", s.memberSelection("Choose a member"))
	}

	owner := s.party.Member(params.CharacterID)
	if owner == nil {
		return resultFromError(ErrInvalidParams(ActionAnalyzeItem, "no such party member"))
	}

	// Step 2: pick the item.
	if params.ItemID == "" {
		choices := make([]Choice, 0, len(owner.Inventory))
		for _, item := range owner.Inventory {
			choices = append(choices, Choice{
				ID:       item.ID,
				Label:    item.Name,
				Disabled: item.Identified,
			})
		}
		if len(choices) == 0 {
			return Info(fmt.Sprintf("%s carries nothing to examine.", owner.Name), nil)
		}
		return Info("Which item?", Selection{Prompt: "Choose an item", Choices: choices})
	}

	item := findInventoryItem(owner, params.ItemID)
	if item == nil {
		return resultFromError(ErrInvalidParams(ActionAnalyzeItem, "no such item in inventory"))
	}
	if item.Identified {
		return Info(fmt.Sprintf("%s is already identified. No charge.", item.Name), nil)
	}

	// Step 3: quote the fee.
	if !params.Confirmed {
		return Confirm(
			fmt.Sprintf("Analyzing %s costs %d gold.", item.Name, s.analysisFee),
			ConfirmData{Action: ActionAnalyzeItem, Cost: s.analysisFee, CharacterID: owner.ID, ItemID: item.ID},
		)
	}

	// Step 4: confirmed. Re-check funds before mutating.
	if !s.party.CanAfford(s.analysisFee) {
		return Warning(
			fmt.Sprintf("Insufficient gold: analysis costs %d gold.", s.analysisFee),
			ConfirmData{Action: ActionAnalyzeItem, Cost: s.analysisFee, CharacterID: owner.ID, ItemID: item.ID},
		)
	}

	item.Identified = true
	s.party.SpendGold(s.analysisFee)
	RecordGoldSpent(MagicGuild, s.analysisFee)

	return OK(
		fmt.Sprintf("The librarian reveals the nature of %s. %d gold paid.", item.Name, s.analysisFee),
		AnalysisReceipt{CharacterID: owner.ID, ItemID: item.ID, Name: item.Name, Cost: s.analysisFee},
	)
}

// findInventoryItem returns a pointer into the owner's inventory for the
// first entry with the given ID.
func findInventoryItem(owner *party.Character, id string) *party.Item {
	for i := range owner.Inventory {
		if owner.Inventory[i].ID == id {
			return &owner.Inventory[i]
		}
	}
	return nil
}
