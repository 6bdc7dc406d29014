// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility

import (
	"fmt"

	"github.com/willowgate/willowgate/internal/catalog"
	"github.com/willowgate/willowgate/internal/party"
)

// Shop actions.
const (
	ActionBuyItem   ActionID = "buy_item"
	ActionListGoods ActionID = "list_goods"
)

// PurchaseReceipt is the Data payload of a successful purchase.
type PurchaseReceipt struct {
	ItemID    string
	Name      string
	Quantity  int
	Cost      int
	Remaining int // stock left after the sale
	Recipient string
}

// ShopService sells equipment from a stocked catalog.
type ShopService struct {
	boundService
	stock *catalog.Catalog
}

// NewShop creates the shop service over the given stock. A nil stock opens
// with the default catalog.
func NewShop(stock *catalog.Catalog) *ShopService {
	if stock == nil {
		stock = catalog.DefaultShopCatalog()
	}
	return &ShopService{
		boundService: boundService{id: Shop},
		stock:        stock,
	}
}

// MenuItems enumerates the shop's services.
func (s *ShopService) MenuItems() []MenuItem {
	return []MenuItem{
		{
			ID:          ActionBuyItem,
			Label:       "Buy equipment",
			Description: "Purchase weapons, armor, and tools",
			Enabled:     s.HasParty(),
			Kind:        MenuWizard,
		},
		{
			ID:          ActionListGoods,
			Label:       "Browse the shelves",
			Description: "See what is in stock",
			Enabled:     true,
			Kind:        MenuList,
		},
	}
}

// CanExecute reports whether the shop offers the action.
func (s *ShopService) CanExecute(action ActionID) bool {
	switch action {
	case ActionBuyItem, ActionListGoods:
		return true
	default:
		return false
	}
}

// ValidateParams checks parameter shape for shop actions.
func (s *ShopService) ValidateParams(action ActionID, params Params) error {
	switch action {
	case ActionBuyItem:
		if params.Quantity < 0 {
			return ErrInvalidParams(action, "quantity cannot be negative")
		}
		return nil
	case ActionListGoods:
		return nil
	default:
		return ErrUnknownAction(Shop, action)
	}
}

// ActionCost is CostUnknown for purchases: the price depends on the item
// and quantity chosen during the flow.
func (s *ShopService) ActionCost(_ ActionID) int {
	return CostUnknown
}

// CanAfford reports whether the bound party can pay for the action.
func (s *ShopService) CanAfford(action ActionID) bool {
	return affordable(s, action)
}

// goodsSelection builds the selection list of items in stock.
func (s *ShopService) goodsSelection() Selection {
	items := s.stock.Items()
	choices := make([]Choice, 0, len(items))
	for _, item := range items {
		choices = append(choices, Choice{
			ID:       item.ID,
			Label:    item.Name,
			Detail:   fmt.Sprintf("%d gold, %d in stock", item.Price, item.Stock),
			Disabled: item.Stock == 0,
		})
	}
	return Selection{Prompt: "What would you like to buy?", Choices: choices}
}

// ExecuteAction runs a shop action.
func (s *ShopService) ExecuteAction(action ActionID, params Params) *Result {
	switch action {
	case ActionListGoods:
		return Info("The shopkeeper shows you the shelves.", s.goodsSelection())
	case ActionBuyItem:
		if r := requireParty(s); r != nil {
			return r
		}
		return s.buy(params)
	default:
		return resultFromError(ErrUnknownAction(Shop, action))
	}
}

// buy is the purchase flow: pick an item, confirm price x quantity, commit.
// Stock and funds are re-checked on the confirmed call; a failed purchase
// leaves both gold and stock untouched.
func (s *ShopService) buy(params Params) *Result {
	// Step 1: no item chosen yet.
	if params.ItemID == "" {
		return Info("What would you like to buy?", s.goodsSelection())
	}

	item := s.stock.Item(params.ItemID)
	if item == nil {
		return resultFromError(ErrInvalidParams(ActionBuyItem, "no such item in stock"))
	}

	quantity := params.Quantity
	if quantity == 0 {
		quantity = 1
	}

	if quantity > item.Stock {
		return Warning(
			fmt.Sprintf("Insufficient stock: only %d of %s available.", item.Stock, item.Name),
			s.goodsSelection(),
		)
	}

	cost := item.Price * quantity

	// Step 2: quote the price.
	if !params.Confirmed {
		return Confirm(
			fmt.Sprintf("%d x %s costs %d gold.", quantity, item.Name, cost),
			ConfirmData{Action: ActionBuyItem, Cost: cost, ItemID: item.ID, Quantity: quantity},
		)
	}

	// Step 3: confirmed. Re-check funds and stock before mutating anything.
	if !s.party.CanAfford(cost) {
		return Warning(
			fmt.Sprintf("Insufficient gold: %d x %s costs %d gold.", quantity, item.Name, cost),
			ConfirmData{Action: ActionBuyItem, Cost: cost, ItemID: item.ID, Quantity: quantity},
		)
	}

	recipient := s.recipient(params)
	if recipient == nil {
		return Warning("No living member can carry the purchase.", nil)
	}

	if !s.stock.TakeStock(item.ID, quantity) {
		return Warning(
			fmt.Sprintf("Insufficient stock: only %d of %s available.", item.Stock, item.Name),
			s.goodsSelection(),
		)
	}
	s.party.SpendGold(cost)
	RecordGoldSpent(Shop, cost)
	for i := 0; i < quantity; i++ {
		recipient.Inventory = append(recipient.Inventory, party.Item{ID: item.ID, Name: item.Name, Identified: true})
	}

	return OK(
		fmt.Sprintf("%s buys %d x %s for %d gold.", recipient.Name, quantity, item.Name, cost),
		PurchaseReceipt{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  quantity,
			Cost:      cost,
			Remaining: item.Stock,
			Recipient: recipient.Name,
		},
	)
}

// recipient resolves who receives the purchase: the chosen member if any,
// otherwise the first living member.
func (s *ShopService) recipient(params Params) *party.Character {
	if !params.CharacterID.IsZero() {
		if c := s.party.Member(params.CharacterID); c != nil && c.IsAlive() {
			return c
		}
		return nil
	}
	living := s.party.LivingMembers()
	if len(living) == 0 {
		return nil
	}
	return living[0]
}
