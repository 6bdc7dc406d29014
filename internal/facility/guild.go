// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility

import (
	"fmt"

	"github.com/willowgate/willowgate/internal/party"
)

// Guild actions.
const (
	ActionRenameParty   ActionID = "rename_party"
	ActionAddMember     ActionID = "add_member"
	ActionDismissMember ActionID = "dismiss_member"
	ActionChangeClass   ActionID = "change_class"
	ActionListRoster    ActionID = "list_roster"
)

// MinClassChangeLevel is the level a member must reach before changing class.
const MinClassChangeLevel = 5

// GuildService manages the party roster. Guild services are free; none of
// them use the confirm protocol.
type GuildService struct {
	boundService
}

// NewGuild creates the guild service.
func NewGuild() *GuildService {
	return &GuildService{boundService: boundService{id: Guild}}
}

// MenuItems enumerates the guild's services.
func (s *GuildService) MenuItems() []MenuItem {
	bound := s.HasParty()
	return []MenuItem{
		{
			ID:          ActionRenameParty,
			Label:       "Rename the party",
			Description: "Register a new name for the party",
			Enabled:     bound,
			Kind:        MenuAction,
		},
		{
			ID:          ActionAddMember,
			Label:       "Recruit a member",
			Description: "Add a fresh adventurer to the roster",
			Enabled:     bound && len(s.partyMembers()) < party.MaxMembers,
			Kind:        MenuWizard,
		},
		{
			ID:          ActionDismissMember,
			Label:       "Dismiss a member",
			Description: "Remove a member from the roster",
			Enabled:     bound && len(s.partyMembers()) > 0,
			Kind:        MenuWizard,
		},
		{
			ID:          ActionChangeClass,
			Label:       "Change a member's class",
			Description: fmt.Sprintf("Retrain a member of level %d or above", MinClassChangeLevel),
			Enabled:     bound,
			Kind:        MenuWizard,
		},
		{
			ID:          ActionListRoster,
			Label:       "Review the roster",
			Description: "See the current party",
			Enabled:     bound,
			Kind:        MenuList,
		},
	}
}

func (s *GuildService) partyMembers() []*party.Character {
	if s.party == nil {
		return nil
	}
	return s.party.Members
}

// CanExecute reports whether the guild offers the action.
func (s *GuildService) CanExecute(action ActionID) bool {
	switch action {
	case ActionRenameParty, ActionAddMember, ActionDismissMember, ActionChangeClass, ActionListRoster:
		return true
	default:
		return false
	}
}

// ValidateParams checks parameter shape for guild actions.
func (s *GuildService) ValidateParams(action ActionID, params Params) error {
	switch action {
	case ActionRenameParty:
		return nil
	case ActionAddMember:
		if params.NewName != "" {
			if err := party.ValidateName(params.NewName); err != nil {
				return ErrInvalidParams(action, err.Error())
			}
		}
		return nil
	case ActionDismissMember, ActionChangeClass, ActionListRoster:
		return nil
	default:
		return ErrUnknownAction(Guild, action)
	}
}

// ActionCost is zero: the guild works for free.
func (s *GuildService) ActionCost(_ ActionID) int {
	return 0
}

// CanAfford reports whether the bound party can pay for the action.
func (s *GuildService) CanAfford(action ActionID) bool {
	return affordable(s, action)
}

// rosterSelection builds the selection list of all members.
func (s *GuildService) rosterSelection(prompt string) Selection {
	members := s.party.Members
	choices := make([]Choice, 0, len(members))
	for _, c := range members {
		choices = append(choices, Choice{
			ID:     c.ID.String(),
			Label:  c.Name,
			Detail: fmt.Sprintf("%s, level %d, %s", c.Class, c.Level, c.Status),
		})
	}
	return Selection{Prompt: prompt, Choices: choices}
}

// ExecuteAction runs a guild action.
func (s *GuildService) ExecuteAction(action ActionID, params Params) *Result {
	if r := requireParty(s); r != nil {
		return r
	}
	switch action {
	case ActionRenameParty:
		return s.renameParty(params)
	case ActionAddMember:
		return s.addMember(params)
	case ActionDismissMember:
		return s.dismissMember(params)
	case ActionChangeClass:
		return s.changeClass(params)
	case ActionListRoster:
		return Info("The registrar reads out the roster.", s.rosterSelection("Current party"))
	default:
		return resultFromError(ErrUnknownAction(Guild, action))
	}
}

func (s *GuildService) renameParty(params Params) *Result {
	if params.NewName == "" {
		return Info("What shall the party be called?", nil)
	}
	old := s.party.Name
	if err := s.party.Rename(params.NewName); err != nil {
		return resultFromError(ErrInvalidParams(ActionRenameParty, err.Error()))
	}
	return OK(fmt.Sprintf("The party %q is now registered as %q.", old, s.party.Name), nil)
}

func (s *GuildService) addMember(params Params) *Result {
	if len(s.party.Members) >= party.MaxMembers {
		return Warning(fmt.Sprintf("The party is full: at most %d members.", party.MaxMembers), nil)
	}
	if params.NewName == "" {
		return Info("What is the recruit's name?", nil)
	}
	class := params.Class
	if class == "" {
		class = party.ClassFighter
	}
	c, err := party.NewCharacter(params.NewName, class, 1)
	if err != nil {
		return resultFromError(ErrInvalidParams(ActionAddMember, err.Error()))
	}
	if err := s.party.AddMember(c); err != nil {
		return Warning(fmt.Sprintf("The party is full: at most %d members.", party.MaxMembers), nil)
	}
	return OK(fmt.Sprintf("%s the %s joins the party.", c.Name, c.Class), s.rosterSelection("Current party"))
}

func (s *GuildService) dismissMember(params Params) *Result {
	if len(s.party.Members) == 0 {
		return Info("The roster is empty.", nil)
	}
	if params.CharacterID.IsZero() {
		return Info("Who shall be dismissed?", s.rosterSelection("Choose a member"))
	}
	c := s.party.Member(params.CharacterID)
	if c == nil {
		return resultFromError(ErrInvalidParams(ActionDismissMember, "no such party member"))
	}
	s.party.RemoveMember(c.ID)
	return OK(fmt.Sprintf("%s leaves the party.", c.Name), s.rosterSelection("Current party"))
}

func (s *GuildService) changeClass(params Params) *Result {
	if params.CharacterID.IsZero() {
		return Info("Who shall be retrained?", s.rosterSelection("Choose a member"))
	}
	c := s.party.Member(params.CharacterID)
	if c == nil {
		return resultFromError(ErrInvalidParams(ActionChangeClass, "no such party member"))
	}
	if c.Level < MinClassChangeLevel {
		return Warning(
			fmt.Sprintf("%s must reach level %d before changing class.", c.Name, MinClassChangeLevel),
			nil,
		)
	}
	if params.Class == "" {
		return Info(fmt.Sprintf("What shall %s become?", c.Name), nil)
	}
	if params.Class == c.Class {
		return Info(fmt.Sprintf("%s is already a %s.", c.Name, c.Class), nil)
	}
	old := c.Class
	c.Class = params.Class
	return OK(fmt.Sprintf("%s the %s is now a %s.", c.Name, old, c.Class), nil)
}
