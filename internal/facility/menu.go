// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility

// MenuKind hints how the UI should present a menu item. The core state
// machine never branches on it.
type MenuKind string

// Menu item kinds.
const (
	MenuAction MenuKind = "action" // single action, possibly with confirm step
	MenuWizard MenuKind = "wizard" // multi-step selection flow
	MenuList   MenuKind = "list"   // read-only listing
	MenuPanel  MenuKind = "panel"  // opens a sub-panel
)

// MenuItem is an immutable descriptor of one selectable service.
type MenuItem struct {
	ID          ActionID
	Label       string
	Description string
	Enabled     bool
	Kind        MenuKind
}
