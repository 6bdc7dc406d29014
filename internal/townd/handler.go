// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package townd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/willowgate/willowgate/internal/facility"
	"github.com/willowgate/willowgate/internal/observability"
	"github.com/willowgate/willowgate/internal/party"
	"github.com/willowgate/willowgate/pkg/errutil"
)

// ConnectionHandler handles a single town connection.
type ConnectionHandler struct {
	conn     net.Conn
	reader   *bufio.Reader
	townName string
	session  *Session
	metrics  *observability.Metrics
	connID   ulid.ULID
	quitting bool
}

// NewConnectionHandler creates a new handler. metrics may be nil.
func NewConnectionHandler(conn net.Conn, townName string, session *Session, metrics *observability.Metrics) *ConnectionHandler {
	return &ConnectionHandler{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		townName: townName,
		session:  session,
		metrics:  metrics,
		connID:   ulid.Make(),
	}
}

// Handle processes the connection until closed.
func (h *ConnectionHandler) Handle(ctx context.Context) {
	defer func() {
		if err := h.session.Registry.Close(); err != nil {
			slog.Warn("failed to close registry on disconnect",
				"conn_id", h.connID.String(),
				"error", err,
			)
		}
		if err := h.conn.Close(); err != nil {
			slog.Debug("error closing connection", "error", err)
		}
	}()

	h.send(fmt.Sprintf("Welcome to %s!", h.townName))
	h.send("Type 'help' for commands.")

	lineCh := make(chan string)
	// Buffered so the reader goroutine can exit even when Handle has
	// already returned.
	errCh := make(chan error, 1)

	go func() {
		for {
			line, err := h.reader.ReadString('\n')
			if err != nil {
				errCh <- err
				return
			}
			lineCh <- strings.TrimSpace(line)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case err := <-errCh:
			if !errors.Is(err, io.EOF) {
				slog.Debug("connection read error",
					"conn_id", h.connID.String(),
					"error", err,
				)
			}
			return

		case line := <-lineCh:
			h.processLine(ctx, line)
			if h.quitting {
				return
			}
		}
	}
}

func parseCommand(line string) (cmd, arg string) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	cmd = strings.ToLower(parts[0])
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}

func (h *ConnectionHandler) processLine(ctx context.Context, line string) {
	cmd, arg := parseCommand(line)

	switch cmd {
	case "help":
		h.handleHelp()
	case "look":
		h.handleLook()
	case "enter":
		h.handleEnter(ctx, arg)
	case "menu":
		h.handleMenu()
	case "do":
		h.handleDo(ctx, arg)
	case "leave":
		h.handleLeave()
	case "party":
		h.handleParty()
	case "quit":
		h.handleQuit()
	default:
		if cmd != "" {
			h.send("Unknown command: " + cmd)
		}
	}
}

func (h *ConnectionHandler) handleHelp() {
	h.send("Commands:")
	h.send("  look                     - survey the town or the current facility")
	h.send("  enter <facility>         - step into a facility")
	h.send("  menu                     - list the facility's services")
	h.send("  do <action> [args] [yes] - use a service; 'yes' confirms a priced one")
	h.send("  leave                    - step back into the street")
	h.send("  party                    - show the party roster")
	h.send("  quit                     - leave town")
	h.send("Args: member=<name> item=<id> book=<id> qty=<n> class=<class> name=<text>")
}

func (h *ConnectionHandler) handleLook() {
	reg := h.session.Registry

	if id, ok := reg.CurrentFacility(); ok {
		h.send(fmt.Sprintf("You are inside the %s.", id.String()))
		h.send("Type 'menu' to see services, 'leave' to step out.")
		return
	}

	h.send(h.townName + " town square. Facilities:")
	for _, id := range reg.FacilityIDs() {
		h.send("  " + id.String())
	}
	h.send("Type 'enter <facility>' to visit one.")
}

func (h *ConnectionHandler) handleEnter(ctx context.Context, arg string) {
	if arg == "" {
		h.send("Enter where? Try 'look'.")
		return
	}

	id := facility.ID(strings.ToLower(arg))
	if err := h.session.Registry.EnterFacility(ctx, id, h.session.Party); err != nil {
		errutil.LogError(slog.Default(), "facility entry failed", err)
		h.recordCommand("enter", "error")
		h.send(facility.PlayerMessage(err))
		return
	}
	h.recordCommand("enter", "ok")
	h.send(fmt.Sprintf("You enter the %s.", id.String()))
	h.handleMenu()
}

func (h *ConnectionHandler) handleMenu() {
	ctrl, ok := h.currentController()
	if !ok {
		return
	}

	items := ctrl.MenuItems()
	if len(items) == 0 {
		h.send("Nothing on offer.")
		return
	}
	h.send("Services:")
	for _, item := range items {
		line := fmt.Sprintf("  %-14s %s", item.ID.String(), item.Label)
		if item.Description != "" {
			line += " - " + item.Description
		}
		if !item.Enabled {
			line += " (unavailable)"
		}
		h.send(line)
	}
}

func (h *ConnectionHandler) handleDo(ctx context.Context, arg string) {
	ctrl, ok := h.currentController()
	if !ok {
		return
	}
	if arg == "" {
		h.send("Do what? Try 'menu'.")
		return
	}

	fields := strings.SplitN(arg, " ", 2)
	action := facility.ActionID(strings.ToLower(fields[0]))
	rest := ""
	if len(fields) == 2 {
		rest = fields[1]
	}

	params, err := h.parseParams(rest)
	if err != nil {
		h.recordCommand("do", "error")
		h.send(err.Error())
		return
	}

	res := ctrl.ExecuteService(ctx, action, params)
	h.recordCommand("do", res.Kind.String())
	h.sendResult(res)
}

func (h *ConnectionHandler) handleLeave() {
	reg := h.session.Registry
	if _, ok := reg.CurrentFacility(); !ok {
		h.send("You are already outside.")
		return
	}
	if err := reg.ExitCurrentFacility(); err != nil {
		h.recordCommand("leave", "error")
		h.send(facility.PlayerMessage(err))
		return
	}
	h.recordCommand("leave", "ok")
	h.send("You step back into the street.")
}

func (h *ConnectionHandler) handleParty() {
	p := h.session.Party
	blessed := ""
	if p.Blessed {
		blessed = " (blessed)"
	}
	h.send(fmt.Sprintf("%s - %d gold%s", p.Name, p.Gold, blessed))
	if len(p.Members) == 0 {
		h.send("  No members. Visit the guild to recruit.")
		return
	}
	for _, m := range p.Members {
		h.send(fmt.Sprintf("  %-16s Lv%-3d %-8s HP %d/%d MP %d/%d [%s]",
			m.Name, m.Level, m.Class.String(), m.HP, m.MaxHP, m.MP, m.MaxMP, m.Status.String()))
	}
}

func (h *ConnectionHandler) handleQuit() {
	h.send("Farewell, traveler!")
	h.quitting = true
}

// currentController resolves the controller of the active facility, telling
// the player to enter one first when outside.
func (h *ConnectionHandler) currentController() (*facility.Controller, bool) {
	reg := h.session.Registry
	id, ok := reg.CurrentFacility()
	if !ok {
		h.send("You are not inside a facility. Try 'enter <facility>'.")
		return nil, false
	}
	ctrl, err := reg.Controller(id)
	if err != nil {
		h.send(facility.PlayerMessage(err))
		return nil, false
	}
	return ctrl, true
}

var classNames = map[string]party.Class{
	"fighter": party.ClassFighter,
	"mage":    party.ClassMage,
	"priest":  party.ClassPriest,
	"thief":   party.ClassThief,
	"samurai": party.ClassSamurai,
	"lord":    party.ClassLord,
}

// parseParams turns "member=Alia item=torch qty=2 yes" into facility params.
// A name= argument consumes the rest of the line so names may contain spaces.
func (h *ConnectionHandler) parseParams(arg string) (facility.Params, error) {
	var params facility.Params

	if idx := strings.Index(arg, "name="); idx >= 0 {
		params.NewName = strings.TrimSpace(arg[idx+len("name="):])
		arg = strings.TrimSpace(arg[:idx])
	}

	for _, tok := range strings.Fields(arg) {
		if strings.EqualFold(tok, "yes") {
			params.Confirmed = true
			continue
		}

		key, value, found := strings.Cut(tok, "=")
		if !found {
			return params, fmt.Errorf("unrecognized argument %q", tok)
		}
		switch strings.ToLower(key) {
		case "member":
			member := h.memberByName(value)
			if member == nil {
				return params, fmt.Errorf("no party member named %q", value)
			}
			params.CharacterID = member.ID
		case "item":
			params.ItemID = value
		case "book":
			params.SpellbookID = value
		case "qty":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return params, fmt.Errorf("qty must be a positive number, got %q", value)
			}
			params.Quantity = n
		case "class":
			class, ok := classNames[strings.ToLower(value)]
			if !ok {
				return params, fmt.Errorf("unknown class %q", value)
			}
			params.Class = class
		default:
			return params, fmt.Errorf("unrecognized argument %q", tok)
		}
	}
	return params, nil
}

func (h *ConnectionHandler) memberByName(name string) *party.Character {
	for _, m := range h.session.Party.Members {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// sendResult renders a facility result as protocol lines.
func (h *ConnectionHandler) sendResult(res *facility.Result) {
	if res.Message != "" {
		h.send(res.Message)
	}

	switch data := res.Data.(type) {
	case facility.Selection:
		if data.Prompt != "" {
			h.send(data.Prompt)
		}
		for _, choice := range data.Choices {
			line := "  " + choice.Label
			if choice.Detail != "" {
				line += " - " + choice.Detail
			}
			if choice.Disabled {
				line += " (unavailable)"
			}
			h.send(line)
		}
	case facility.ConfirmData:
		// Success results may carry ConfirmData as a receipt; only prompt
		// when the action is actually awaiting confirmation.
		if res.NeedsConfirmation() {
			if data.Cost > 0 {
				h.send(fmt.Sprintf("This will cost %d gold.", data.Cost))
			}
			h.send("Repeat the command with 'yes' to confirm.")
		}
	}

	for _, w := range res.Warnings {
		h.send("! " + w)
	}
	for _, e := range res.Errors {
		h.send("!! " + e)
	}
}

func (h *ConnectionHandler) recordCommand(verb, status string) {
	if h.metrics != nil {
		h.metrics.CommandsTotal.WithLabelValues(verb, status).Inc()
	}
}

func (h *ConnectionHandler) send(msg string) {
	if _, err := fmt.Fprintln(h.conn, msg); err != nil {
		slog.Debug("failed to send message to client",
			"conn_id", h.connID.String(),
			"error", err,
		)
	}
}
