// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

// Package townd provides the TCP line-protocol front end for the town.
// Each connection gets its own party and facility registry; the protocol is
// a thin rendering of facility menus and results.
package townd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/willowgate/willowgate/internal/facility"
	"github.com/willowgate/willowgate/internal/observability"
	"github.com/willowgate/willowgate/internal/party"
)

// Session holds the per-connection town state.
type Session struct {
	Registry *facility.Registry
	Party    *party.Party
}

// SessionFactory builds the state for one new connection.
type SessionFactory func() (*Session, error)

// Server is the town's TCP server.
type Server struct {
	addr       string
	townName   string
	listener   net.Listener
	newSession SessionFactory
	metrics    *observability.Metrics
	mu         sync.RWMutex
}

// NewServer creates a new town server. metrics may be nil.
func NewServer(addr, townName string, newSession SessionFactory, metrics *observability.Metrics) *Server {
	return &Server{
		addr:       addr,
		townName:   townName,
		newSession: newSession,
		metrics:    metrics,
	}
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run starts the server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	slog.Info("town server started", "addr", listener.Addr())

	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil {
			slog.Debug("error closing listener", "error", err)
		}
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				slog.Error("accept failed", "error", err)
				continue
			}
		}

		session, err := s.newSession()
		if err != nil {
			slog.Error("failed to build session", "error", err)
			_ = conn.Close()
			continue
		}
		if s.metrics != nil {
			s.metrics.ConnectionsTotal.WithLabelValues("tcp").Inc()
		}

		handler := NewConnectionHandler(conn, s.townName, session, s.metrics)
		go handler.Handle(ctx)
	}
}
