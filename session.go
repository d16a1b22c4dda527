package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"RoomBoard/internal/board"
	rbnet "RoomBoard/internal/net"
	"RoomBoard/internal/room"
	"RoomBoard/internal/state"
	"RoomBoard/internal/ui"
)

const dialTimeout = 5 * time.Second

// session tracks the room the board is currently synced with. A board
// without a session keeps working locally.
type session struct {
	board *board.Board
	app   *ui.App
	log   *slog.Logger

	mu      sync.Mutex
	adapter *room.Adapter
}

func newSession(b *board.Board, app *ui.App, log *slog.Logger) *session {
	return &session{board: b, app: app, log: log}
}

// publish is registered as the board's commit hook.
func (s *session) publish(scene state.Scene) {
	s.mu.Lock()
	a := s.adapter
	s.mu.Unlock()
	if a != nil {
		a.Publish(scene)
	}
}

// join connects to roomID on the relay at addr, replacing any previous
// room. Remote scenes are applied on the fyne goroutine.
func (s *session) join(addr, roomID string) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	url, err := rbnet.RoomURL(addr, roomID)
	if err != nil {
		s.app.SetStatus(err.Error())
		return
	}
	adapter := room.NewAdapter(roomID, s.board.ApplyRemote,
		room.WithDispatcher(fyne.Do),
		room.WithLogger(s.log),
	)
	client, err := rbnet.Dial(ctx, url, adapter.Deliver, s.log)
	if err != nil {
		s.log.Warn("connection failed", "url", url, "error", err)
		s.app.SetStatus(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	if err := adapter.Attach(ctx, client); err != nil {
		client.Close()
		s.app.SetStatus(fmt.Sprintf("Could not join room %s: %v", roomID, err))
		return
	}

	s.mu.Lock()
	old := s.adapter
	s.adapter = adapter
	s.mu.Unlock()
	if old != nil {
		old.Detach()
	}

	s.app.SetStatus(fmt.Sprintf("In room %s at %s as %s", roomID, addr, adapter.ClientID()))
	go s.watch(adapter, client)
}

// watch returns the board to local-only mode when the connection ends.
func (s *session) watch(a *room.Adapter, c *rbnet.Client) {
	<-c.Done()
	s.mu.Lock()
	current := s.adapter == a
	if current {
		s.adapter = nil
	}
	s.mu.Unlock()
	if !current {
		return
	}

	a.Detach()
	s.log.Info("left room", "room", a.RoomID(), "error", c.Err())
	if err := c.Err(); err != nil {
		s.app.SetStatus(fmt.Sprintf("Disconnected from room %s (%v), drawing locally", a.RoomID(), err))
		return
	}
	s.app.SetStatus(fmt.Sprintf("Disconnected from room %s, drawing locally", a.RoomID()))
}

func (s *session) close() {
	s.mu.Lock()
	a := s.adapter
	s.adapter = nil
	s.mu.Unlock()
	if a != nil {
		a.Detach()
	}
}
