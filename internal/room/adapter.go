package room

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"RoomBoard/internal/state"
)

const sendTimeout = 5 * time.Second

// Channel carries room messages to the relay. Inbound messages are handed to
// Adapter.Deliver by whoever reads the channel.
type Channel interface {
	Send(ctx context.Context, m Message) error
	Close() error
}

// Adapter binds one board to one room. Without a channel it stays silent
// and the board keeps working locally.
type Adapter struct {
	roomID   string
	clientID string
	sink     func(state.Scene)
	dispatch func(func())
	log      *slog.Logger

	mu     sync.Mutex
	ch     Channel
	joined bool
}

type AdapterOption func(*Adapter)

func WithClientID(id string) AdapterOption {
	return func(a *Adapter) {
		if id != "" {
			a.clientID = id
		}
	}
}

// WithDispatcher runs scene replacement on the goroutine that owns the
// board. The default runs it inline.
func WithDispatcher(fn func(func())) AdapterOption {
	return func(a *Adapter) {
		if fn != nil {
			a.dispatch = fn
		}
	}
}

func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// NewAdapter returns an adapter for roomID that hands remote scenes to sink.
func NewAdapter(roomID string, sink func(state.Scene), opts ...AdapterOption) *Adapter {
	a := &Adapter{
		roomID:   roomID,
		clientID: state.SiteID(),
		sink:     sink,
		dispatch: func(fn func()) { fn() },
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) RoomID() string   { return a.roomID }
func (a *Adapter) ClientID() string { return a.clientID }

// Attach announces membership over ch. If the join cannot be sent the
// adapter stays local-only and the error is returned.
func (a *Adapter) Attach(ctx context.Context, ch Channel) error {
	a.mu.Lock()
	old := a.ch
	a.ch = ch
	a.joined = false
	a.mu.Unlock()
	if old != nil && old != ch {
		old.Close()
	}

	if err := ch.Send(ctx, Join(a.roomID, a.clientID)); err != nil {
		a.log.Warn("join failed, staying local", "room", a.roomID, "err", err)
		a.drop(ch)
		return err
	}
	a.log.Info("joining room", "room", a.roomID, "client", a.clientID)
	return nil
}

// Detach closes the channel and returns to local-only mode.
func (a *Adapter) Detach() {
	a.mu.Lock()
	ch := a.ch
	a.mu.Unlock()
	if ch != nil {
		a.drop(ch)
	}
}

// Connected reports whether a channel is attached.
func (a *Adapter) Connected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ch != nil
}

// Joined reports whether the relay has confirmed the join.
func (a *Adapter) Joined() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.joined
}

// Publish broadcasts a committed scene. It never fails from the caller's
// point of view; a broken channel is dropped and the board goes local-only.
func (a *Adapter) Publish(scene state.Scene) {
	a.mu.Lock()
	ch := a.ch
	a.mu.Unlock()
	if ch == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := ch.Send(ctx, SceneUpdate(a.roomID, a.clientID, scene)); err != nil {
		a.log.Warn("publish failed, continuing locally", "room", a.roomID, "err", err)
		a.drop(ch)
		return
	}
	a.log.Debug("scene published", "room", a.roomID, "shapes", len(scene))
}

// Deliver handles one inbound message. Scene updates for this room from
// other members replace the local scene through the dispatcher.
func (a *Adapter) Deliver(m Message) {
	if m.RoomID != a.roomID {
		a.log.Debug("ignoring message for another room", "room", m.RoomID)
		return
	}
	switch m.Type {
	case TypeJoin:
		if m.Sender == a.clientID {
			a.mu.Lock()
			a.joined = true
			a.mu.Unlock()
			a.log.Info("joined room", "room", a.roomID)
			return
		}
		a.log.Info("member joined", "room", a.roomID, "member", m.Sender)
	case TypeSceneUpdate:
		if m.Sender == a.clientID {
			return
		}
		scene := m.Shapes.Clone()
		a.log.Debug("remote scene received", "room", a.roomID, "from", m.Sender, "shapes", len(scene))
		a.dispatch(func() { a.sink(scene) })
	}
}

func (a *Adapter) drop(ch Channel) {
	a.mu.Lock()
	if a.ch == ch {
		a.ch = nil
		a.joined = false
	}
	a.mu.Unlock()
	ch.Close()
}
