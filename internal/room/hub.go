package room

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"RoomBoard/internal/state"
)

const DefaultQueueSize = 64

// Peer is one relay connection. Outbound frames are queued on send and
// written by the connection's writer goroutine.
type Peer struct {
	ID string

	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewPeer(id string, queueSize int) *Peer {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Peer{ID: id, send: make(chan []byte, queueSize), done: make(chan struct{})}
}

// Outbound yields frames to write.
func (p *Peer) Outbound() <-chan []byte { return p.send }

// Done is closed once the peer has been dropped.
func (p *Peer) Done() <-chan struct{} { return p.done }

func (p *Peer) Close() {
	p.once.Do(func() { close(p.done) })
}

// enqueue never blocks; false means the peer is gone or too slow.
func (p *Peer) enqueue(data []byte) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.send <- data:
		return true
	default:
		return false
	}
}

type roomState struct {
	peers   map[*Peer]bool
	scene   state.Scene
	frame   []byte
	updated time.Time
}

// RoomInfo summarizes a room for listings.
type RoomInfo struct {
	RoomID    string    `json:"roomId"`
	Members   int       `json:"members"`
	Shapes    int       `json:"shapes"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Hub tracks room membership and the latest scene of every room. It is
// safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*roomState
	peers map[*Peer]string
	log   *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		rooms: make(map[string]*roomState),
		peers: make(map[*Peer]string),
		log:   log,
	}
}

// Handle processes one decoded frame from p, which connected to roomID.
// Frames naming a different room are ignored.
func (h *Hub) Handle(roomID string, p *Peer, m Message, raw []byte) {
	if m.RoomID != roomID {
		h.log.Warn("room mismatch", "peer", p.ID, "want", roomID, "got", m.RoomID)
		return
	}
	switch m.Type {
	case TypeJoin:
		h.join(roomID, p, raw)
	case TypeSceneUpdate:
		h.update(roomID, p, m.Shapes, raw)
	}
}

// join registers p, echoes the join back as confirmation, replays the
// latest scene and announces p to everyone else.
func (h *Hub) join(roomID string, p *Peer, raw []byte) {
	h.mu.Lock()
	rs := h.room(roomID)
	rs.peers[p] = true
	h.peers[p] = roomID
	replay := rs.frame
	members := len(rs.peers)
	h.mu.Unlock()

	p.enqueue(raw)
	if replay != nil {
		p.enqueue(replay)
	}
	h.Broadcast(roomID, raw, p)
	h.log.Info("peer joined", "room", roomID, "peer", p.ID, "members", members)
}

func (h *Hub) update(roomID string, p *Peer, scene state.Scene, raw []byte) {
	h.mu.Lock()
	if h.peers[p] != roomID {
		h.mu.Unlock()
		h.log.Warn("scene update before join", "room", roomID, "peer", p.ID)
		return
	}
	rs := h.room(roomID)
	rs.scene = scene.Clone()
	rs.frame = raw
	rs.updated = time.Now()
	h.mu.Unlock()

	h.Broadcast(roomID, raw, p)
	h.log.Debug("scene relayed", "room", roomID, "from", p.ID, "shapes", len(scene))
}

// Broadcast queues data for every member of roomID except exclude. Members
// whose queue is full are dropped.
func (h *Hub) Broadcast(roomID string, data []byte, exclude *Peer) {
	h.mu.RLock()
	var slow []*Peer
	if rs, ok := h.rooms[roomID]; ok {
		for p := range rs.peers {
			if p != exclude && !p.enqueue(data) {
				slow = append(slow, p)
			}
		}
	}
	h.mu.RUnlock()

	for _, p := range slow {
		h.log.Warn("dropping slow peer", "room", roomID, "peer", p.ID)
		h.Leave(p)
	}
}

// Leave removes p from its room and closes it. Empty rooms keep their
// scene so the board survives until someone rejoins.
func (h *Hub) Leave(p *Peer) {
	h.mu.Lock()
	roomID, ok := h.peers[p]
	if ok {
		delete(h.peers, p)
		delete(h.rooms[roomID].peers, p)
	}
	h.mu.Unlock()
	p.Close()
	if ok {
		h.log.Info("peer left", "room", roomID, "peer", p.ID)
	}
}

// Scene returns a copy of the latest scene of roomID.
func (h *Hub) Scene(roomID string) (state.Scene, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rs, ok := h.rooms[roomID]
	if !ok || rs.frame == nil {
		return nil, false
	}
	return rs.scene.Clone(), true
}

func (h *Hub) Rooms() []RoomInfo {
	h.mu.RLock()
	out := make([]RoomInfo, 0, len(h.rooms))
	for id, rs := range h.rooms {
		out = append(out, RoomInfo{RoomID: id, Members: len(rs.peers), Shapes: len(rs.scene), UpdatedAt: rs.updated})
	}
	h.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out
}

// Close drops every peer.
func (h *Hub) Close() {
	h.mu.Lock()
	peers := make([]*Peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()
	for _, p := range peers {
		h.Leave(p)
	}
}

// room returns the state of roomID, creating it. Callers hold h.mu.
func (h *Hub) room(roomID string) *roomState {
	rs, ok := h.rooms[roomID]
	if !ok {
		rs = &roomState{peers: make(map[*Peer]bool)}
		h.rooms[roomID] = rs
	}
	return rs
}
