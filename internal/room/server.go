package room

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"RoomBoard/internal/export"
	"RoomBoard/internal/geometry"
	"RoomBoard/internal/render"
	"RoomBoard/internal/state"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 8 << 20
)

// Server is the HTTP face of the relay: websocket rooms plus read-only
// listings and exports of the retained scenes.
type Server struct {
	router    chi.Router
	hub       *Hub
	log       *slog.Logger
	upgrader  websocket.Upgrader
	queueSize int

	// exportMu serializes measurement and rendering for exports.
	exportMu sync.Mutex
	measure  geometry.TextMeasurer
	renderer *render.Renderer
}

type ServerOption func(*Server)

// WithFonts measures and draws exported text with m.
func WithFonts(m *geometry.FontMeasurer) ServerOption {
	return func(s *Server) {
		if m != nil {
			s.measure = m
			s.renderer = render.New(m, s.log)
		}
	}
}

func WithQueueSize(n int) ServerOption {
	return func(s *Server) { s.queueSize = n }
}

func NewServer(hub *Hub, log *slog.Logger, opts ...ServerOption) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		hub:       hub,
		log:       log,
		queueSize: DefaultQueueSize,
		measure:   geometry.ApproxMeasurer{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Boards connect from native clients on the LAN, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.renderer = render.New(nil, log)
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/rooms", s.handleRooms)
	r.Route("/rooms/{roomID}", func(r chi.Router) {
		r.Get("/ws", s.handleWS)
		r.Get("/scene.png", s.handleScenePNG)
		r.Get("/scene.pdf", s.handleScenePDF)
	})

	s.router = r
}

// RequestLogger logs every request. The wrapped writer keeps http.Hijacker
// so websocket upgrades pass through.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", middleware.GetReqID(r.Context()),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.hub.Rooms()); err != nil {
		s.log.Warn("write room list", "err", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "room", roomID, "err", err)
		return
	}
	p := NewPeer(uuid.NewString(), s.queueSize)
	s.log.Debug("peer connected", "room", roomID, "peer", p.ID, "addr", r.RemoteAddr)

	go s.writeLoop(conn, p)
	s.readLoop(conn, p, roomID)
}

func (s *Server) readLoop(conn *websocket.Conn, p *Peer, roomID string) {
	defer func() {
		s.hub.Leave(p)
		conn.Close()
	}()
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("peer read failed", "room", roomID, "peer", p.ID, "err", err)
			}
			return
		}
		m, err := Decode(data)
		if err != nil {
			s.log.Warn("bad frame", "room", roomID, "peer", p.ID, "err", err)
			continue
		}
		s.hub.Handle(roomID, p, m, data)
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, p *Peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data := <-p.Outbound():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.log.Debug("peer write failed", "peer", p.ID, "err", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-p.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (s *Server) handleScenePNG(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, "image/png", func(buf *bytes.Buffer, roomID string, scene state.Scene) error {
		return export.PNG(buf, s.renderer, scene)
	})
}

func (s *Server) handleScenePDF(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, "application/pdf", func(buf *bytes.Buffer, roomID string, scene state.Scene) error {
		return export.PDF(buf, s.renderer, scene, roomID)
	})
}

func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, contentType string,
	write func(*bytes.Buffer, string, state.Scene) error) {
	roomID := chi.URLParam(r, "roomID")
	scene, ok := s.hub.Scene(roomID)
	if !ok {
		http.Error(w, `{"error":"no scene for room"}`, http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	s.exportMu.Lock()
	geometry.RefreshAll(scene, s.measure)
	err := write(&buf, roomID, scene)
	s.exportMu.Unlock()
	if err != nil {
		s.log.Error("export failed", "room", roomID, "type", contentType, "err", err)
		http.Error(w, `{"error":"export failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(buf.Bytes())
}
