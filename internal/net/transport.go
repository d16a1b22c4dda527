package net

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"RoomBoard/internal/room"
)

var (
	ErrClosed    = errors.New("transport: connection closed")
	ErrQueueFull = errors.New("transport: send queue full")
)

const (
	sendQueue = 64
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

// Client is a websocket connection to a room relay. It implements
// room.Channel; inbound frames are decoded and passed to the deliver
// callback from the read goroutine.
type Client struct {
	conn    *websocket.Conn
	deliver func(room.Message)
	log     *slog.Logger

	send chan []byte
	done chan struct{}
	once sync.Once

	mu  sync.Mutex
	err error
}

// RoomURL builds the websocket endpoint of roomID on a relay at base, which
// may be host:port, an http(s) URL or a ws(s) URL.
func RoomURL(base, roomID string) (string, error) {
	if !strings.Contains(base, "://") {
		base = "ws://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse relay address %q: %w", base, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported relay scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("relay address %q has no host", base)
	}
	u.Path = "/rooms/" + url.PathEscape(roomID) + "/ws"
	return u.String(), nil
}

// Dial connects to the websocket endpoint at rawURL.
func Dial(ctx context.Context, rawURL string, deliver func(room.Message), log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}
	c := &Client{
		conn:    conn,
		deliver: deliver,
		log:     log,
		send:    make(chan []byte, sendQueue),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	go c.writeLoop()
	log.Info("connected to relay", "url", rawURL)
	return c, nil
}

// Send queues m without waiting for the network.
func (c *Client) Send(ctx context.Context, m room.Message) error {
	data, err := room.Encode(m)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrQueueFull
	}
}

func (c *Client) Close() error {
	c.shutdown(nil)
	return nil
}

// Done is closed when the connection ends for any reason.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns why the connection ended, or nil after a plain Close.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Client) shutdown(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *Client) readLoop() {
	defer c.conn.Close()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPingHandler(func(data string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		err := c.conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn("relay connection lost", "err", err)
			}
			c.shutdown(err)
			return
		}
		m, err := room.Decode(data)
		if err != nil {
			c.log.Warn("dropping bad frame", "err", err)
			continue
		}
		if c.deliver != nil {
			c.deliver(m)
		}
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.shutdown(fmt.Errorf("write: %w", err))
				c.conn.Close()
				return
			}
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			c.conn.Close()
			return
		}
	}
}
