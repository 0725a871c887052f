// Package ws pushes notification events to connected browsers.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/molstud/moltrain/pkg/api/types/events"
	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/session"
)

type client struct {
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

// writePump is the only goroutine writing to the connection.
func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Gateway holds at most one live websocket per user and delivers events to it.
//
// It is the session layer's Transport: delivery is best-effort, a missing or
// slow client drops the event.
type Gateway struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
}

type Option func(*Gateway) *Gateway

func WithLogger(l *log.Logger) Option {
	return func(g *Gateway) *Gateway {
		g.logger = l
		return g
	}
}

func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(g *Gateway) *Gateway {
		g.upgrader.CheckOrigin = check
		return g
	}
}

func New(options ...Option) *Gateway {
	g := &Gateway{
		logger:  log.Default(),
		clients: map[string]*client{},
	}
	for _, opt := range options {
		g = opt(g)
	}
	return g
}

var _ session.Transport = &Gateway{}

func (g *Gateway) Send(userId string, ev domain.Event) {
	g.mu.Lock()
	c := g.clients[userId]
	g.mu.Unlock()

	if c == nil {
		return
	}

	data, err := json.Marshal(events.Compose(ev))
	if err != nil {
		g.logger.Printf("cannot marshal %s event for %s: %s", ev.Kind, userId, err)
		return
	}

	select {
	case c.send <- data:
	default:
		g.logger.Printf("client of %s cannot keep up. dropping %s event", userId, ev.Kind)
	}
}

// Connected reports whether the user has a live websocket.
func (g *Gateway) Connected(userId string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.clients[userId] != nil
}

// Handler upgrades the request to a websocket and keeps it registered until
// the client goes away.
//
// resolve extracts the authenticated userId from the request. A second
// connection of the same user replaces the first. onClose fires after the
// connection is unregistered, unless it was replaced.
func (g *Gateway) Handler(
	resolve func(echo.Context) (string, error),
	onClose func(userId string),
) echo.HandlerFunc {
	return func(c echo.Context) error {
		userId, err := resolve(c)
		if err != nil {
			return err
		}

		conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// Upgrade has already written the error response.
			return nil
		}

		cl := newClient(conn)
		g.mu.Lock()
		if old := g.clients[userId]; old != nil {
			old.close()
		}
		g.clients[userId] = cl
		g.mu.Unlock()

		// we send only; reading just detects the close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		g.mu.Lock()
		replaced := g.clients[userId] != cl
		if !replaced {
			delete(g.clients, userId)
		}
		g.mu.Unlock()
		cl.close()

		if !replaced && onClose != nil {
			onClose(userId)
		}
		return nil
	}
}
