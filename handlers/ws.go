package handlers

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"badminton-community-system/logging"
	"badminton-community-system/services"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsReadLimit  = 512
)

var errSendBufferFull = errors.New("send buffer full")

// SetupWebSocketRoutes mounts the push endpoint. The session token rides in
// the query string because browsers cannot set headers on a WebSocket
// handshake.
func SetupWebSocketRoutes(app *fiber.App, router *services.NotificationRouter, sessions *services.SessionService, sendBuffer int) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		userID, err := sessions.Verify(c.Query("token"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired session token",
			})
		}
		c.Locals("user_id", userID)
		return c.Next()
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(string)

		client := newWSClient(conn, sendBuffer)
		router.Register(userID, client)
		defer func() {
			router.Unregister(userID, client)
			client.shutdown()
		}()

		go client.writePump()
		client.readPump()
	}))
}

// wsClient adapts one websocket connection to the router's Conn interface.
// Pushes land in a buffered channel; the write pump owns the socket.
type wsClient struct {
	conn *websocket.Conn
	send chan services.Envelope

	done      chan struct{}
	closeOnce sync.Once
}

func newWSClient(conn *websocket.Conn, sendBuffer int) *wsClient {
	if sendBuffer <= 0 {
		sendBuffer = 32
	}
	return &wsClient{
		conn: conn,
		send: make(chan services.Envelope, sendBuffer),
		done: make(chan struct{}),
	}
}

// Push enqueues without blocking. A closed client or a full buffer is a
// delivery failure; the router logs and counts it.
func (c *wsClient) Push(env services.Envelope) error {
	select {
	case <-c.done:
		return errors.New("connection closed")
	default:
	}

	select {
	case c.send <- env:
		return nil
	case <-c.done:
		return errors.New("connection closed")
	default:
		return errSendBufferFull
	}
}

func (c *wsClient) Alive() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

func (c *wsClient) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

// writePump drains the send queue onto the socket and keeps the connection
// alive with pings. Any write error tears the connection down; the read pump
// notices and the handler unregisters.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
		c.conn.Close()
	}()

	for {
		select {
		case env := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}

// readPump services control frames and detects disconnect. Clients only
// listen on this socket; inbound data frames are discarded.
func (c *wsClient) readPump() {
	defer c.shutdown()

	c.conn.SetReadLimit(wsReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.L().Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}
