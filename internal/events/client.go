package events

import (
	"net/http" // Upgrade handshake
	"time"     // Clock and durations

	"github.com/gorilla/websocket" // WebSocket connections
	"github.com/sirupsen/logrus"   // Logging library
)

const (
	writeWait    = 10 * time.Second     // Deadline for a single frame write
	idleTimeout  = 60 * time.Second     // Peer must answer pings within this window
	pingInterval = idleTimeout * 9 / 10 // Ping before the read deadline expires
	maxInbound   = 512                  // Subscribers only send control frames
	sendBuffer   = 16                   // Queued events per subscriber
)

// Client is one websocket subscription owned by an authenticated user.
type Client struct {
	hub      *Hub
	username string
	conn     *websocket.Conn
	send     chan []byte
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // CORS is enforced by the router
}

// ServeWS upgrades the request and streams hub events to username until the peer goes away.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, username string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).WithField("username", username).Warn("Websocket upgrade failed")
		return
	}
	client := &Client{hub: hub, username: username, conn: conn, send: make(chan []byte, sendBuffer)}
	hub.Register(client)
	go client.forward()
	client.drain()
}

// drain discards inbound frames and keeps the read deadline moving on pongs.
// It unregisters the client once the connection fails or closes.
func (c *Client) drain() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(idleTimeout))
	}
	c.conn.SetReadLimit(maxInbound)
	_ = extend("")
	c.conn.SetPongHandler(extend)
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("username", c.username).Debug("Subscriber closed unexpectedly")
			}
			return
		}
	}
}

// forward writes queued events and pings. It stops when Unregister closes send.
func (c *Client) forward() {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, open := <-c.send:
			if !open {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(kind int, payload []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, payload)
}
