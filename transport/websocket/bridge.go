package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aristel/arcana-server/game/lobby"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound queue depth per connection.
	sendQueueSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The protocol carries no credentials; any origin may play.
		return true
	},
}

// Bridge upgrades HTTP requests and attaches each socket to a lobby
// session.
type Bridge struct {
	reg *lobby.Registry
	log *zap.SugaredLogger
}

// NewBridge creates a WebSocket bridge over the registry.
func NewBridge(reg *lobby.Registry, log *zap.SugaredLogger) *Bridge {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Bridge{reg: reg, log: log}
}

// ServeHTTP implements http.Handler so the bridge can be mounted on a
// router route.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warnw("websocket upgrade failed", "err", err)
		return
	}

	c := &wsClient{
		conn:    conn,
		out:     make(chan string, sendQueueSize),
		closing: make(chan struct{}),
	}
	sess := lobby.NewSession(b.reg, c, b.log)
	b.log.Infow("websocket client connected", "conn", sess.ID(), "remote", conn.RemoteAddr().String())

	go c.writePump()
	c.readPump(sess)

	sess.Close()
	c.Close()
	b.log.Infow("websocket client disconnected", "conn", sess.ID())
}

// wsClient adapts one websocket connection to the room.Client
// interface.
type wsClient struct {
	conn    *websocket.Conn
	out     chan string
	closing chan struct{}
	once    sync.Once
}

// Send queues one line as its own text frame. Never blocks: a full
// queue drops the client.
func (c *wsClient) Send(line string) {
	select {
	case <-c.closing:
		return
	default:
	}
	select {
	case c.out <- line:
	default:
		c.Close()
	}
}

// Close requests shutdown. The write pump flushes queued frames (so a
// KICKED enqueued just before disconnect still reaches the peer) and
// then closes the socket. Safe to call multiple times.
func (c *wsClient) Close() error {
	c.once.Do(func() {
		close(c.closing)
	})
	return nil
}

// readPump feeds incoming frames to the session until the peer goes
// away. Each frame is one command line.
func (c *wsClient) readPump(sess *lobby.Session) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		sess.HandleLine(string(message))
	}
}

// writePump drains the outbound queue and keeps the connection alive
// with pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
		c.conn.Close()
	}()

	for {
		select {
		case line := <-c.out:
			if !c.write(line) {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closing:
			// Flush whatever was queued before shutdown was requested.
			for {
				select {
				case line := <-c.out:
					if !c.write(line) {
						return
					}
				default:
					c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
			}
		}
	}
}

func (c *wsClient) write(line string) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line)) == nil
}
