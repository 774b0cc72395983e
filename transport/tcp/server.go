package tcp

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aristel/arcana-server/game/lobby"
)

const (
	// Time allowed to write one line to the peer.
	writeWait = 10 * time.Second

	// Outbound queue depth per connection. A full queue means the
	// client is not draining and the connection gets dropped.
	sendQueueSize = 64

	// Maximum accepted line length from the peer.
	maxLineSize = 4096
)

// Server accepts TCP connections and runs one lobby session per
// connection.
type Server struct {
	addr string
	reg  *lobby.Registry
	log  *zap.SugaredLogger
}

// NewServer creates a TCP server bound to the given registry.
func NewServer(addr string, reg *lobby.Registry, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{addr: addr, reg: reg, log: log}
}

// ListenAndServe listens on the configured address and serves until
// ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.log.Infow("tcp listener up", "addr", ln.Addr().String())
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is canceled. Tests pass
// their own listener to get an ephemeral port.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		netConn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handle(netConn)
	}
}

// handle owns one connection: a writer goroutine drains the outbound
// queue while this goroutine reads lines and feeds the session.
func (s *Server) handle(netConn net.Conn) {
	c := &conn{
		netConn: netConn,
		out:     make(chan string, sendQueueSize),
		closing: make(chan struct{}),
		log:     s.log,
	}
	sess := lobby.NewSession(s.reg, c, s.log)
	s.log.Infow("client connected", "conn", sess.ID(), "remote", netConn.RemoteAddr().String())

	go c.writeLoop()

	scanner := bufio.NewScanner(netConn)
	scanner.Buffer(make([]byte, 0, 256), maxLineSize)
	for scanner.Scan() {
		sess.HandleLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		s.log.Debugw("read loop ended", "conn", sess.ID(), "err", err)
	}

	sess.Close()
	c.Close()
	s.log.Infow("client disconnected", "conn", sess.ID())
}

// conn adapts a net.Conn to the room.Client interface.
type conn struct {
	netConn net.Conn
	out     chan string
	closing chan struct{}
	once    sync.Once
	log     *zap.SugaredLogger
}

// Send queues one line for delivery. It never blocks: a client that
// stopped draining its queue is closed instead.
func (c *conn) Send(line string) {
	select {
	case <-c.closing:
		return
	default:
	}
	select {
	case c.out <- line:
	default:
		c.log.Warnw("send queue full, dropping client", "remote", c.netConn.RemoteAddr().String())
		c.Close()
	}
}

// Close requests shutdown. Lines already queued (a KICKED sent just
// before the room disconnects the target, for one) are still flushed:
// the writer drains the queue before it closes the socket. Safe to
// call multiple times and from any goroutine.
func (c *conn) Close() error {
	c.once.Do(func() {
		close(c.closing)
	})
	return nil
}

func (c *conn) writeLoop() {
	defer func() {
		c.Close()
		c.netConn.Close()
	}()
	for {
		select {
		case line := <-c.out:
			if !c.write(line) {
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
					return
				}
			}
		}
	}
}

func (c *conn) write(line string) bool {
	c.netConn.SetWriteDeadline(time.Now().Add(writeWait))
	_, err := c.netConn.Write([]byte(line + "\n"))
	return err == nil
}
