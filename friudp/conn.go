package friudp

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openlbr/go-fri/fri"
	"github.com/openlbr/go-fri/internal/util"
	"github.com/openlbr/go-fri/logger"
)

// maxDatagramSize is the receive buffer size; generous for the largest
// monitor message with full IO sections.
const maxDatagramSize = 65535

// Connection is the UDP transport of a cyclic FRI connection, implementing
// the fri.Transport interface. It exchanges datagrams with exactly one
// peer: either a remote host fixed at open time or the sender of the first
// received datagram.
type Connection struct {
	cfg    *ConnectionConfig
	logger logger.Logger

	mu          sync.Mutex // guards remote
	sock        *net.UDPConn
	remote      *net.UDPAddr
	remoteFixed bool

	opened  atomic.Bool
	recvBuf []byte
}

// ensure Connection implements the fri.Transport interface.
var _ fri.Transport = (*Connection)(nil)

// NewConnection creates a new UDP Connection with the given configuration.
func NewConnection(cfg *ConnectionConfig) (*Connection, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	return &Connection{
		cfg:     cfg,
		logger:  cfg.Logger(),
		recvBuf: make([]byte, maxDatagramSize),
	}, nil
}

// Open binds the local UDP port. An empty remoteHost binds for an incoming
// peer and learns the remote address from the first received datagram;
// otherwise the remote host is fixed up front, using the same port number
// on both sides.
func (c *Connection) Open(port int, remoteHost string) error {
	if !c.opened.CompareAndSwap(false, true) {
		return fri.ErrConnOpened
	}

	sock, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		c.opened.Store(false)
		return fmt.Errorf("failed to bind UDP port %d: %w", port, err)
	}
	c.sock = sock

	c.mu.Lock()
	c.remote = nil
	c.remoteFixed = false
	c.mu.Unlock()

	if remoteHost != "" {
		raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(remoteHost, strconv.Itoa(port)))
		if err != nil {
			_ = sock.Close()
			c.opened.Store(false)

			return fmt.Errorf("failed to resolve remote host %q: %w", remoteHost, err)
		}

		c.mu.Lock()
		c.remote = raddr
		c.remoteFixed = true
		c.mu.Unlock()
	}

	c.logger.Info("transport opened", "port", port, "remoteHost", remoteHost)

	return nil
}

// Close closes the UDP socket. It is idempotent; a pending Receive returns
// fri.ErrConnClosed immediately instead of waiting for its timeout.
func (c *Connection) Close() error {
	if !c.opened.CompareAndSwap(true, false) {
		return nil
	}

	err := c.sock.Close()
	c.logger.Info("transport closed")

	return err
}

// LocalAddr returns the bound local address, or nil when the connection is
// not open. Useful for diagnostics and for tests binding an ephemeral port.
func (c *Connection) LocalAddr() net.Addr {
	if !c.opened.Load() {
		return nil
	}

	return c.sock.LocalAddr()
}

// Receive waits up to timeout for one datagram from the peer. It returns
// fri.ErrReceiveTimeout when no datagram arrived in time and
// fri.ErrConnClosed when the connection is closed.
func (c *Connection) Receive(timeout time.Duration) ([]byte, error) {
	if !c.opened.Load() {
		return nil, fri.ErrConnClosed
	}

	if err := c.sock.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}

	n, addr, err := c.sock.ReadFromUDP(c.recvBuf)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, fri.ErrConnClosed
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fri.ErrReceiveTimeout
		}

		return nil, fmt.Errorf("receive failed: %w", err)
	}

	c.mu.Lock()
	if !c.remoteFixed {
		if c.remote == nil {
			c.logger.Info("peer learned from incoming datagram", "peer", addr)
		}
		c.remote = addr
	}
	c.mu.Unlock()

	// the receive buffer is reused across cycles
	return util.CloneSlice(c.recvBuf[:n], 0), nil
}

// Send transmits one datagram to the peer. It returns fri.ErrPeerUnknown
// before the peer address is known and fri.ErrConnClosed when the
// connection is closed.
func (c *Connection) Send(data []byte) error {
	if !c.opened.Load() {
		return fri.ErrConnClosed
	}

	c.mu.Lock()
	remote := c.remote
	c.mu.Unlock()

	if remote == nil {
		return fri.ErrPeerUnknown
	}

	if _, err := c.sock.WriteToUDP(data, remote); err != nil {
		if errors.Is(err, net.ErrClosed) {
			return fri.ErrConnClosed
		}

		return fmt.Errorf("send failed: %w", err)
	}

	return nil
}
