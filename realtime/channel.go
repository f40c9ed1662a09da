// Package realtime maintains the push channel to the backend: a single
// explicitly-connected websocket whose server-issued session identifier
// (SID) is used to correlate it with the authenticated HTTP session.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Common errors for channel operations.
var (
	ErrAlreadyConnected = errors.New("channel already connected")
	ErrNotConnected     = errors.New("channel not connected")
)

// Config holds channel configuration. The transport is websocket only;
// there is no fallback to polling.
type Config struct {
	// Addr is the backend base address (ws://, wss://, http:// or
	// https://; HTTP schemes are rewritten to their websocket
	// equivalents).
	Addr string

	// Path of the websocket endpoint. Default: /ws
	Path string

	// ReconnectAttempts bounds automatic reconnection after an
	// established connection drops. Default: 5.
	ReconnectAttempts int

	// HandshakeTimeout bounds each dial. Default: 10 seconds.
	HandshakeTimeout time.Duration

	// ReconnectWait is the pause between reconnection attempts.
	// Default: 2 seconds.
	ReconnectWait time.Duration
}

func (c *Config) applyDefaults() {
	if c.Path == "" {
		c.Path = "/ws"
	}
	if c.ReconnectAttempts <= 0 {
		c.ReconnectAttempts = 5
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.ReconnectWait <= 0 {
		c.ReconnectWait = 2 * time.Second
	}
}

// State is the channel connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// helloFrame is the first message the server sends on every connection.
type helloFrame struct {
	SID string `json:"sid"`
}

// Channel is a reconnecting duplex channel. It is not connected at
// construction; the caller sequences Connect after authentication. Each
// successful (re)connect issues a fresh SID and fires the OnConnect
// callback so the caller can re-register it with the backend. After the
// bounded reconnection attempts are exhausted the channel stays
// disconnected until an explicit Connect.
type Channel struct {
	cfg Config
	log *zap.Logger

	onConnect func(sid string)
	onMessage func(data []byte)
	onDown    func(attempts int)

	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn
	sid     string
	state   State
	gen     int
}

// ChannelOption is a functional option for configuring a Channel.
type ChannelOption func(*Channel)

// WithLogger sets the logger for channel diagnostics.
func WithLogger(log *zap.Logger) ChannelOption {
	return func(c *Channel) {
		c.log = log
	}
}

// WithOnConnect sets the callback invoked with the fresh SID after every
// successful connect and reconnect.
func WithOnConnect(fn func(sid string)) ChannelOption {
	return func(c *Channel) {
		c.onConnect = fn
	}
}

// WithOnMessage sets the callback invoked for every server-pushed message.
func WithOnMessage(fn func(data []byte)) ChannelOption {
	return func(c *Channel) {
		c.onMessage = fn
	}
}

// WithOnDown sets the callback invoked with the attempt count when
// reconnection gives up.
func WithOnDown(fn func(attempts int)) ChannelOption {
	return func(c *Channel) {
		c.onDown = fn
	}
}

// NewChannel creates a Channel. It does not connect.
func NewChannel(cfg Config, opts ...ChannelOption) (*Channel, error) {
	if cfg.Addr == "" {
		return nil, errors.New("channel address is required")
	}
	cfg.applyDefaults()

	c := &Channel{cfg: cfg, state: StateDisconnected}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c, nil
}

// wsURL rewrites HTTP schemes to websocket ones and appends the path.
func (c *Channel) wsURL() string {
	addr := strings.TrimRight(c.cfg.Addr, "/")
	switch {
	case strings.HasPrefix(addr, "https://"):
		addr = "wss://" + strings.TrimPrefix(addr, "https://")
	case strings.HasPrefix(addr, "http://"):
		addr = "ws://" + strings.TrimPrefix(addr, "http://")
	}
	return addr + c.cfg.Path
}

// dial establishes one connection and reads the hello frame carrying the
// server-issued SID.
func (c *Channel) dial(ctx context.Context) (*websocket.Conn, string, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.wsURL(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to dial %s: %w", c.wsURL(), err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.HandshakeTimeout))
	var hello helloFrame
	if err := conn.ReadJSON(&hello); err != nil {
		_ = conn.Close()
		return nil, "", fmt.Errorf("failed to read hello frame: %w", err)
	}
	if hello.SID == "" {
		_ = conn.Close()
		return nil, "", errors.New("hello frame carries no sid")
	}
	_ = conn.SetReadDeadline(time.Time{})

	return conn, hello.SID, nil
}

// Connect establishes the channel. Safe to call again after the channel
// has gone down; a no-op error is returned when already connected.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnected || c.state == StateConnecting {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.state = StateConnecting
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	conn, sid, err := c.dial(ctx)
	if err != nil {
		c.mu.Lock()
		if c.gen == gen {
			c.state = StateDisconnected
		}
		c.mu.Unlock()
		return err
	}

	c.adopt(gen, conn, sid)
	return nil
}

// adopt installs a freshly dialed connection and starts its read loop.
func (c *Channel) adopt(gen int, conn *websocket.Conn, sid string) {
	c.mu.Lock()
	if c.gen != gen {
		// Closed while dialing; discard.
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.sid = sid
	c.state = StateConnected
	c.mu.Unlock()

	c.log.Debug("channel connected", zap.String("sid", sid))
	go c.readLoop(gen, conn)
	if c.onConnect != nil {
		c.onConnect(sid)
	}
}

func (c *Channel) readLoop(gen int, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.log.Debug("channel read failed", zap.Error(err))
			c.reconnect(gen)
			return
		}
		if c.onMessage != nil {
			c.onMessage(data)
		}
	}
}

// reconnect runs the bounded reconnection loop after an established
// connection drops. On success the channel resumes with a fresh SID; on
// exhaustion it goes down until an explicit Connect.
func (c *Channel) reconnect(gen int) {
	c.mu.Lock()
	if c.gen != gen {
		// Explicitly closed; stale loop, nothing to do.
		c.mu.Unlock()
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	c.state = StateConnecting
	c.gen++
	gen = c.gen
	c.mu.Unlock()

	for attempt := 1; attempt <= c.cfg.ReconnectAttempts; attempt++ {
		time.Sleep(c.cfg.ReconnectWait)

		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.HandshakeTimeout)
		conn, sid, err := c.dial(ctx)
		cancel()
		if err == nil {
			c.adopt(gen, conn, sid)
			return
		}
		c.log.Debug("reconnect attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	c.mu.Lock()
	if c.gen == gen {
		c.state = StateDisconnected
	}
	c.mu.Unlock()

	c.log.Warn("channel down, reconnection exhausted",
		zap.Int("attempts", c.cfg.ReconnectAttempts),
	)
	if c.onDown != nil {
		c.onDown(c.cfg.ReconnectAttempts)
	}
}

// Send writes a JSON message to the backend.
func (c *Channel) Send(v any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteJSON(v); err != nil {
		return fmt.Errorf("failed to send: %w", err)
	}
	return nil
}

// SID returns the identifier issued on the most recent connect, or empty
// when the channel has never connected.
func (c *Channel) SID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sid
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close tears the channel down. Pending reconnection loops become
// no-ops; a later Connect starts fresh.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.state = StateDisconnected
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
