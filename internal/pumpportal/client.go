package pumpportal

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Config configures client behavior.
type Config struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// MaxReconnectAttempts bounds consecutive failed dials before the
	// frame stream is terminated. Zero means unlimited.
	MaxReconnectAttempts int
	// HandshakeTimeout is timeout for the WebSocket handshake.
	HandshakeTimeout time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// Logger receives connection lifecycle logs. Defaults to log.Default().
	Logger *log.Logger
}

// DefaultConfig returns default client configuration.
func DefaultConfig() Config {
	return Config{
		ReconnectDelay:       1 * time.Second,
		MaxReconnectDelay:    30 * time.Second,
		MaxReconnectAttempts: 10,
		HandshakeTimeout:     15 * time.Second,
		PingInterval:         20 * time.Second,
		ReadTimeout:          60 * time.Second,
		WriteTimeout:         10 * time.Second,
	}
}

// Client owns the single WebSocket connection to the PumpPortal feed.
// It reconnects on failure with exponential backoff and delivers inbound
// frames through Frames. Exactly one reader drains the connection.
type Client struct {
	endpoint string
	config   Config
	logger   *log.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	frames chan []byte

	// onReconnect is invoked after every successful redial, before any
	// frame from the new connection is delivered. The new connection has
	// no subscriptions, so the hook is where the full re-subscribe happens.
	onReconnect   func()
	onReconnectMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup
}

// NewClient connects to the endpoint and starts the read and ping loops.
func NewClient(ctx context.Context, endpoint string, config *Config) (*Client, error) {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	c := &Client{
		endpoint: endpoint,
		config:   cfg,
		logger:   cfg.Logger,
		frames:   make(chan []byte, 1024),
		done:     make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

// connect establishes the WebSocket connection.
func (c *Client) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	return nil
}

// OnReconnect registers a hook invoked after every successful reconnect.
// Register before frames start being consumed.
func (c *Client) OnReconnect(fn func()) {
	c.onReconnectMu.Lock()
	c.onReconnect = fn
	c.onReconnectMu.Unlock()
}

// Frames returns the inbound frame stream. The channel is closed when the
// client is closed or the reconnect budget is exhausted. Not restartable.
func (c *Client) Frames() <-chan []byte {
	return c.frames
}

// Send writes a control frame with a write deadline. Returns ErrNotConnected
// when there is no live connection or the write fails; the read loop notices
// the broken connection and reconnects.
func (c *Client) Send(frame ControlFrame) error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := c.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrNotConnected, frame.Method, err)
	}
	return nil
}

// Close closes the connection and terminates the frame stream.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil // already closed
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.wg.Wait()
	return nil
}

// readLoop reads messages and delivers them to the frame channel.
// On read error it tears down the connection and redials with backoff.
func (c *Client) readLoop() {
	defer c.wg.Done()
	defer close(c.frames)

	delay := c.config.ReconnectDelay
	failures := 0

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			switch c.redial(&delay, &failures) {
			case redialOK, redialRetry:
				continue
			case redialGiveUp:
				return
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}
			c.logger.Printf("[ws] read error: %v", err)
			c.teardown()
			continue
		}

		// Reset backoff on successful read
		delay = c.config.ReconnectDelay
		failures = 0

		select {
		case c.frames <- message:
		case <-c.done:
			return
		}
	}
}

type redialResult int

const (
	redialOK redialResult = iota
	redialRetry
	redialGiveUp
)

// redial waits out the backoff delay and attempts one reconnect.
func (c *Client) redial(delay *time.Duration, failures *int) redialResult {
	if c.config.MaxReconnectAttempts > 0 && *failures >= c.config.MaxReconnectAttempts {
		c.logger.Printf("[ws] reconnect budget exhausted after %d attempts, terminating stream", *failures)
		return redialGiveUp
	}

	select {
	case <-c.done:
		return redialGiveUp
	case <-time.After(*delay):
	}

	*failures++
	*delay = *delay * 2
	if *delay > c.config.MaxReconnectDelay {
		*delay = c.config.MaxReconnectDelay
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.config.HandshakeTimeout)
	err := c.connect(ctx)
	cancel()

	if err != nil {
		c.logger.Printf("[ws] reconnect attempt %d failed: %v", *failures, err)
		return redialRetry
	}

	c.logger.Printf("[ws] reconnected to %s", c.endpoint)

	// The new connection carries no subscriptions. Let the subscription
	// layer reset its view of the active sets and re-subscribe before
	// any frames from this connection are processed.
	c.onReconnectMu.Lock()
	hook := c.onReconnect
	c.onReconnectMu.Unlock()
	if hook != nil {
		hook()
	}

	return redialOK
}

// teardown closes and clears the current connection.
func (c *Client) teardown() {
	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (c *Client) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
				}
			}
			c.connMu.Unlock()
		}
	}
}
