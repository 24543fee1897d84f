// Package wsconn provides a WebSocket client with automatic reconnection.
package wsconn

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
)

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	PingInterval   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0, // infinite
		PingInterval:   30 * time.Second,
	}
}

// Client is a reconnecting WebSocket client. Received messages are
// delivered on the Messages channel; the channel closes when the client
// gives up or Close is called.
type Client struct {
	config   Config
	state    State
	stateMu  sync.RWMutex
	messages chan []byte
	done     chan struct{}
	closed   sync.Once
}

// New creates a new WebSocket client.
func New(config Config) *Client {
	return &Client{
		config:   config,
		state:    StateDisconnected,
		messages: make(chan []byte, 100),
		done:     make(chan struct{}),
	}
}

// Connect establishes the connection and starts the read loop in the
// background. Reconnection with exponential backoff is handled internally.
func (c *Client) Connect(ctx context.Context) error {
	c.setState(StateConnecting)

	conn, err := c.dial(ctx)
	if err != nil {
		c.setState(StateDisconnected)
		return err
	}

	c.setState(StateConnected)
	go c.run(ctx, conn)
	return nil
}

// Messages returns the channel for receiving messages.
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// State returns the current connection state.
func (c *Client) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Close gracefully closes the WebSocket connection.
func (c *Client) Close() error {
	c.closed.Do(func() {
		close(c.done)
	})
	c.setState(StateDisconnected)
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, c.config.URL, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(1 << 20)
	return conn, nil
}

func (c *Client) run(ctx context.Context, conn *websocket.Conn) {
	defer close(c.messages)

	reconnects := 0
	backoff := c.config.InitialBackoff

	for {
		err := c.readLoop(ctx, conn)
		conn.Close(websocket.StatusNormalClosure, "")

		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		default:
		}
		if err == nil {
			return
		}

		// Reconnect with exponential backoff.
		reconnects++
		if c.config.MaxReconnects > 0 && reconnects > c.config.MaxReconnects {
			c.setState(StateDisconnected)
			return
		}
		c.setState(StateReconnecting)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		case <-c.done:
			return
		}

		backoff *= 2
		if backoff > c.config.MaxBackoff {
			backoff = c.config.MaxBackoff
		}

		next, dialErr := c.dial(ctx)
		if dialErr != nil {
			continue
		}
		conn = next
		backoff = c.config.InitialBackoff
		c.setState(StateConnected)
	}
}

// readLoop pumps messages until the connection breaks or the client stops.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	pingTicker := time.NewTicker(c.config.PingInterval)
	defer pingTicker.Stop()

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for {
			select {
			case <-pingTicker.C:
				pingCtx, pingCancel := context.WithTimeout(readCtx, 10*time.Second)
				_ = conn.Ping(pingCtx)
				pingCancel()
			case <-readCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-c.done:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		select {
		case c.messages <- data:
		case <-c.done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Client) setState(state State) {
	c.stateMu.Lock()
	c.state = state
	c.stateMu.Unlock()
}
