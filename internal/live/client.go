// ABOUTME: Reconnecting notification socket client
// ABOUTME: Explicit Idle/Connecting/Open/Closed machine with bounded exponential backoff

package live

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/openrental/rentctl/internal/broadcast"
	"github.com/openrental/rentctl/internal/debuglog"
)

// ErrNoCredential is returned by the URL resolver when no access token is
// available yet. The client fails closed and retries.
var ErrNoCredential = errors.New("no access credential for notification socket")

// Event is one decoded live payload. The server pushes arbitrary JSON; the
// client guarantees validity, nothing more.
type Event = json.RawMessage

// State of the socket machine.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Client maintains at most one live socket, reconnecting with bounded
// exponential backoff while enabled. Consumers subscribe through Events;
// every subscriber sees every event.
type Client struct {
	resolveURL func() (string, error)
	dialer     *websocket.Dialer
	feed       *broadcast.Broadcaster[Event]

	// backoff tuning, fixed in production and shrunk by tests
	floor   time.Duration
	growth  float64
	ceiling time.Duration

	mu      sync.Mutex
	state   State
	enabled bool
	attempt int
	conn    *websocket.Conn
	retry   *time.Timer
}

// NewClient creates a live client. resolveURL is called on every connection
// attempt so it always sees the freshest token and host.
func NewClient(resolveURL func() (string, error)) *Client {
	return &Client{
		resolveURL: resolveURL,
		dialer:     websocket.DefaultDialer,
		feed:       broadcast.New[Event](),
		floor:      ReconnectFloor,
		growth:     ReconnectGrowth,
		ceiling:    ReconnectCeiling,
	}
}

// Events subscribes to the decoded event stream.
func (c *Client) Events() (<-chan Event, func()) {
	return c.feed.Subscribe()
}

// State returns the current machine state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens the socket. It is a no-op while a socket is already open or
// connecting. A missing credential or dial construction failure schedules a
// retry instead of surfacing an error; live-feed loss is never fatal.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.state == StateOpen || c.state == StateConnecting {
		c.mu.Unlock()
		return
	}
	c.enabled = true
	c.state = StateConnecting
	c.mu.Unlock()

	target, err := c.resolveURL()
	if err != nil {
		debuglog.Warn("notification socket unavailable: %v", err)
		c.failAttempt()
		return
	}

	go c.dial(target)
}

func (c *Client) dial(target string) {
	conn, resp, err := c.dialer.Dial(target, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		debuglog.Warn("notification socket dial failed: %v", err)
		c.failAttempt()
		return
	}

	c.mu.Lock()
	if !c.enabled {
		// Close raced the dial; drop the fresh socket.
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.state = StateOpen
	c.attempt = 0 // successful open resets the backoff to its floor
	c.mu.Unlock()

	c.readLoop(conn)
}

// readLoop pumps inbound frames until the socket dies. Malformed payloads
// are dropped silently; the close path drives recovery.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if !json.Valid(data) {
			debuglog.Warn("dropping malformed live event (%d bytes)", len(data))
			continue
		}
		c.feed.Publish(Event(append([]byte(nil), data...)))
	}
	c.onClosed(conn)
}

// onClosed handles an unexpected close of the active socket.
func (c *Client) onClosed(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn != conn {
		// stale socket from a previous generation
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = nil
	c.state = StateClosed
	enabled := c.enabled
	c.mu.Unlock()

	conn.Close()
	if enabled {
		c.scheduleRetry()
	}
}

// failAttempt records a failed connection attempt and schedules the next one.
func (c *Client) failAttempt() {
	c.mu.Lock()
	c.state = StateClosed
	enabled := c.enabled
	c.mu.Unlock()

	if enabled {
		c.scheduleRetry()
	}
}

func (c *Client) scheduleRetry() {
	c.mu.Lock()
	if !c.enabled {
		// Close landed since the caller sampled enabled; stay down.
		c.mu.Unlock()
		return
	}
	d := delayIn(c.attempt, c.floor, c.growth, c.ceiling)
	c.attempt++
	if c.retry != nil {
		c.retry.Stop()
	}
	c.retry = time.AfterFunc(d, c.Connect)
	c.mu.Unlock()

	debuglog.Log("notification socket retry in %s", d)
}

// Close disables reconnection and tears down the active socket with a
// normal-closure frame.
func (c *Client) Close() {
	c.mu.Lock()
	c.enabled = false
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = StateClosed
	c.mu.Unlock()

	if conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client closed"),
			deadline,
		)
		conn.Close()
	}
}
