// ABOUTME: Tests for the reconnecting socket client
// ABOUTME: Uses an httptest websocket server to drive open, message, and close paths

package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsServer runs handler for every websocket connection and counts upgrades.
func wsServer(t *testing.T, handler func(conn *websocket.Conn)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var connects atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connects.Add(1)
		handler(conn)
	}))
	t.Cleanup(srv.Close)
	return srv, &connects
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// fastClient shrinks the backoff so reconnect tests finish quickly.
func fastClient(resolve func() (string, error)) *Client {
	c := NewClient(resolve)
	c.floor = 10 * time.Millisecond
	c.ceiling = 50 * time.Millisecond
	return c
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestDeliversDecodedEventsAndDropsMalformed(t *testing.T) {
	ready := make(chan *websocket.Conn, 1)
	srv, _ := wsServer(t, func(conn *websocket.Conn) {
		ready <- conn
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c := fastClient(func() (string, error) { return wsURL(srv), nil })
	defer c.Close()

	events, cancel := c.Events()
	defer cancel()

	c.Connect()
	conn := <-ready

	conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"created"}`))
	conn.WriteMessage(websocket.TextMessage, []byte(`{{{not json`))
	conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"read"}`))

	first := <-events
	second := <-events
	if !strings.Contains(string(first), "created") {
		t.Errorf("expected first event, got %s", first)
	}
	if !strings.Contains(string(second), "read") {
		t.Errorf("expected malformed frame skipped, got %s", second)
	}
}

func TestConnectIsIdempotentWhileOpen(t *testing.T) {
	srv, connects := wsServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c := fastClient(func() (string, error) { return wsURL(srv), nil })
	defer c.Close()

	c.Connect()
	waitFor(t, func() bool { return c.State() == StateOpen }, "socket never opened")

	c.Connect()
	c.Connect()
	time.Sleep(50 * time.Millisecond)

	if got := connects.Load(); got != 1 {
		t.Errorf("expected a single connection, got %d", got)
	}
}

func TestReconnectsAfterUnexpectedClose(t *testing.T) {
	var first atomic.Bool
	srv, connects := wsServer(t, func(conn *websocket.Conn) {
		if first.CompareAndSwap(false, true) {
			// kill the first connection immediately
			conn.Close()
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c := fastClient(func() (string, error) { return wsURL(srv), nil })
	defer c.Close()

	c.Connect()
	waitFor(t, func() bool { return connects.Load() >= 2 }, "client never reconnected")
	waitFor(t, func() bool { return c.State() == StateOpen }, "socket never reopened")

	// the successful open reset the attempt counter
	c.mu.Lock()
	attempt := c.attempt
	c.mu.Unlock()
	if attempt != 0 {
		t.Errorf("expected backoff reset after open, attempt = %d", attempt)
	}
}

func TestMissingCredentialFailsClosedThenRetries(t *testing.T) {
	srv, connects := wsServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	var haveToken atomic.Bool
	c := fastClient(func() (string, error) {
		if !haveToken.Load() {
			return "", ErrNoCredential
		}
		return wsURL(srv), nil
	})
	defer c.Close()

	c.Connect()
	if got := connects.Load(); got != 0 {
		t.Fatalf("expected no connection without credential, got %d", got)
	}

	haveToken.Store(true)
	waitFor(t, func() bool { return connects.Load() == 1 }, "retry never connected after credential appeared")
}

func TestCloseDisablesReconnection(t *testing.T) {
	srv, connects := wsServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c := fastClient(func() (string, error) { return wsURL(srv), nil })
	c.Connect()
	waitFor(t, func() bool { return c.State() == StateOpen }, "socket never opened")

	c.Close()
	if c.State() != StateClosed {
		t.Errorf("expected StateClosed after Close, got %v", c.State())
	}

	// no retry fires after an explicit close
	time.Sleep(100 * time.Millisecond)
	if got := connects.Load(); got != 1 {
		t.Errorf("expected no reconnect after Close, got %d connections", got)
	}
}

func TestRetryAfterCloseStaysDown(t *testing.T) {
	srv, connects := wsServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c := fastClient(func() (string, error) { return wsURL(srv), nil })
	c.Connect()
	waitFor(t, func() bool { return c.State() == StateOpen }, "socket never opened")
	c.Close()

	// A failed attempt that sampled enabled before Close must not re-arm
	// the retry timer afterwards.
	c.scheduleRetry()
	time.Sleep(100 * time.Millisecond)

	if got := connects.Load(); got != 1 {
		t.Errorf("expected no reconnect after Close, got %d connections", got)
	}
	if c.State() != StateClosed {
		t.Errorf("expected StateClosed, got %v", c.State())
	}
}

func TestStateStrings(t *testing.T) {
	cases := map[State]string{
		StateIdle:       "idle",
		StateConnecting: "connecting",
		StateOpen:       "open",
		StateClosed:     "closed",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
