package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/gridscope/gridscope/internal/core"
)

// newTestConn returns a server-side websocket connection backed by a real
// dialer, so hub teardown paths that close the conn work in tests.
func newTestConn(t *testing.T) *websocket.Conn {
	t.Helper()

	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return <-conns
}

func TestHubTrySendAfterCloseAll(t *testing.T) {
	h := NewHub()
	c := &wsClient{hub: h, conn: newTestConn(t), send: make(chan wsMessage, clientSendBuf)}
	h.add(c)

	h.CloseAll()

	// The client is gone and its channel is closed; trySend must drop the
	// message instead of panicking.
	c.trySend(wsMessage{Type: "pong"})

	if got := h.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}

func TestHubConcurrentSendAndClose(t *testing.T) {
	h := NewHub()
	clients := make([]*wsClient, 4)
	for i := range clients {
		clients[i] = &wsClient{hub: h, conn: newTestConn(t), send: make(chan wsMessage, clientSendBuf)}
		h.add(clients[i])
	}

	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func(c *wsClient) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.trySend(wsMessage{Type: "game_state_update", Data: core.GameState{}})
			}
		}(c)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.remove(clients[0])
		h.CloseAll()
	}()
	wg.Wait()

	if got := h.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}
