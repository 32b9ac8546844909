package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}
	return conn
}

func TestPublishReachesClient(t *testing.T) {
	h := NewHub(8)
	defer h.Close()
	conn := dial(t, h)

	type window struct {
		Cells  int     `json:"cells"`
		Energy float64 `json:"energy"`
	}
	if err := h.Publish("window", window{Cells: 3, Energy: 12.5}); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got struct {
		Type string `json:"type"`
		Data window `json:"data"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if got.Type != "window" || got.Data.Cells != 3 || got.Data.Energy != 12.5 {
		t.Errorf("got %+v", got)
	}
}

func TestPublishWithoutClientsDoesNotBlock(t *testing.T) {
	h := NewHub(1)
	defer h.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Publish("tick", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestCloseDisconnectsClients(t *testing.T) {
	h := NewHub(8)
	conn := dial(t, h)

	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if h.Clients() != 0 {
		t.Errorf("clients after close = %d", h.Clients())
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected read error after hub close")
	}

	// Closing twice and publishing after close are no-ops.
	h.Close()
	if err := h.Publish("late", 1); err != nil {
		t.Errorf("publish after close: %v", err)
	}
}
