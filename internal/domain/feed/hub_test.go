package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/middleware"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}

func readEvent(t *testing.T, ch <-chan []byte) Event {
	t.Helper()
	select {
	case msg := <-ch:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHubPublishLocal(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	a := &Client{UserID: uuid.New(), Send: make(chan []byte, 4)}
	b := &Client{UserID: uuid.New(), Send: make(chan []byte, 4)}
	hub.Register(a)
	hub.Register(b)
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	hub.Publish(context.Background(), "listing_created", map[string]string{"listing_id": "l1"})

	for _, c := range []*Client{a, b} {
		ev := readEvent(t, c.Send)
		if ev.Type != "listing_created" {
			t.Errorf("type = %q", ev.Type)
		}
		if !strings.Contains(string(ev.Data), `"l1"`) {
			t.Errorf("data = %s", ev.Data)
		}
	}

	hub.Unregister(a)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	if _, ok := <-a.Send; ok {
		t.Error("unregistered client channel not closed")
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	slow := &Client{UserID: uuid.New(), Send: make(chan []byte, 1)}
	hub.Register(slow)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Publish(context.Background(), "trade_completed", nil)
	hub.Publish(context.Background(), "trade_completed", nil)

	if got := len(slow.Send); got != 1 {
		t.Errorf("buffered = %d, want 1", got)
	}
}

func TestWebSocketReceivesEvents(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	id := uuid.New()
	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer good" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), id, middleware.RoleHousehold)))
		})
	}
	srv := httptest.NewServer(NewHandler(hub, nil).Routes(auth))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=good"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Publish(context.Background(), "listing_sold", map[string]float64{"amount_kg_co2": 60})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != "listing_sold" {
		t.Errorf("type = %q", ev.Type)
	}

	if _, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil); err == nil {
		t.Error("dial without token succeeded")
	} else if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
