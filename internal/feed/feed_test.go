package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *Server) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func dialFeed(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPublishReachesSubscribers(t *testing.T) {
	s := NewServer("unused")
	httpSrv := httptest.NewServer(http.HandlerFunc(s.handleEvents))
	defer httpSrv.Close()

	conn := dialFeed(t, httpSrv)
	require.Eventually(t, func() bool { return s.clientCount() == 1 },
		time.Second, 10*time.Millisecond)

	s.Publish(Event{Kind: "response", Input: "explain nmap", Response: "scans hosts", Backend: "remote"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, msgType)

	var ev Event
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, "response", ev.Kind)
	assert.Equal(t, "explain nmap", ev.Input)
	assert.Equal(t, "scans hosts", ev.Response)
	assert.Equal(t, "remote", ev.Backend)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestPublishDropsClosedSubscribers(t *testing.T) {
	s := NewServer("unused")
	httpSrv := httptest.NewServer(http.HandlerFunc(s.handleEvents))
	defer httpSrv.Close()

	conn := dialFeed(t, httpSrv)
	require.Eventually(t, func() bool { return s.clientCount() == 1 },
		time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return s.clientCount() == 0 },
		time.Second, 10*time.Millisecond)

	// no subscribers left: Publish must be a no-op, not a panic
	s.Publish(Event{Kind: "transcript", Input: "hello"})
}

func TestPublishConcurrently(t *testing.T) {
	s := NewServer("unused")
	httpSrv := httptest.NewServer(http.HandlerFunc(s.handleEvents))
	defer httpSrv.Close()

	conn := dialFeed(t, httpSrv)
	require.Eventually(t, func() bool { return s.clientCount() == 1 },
		time.Second, 10*time.Millisecond)

	const publishers = 50
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Publish(Event{Kind: "transcript", Input: "overlapping trigger"})
		}()
	}
	wg.Wait()

	// every frame arrives intact; the subscriber is still connected
	for i := 0; i < publishers; i++ {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var ev Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		assert.Equal(t, "overlapping trigger", ev.Input)
	}
	assert.Equal(t, 1, s.clientCount())
}

func TestPublishFansOut(t *testing.T) {
	s := NewServer("unused")
	httpSrv := httptest.NewServer(http.HandlerFunc(s.handleEvents))
	defer httpSrv.Close()

	first := dialFeed(t, httpSrv)
	second := dialFeed(t, httpSrv)
	require.Eventually(t, func() bool { return s.clientCount() == 2 },
		time.Second, 10*time.Millisecond)

	s.Publish(Event{Kind: "transcript", Input: "find open ports"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var ev Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		assert.Equal(t, "find open ports", ev.Input)
	}
}
