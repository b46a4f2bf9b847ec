// internal/conn/conn_test.go
package conn

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triadgame/triad-client/internal/protocol"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestServer starts a websocket server running serve for each connection
// and returns its ws:// URL.
func newTestServer(t *testing.T, serve func(ctx context.Context, c *websocket.Conn)) string {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.CloseNow()
		serve(r.Context(), c)
	}))
	t.Cleanup(s.Close)
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func TestSendBeforeConnect(t *testing.T) {
	m := NewManager("ws://localhost:0", testLogger(), func(protocol.ServerEvent) {})

	assert.False(t, m.Ready())
	err := m.Send(context.Background(), protocol.NewSearchEvent())
	assert.ErrorIs(t, err, ErrNotConnected)

	// Disconnect before any connect is a safe no-op.
	m.Disconnect()
	m.Disconnect()
}

func TestConnectSendReceive(t *testing.T) {
	url := newTestServer(t, func(ctx context.Context, c *websocket.Conn) {
		typ, data, err := c.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			return
		}
		var ev struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &ev); err != nil || ev.Type != "search" {
			return
		}
		resp := `{"type":"search","result":true,"rooms":[{"gameId":1,"gameName":"Arena","playerCount":1,"isFull":false}]}`
		_ = c.Write(ctx, websocket.MessageText, []byte(resp))
		// Hold the connection open until the client goes away.
		_, _, _ = c.Read(ctx)
	})

	received := make(chan protocol.ServerEvent, 1)
	m := NewManager(url, testLogger(), func(ev protocol.ServerEvent) {
		received <- ev
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Connect(ctx))
	assert.True(t, m.Ready())

	require.NoError(t, m.Send(ctx, protocol.NewSearchEvent()))

	select {
	case ev := <-received:
		search, ok := ev.(*protocol.SearchServerEvent)
		require.True(t, ok, "expected *SearchServerEvent, got %T", ev)
		assert.True(t, search.OK())
		require.Len(t, search.Rooms, 1)
		assert.Equal(t, "Arena", search.Rooms[0].GameName)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for server event")
	}

	m.Disconnect()
	assert.False(t, m.Ready())
	assert.ErrorIs(t, m.Send(ctx, protocol.NewSearchEvent()), ErrNotConnected)
	m.Disconnect()
}

func TestConnectIsSingleShot(t *testing.T) {
	url := newTestServer(t, func(ctx context.Context, c *websocket.Conn) {
		_, _, _ = c.Read(ctx)
	})

	m := NewManager(url, testLogger(), func(protocol.ServerEvent) {})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, m.Connect(ctx))
	defer m.Disconnect()

	assert.ErrorIs(t, m.Connect(ctx), ErrAlreadyConnected)
}

func TestInvalidFramesAreSkipped(t *testing.T) {
	url := newTestServer(t, func(ctx context.Context, c *websocket.Conn) {
		_ = c.Write(ctx, websocket.MessageText, []byte("not json"))
		_ = c.Write(ctx, websocket.MessageText, []byte(`{"type":"teleport"}`))
		_ = c.Write(ctx, websocket.MessageText, []byte(`{"type":"start","result":true}`))
		_, _, _ = c.Read(ctx)
	})

	received := make(chan protocol.ServerEvent, 3)
	m := NewManager(url, testLogger(), func(ev protocol.ServerEvent) {
		received <- ev
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Connect(ctx))
	defer m.Disconnect()

	select {
	case ev := <-received:
		_, ok := ev.(*protocol.StartServerEvent)
		assert.True(t, ok, "only the decodable frame reaches the handler, got %T", ev)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for server event")
	}
	assert.Empty(t, received)
}

func TestReadyClearsWhenServerCloses(t *testing.T) {
	url := newTestServer(t, func(ctx context.Context, c *websocket.Conn) {
		c.Close(websocket.StatusNormalClosure, "bye")
	})

	m := NewManager(url, testLogger(), func(protocol.ServerEvent) {})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Connect(ctx))
	defer m.Disconnect()

	require.Eventually(t, func() bool { return !m.Ready() }, 5*time.Second, 10*time.Millisecond,
		"ready must clear once the server closes the channel")
}
