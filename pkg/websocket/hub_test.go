package websocket

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func startHub(t *testing.T) (*Hub, func(sessionID string) *websocket.Conn) {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	upgrader := websocket.FastHTTPUpgrader{CheckOrigin: func(*fasthttp.RequestCtx) bool { return true }}
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		id := string(ctx.QueryArgs().Peek("session"))
		_ = upgrader.Upgrade(ctx, func(ws *websocket.Conn) {
			hub.Register(id, ws)
			defer hub.Unregister(id, ws)
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		})
	}}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() { _ = ln.Close() })

	dialer := websocket.Dialer{NetDial: func(network, addr string) (net.Conn, error) { return ln.Dial() }}
	connect := func(sessionID string) *websocket.Conn {
		conn, _, err := dialer.Dial("ws://hub.test/ws?session="+sessionID, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		require.Eventually(t, func() bool { return hub.Listeners(sessionID) > 0 }, time.Second, 5*time.Millisecond)
		return conn
	}
	return hub, connect
}

func TestPublishReachesOnlyTheSession(t *testing.T) {
	hub, connect := startHub(t)

	mine := connect("s1")
	other := connect("s2")

	hub.Publish("s1", "adviceReady", map[string]string{"requestId": "r1"})

	_ = mine.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := mine.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "adviceReady", msg.Type)
	assert.Equal(t, "s1", msg.SessionID)
	assert.Equal(t, map[string]interface{}{"requestId": "r1"}, msg.Data)
	assert.NotEmpty(t, msg.Timestamp)

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestUnregisterOnDisconnect(t *testing.T) {
	hub, connect := startHub(t)

	conn := connect("s3")
	assert.Equal(t, 1, hub.Listeners("s3"))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Listeners("s3") == 0 }, time.Second, 5*time.Millisecond)
}

func TestPublishAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish("s", "adviceReady", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked after stop")
	}
}
