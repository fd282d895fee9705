// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pcinterface

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bridgeServer emulates a WebSocket serial bridge: it answers each query
// with the reply split over two binary messages, preceded by a text banner.
func bridgeServer(t *testing.T, frame []byte, wantAuth string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantAuth != "" {
			user, pass, ok := r.BasicAuth()
			if !ok || user+":"+pass != wantAuth {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte("bridge ready"))
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if !bytes.Equal(data, QueryCommand) {
				continue
			}
			conn.WriteMessage(websocket.BinaryMessage, frame[:12])
			conn.WriteMessage(websocket.BinaryMessage, frame[12:])
		}
	}))
}

func wsURLFor(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWebSocketLink_Query(t *testing.T) {
	frame := sampleFrame()
	server := bridgeServer(t, frame, "")
	defer server.Close()

	link, err := OpenWebSocket(wsURLFor(server), "", "", false, 200*time.Millisecond)
	require.NoError(t, err)
	c := NewClient(link, time.Second)
	defer c.Close()

	got, err := c.Query(context.Background())
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}

func TestWebSocketLink_BasicAuth(t *testing.T) {
	server := bridgeServer(t, sampleFrame(), "admin:secret")
	defer server.Close()

	_, err := OpenWebSocket(wsURLFor(server), "admin", "wrong", false, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	link, err := OpenWebSocket(wsURLFor(server), "admin", "secret", false, time.Second)
	require.NoError(t, err)
	link.Close()
}

func TestWebSocketLink_ReadTimeoutKeepsConnection(t *testing.T) {
	frame := sampleFrame()
	server := bridgeServer(t, frame, "")
	defer server.Close()

	link, err := OpenWebSocket(wsURLFor(server), "", "", false, 50*time.Millisecond)
	require.NoError(t, err)
	defer link.Close()

	// Nothing queried yet, so the read times out quietly
	n, err := link.Read(make([]byte, 32))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := NewClient(link, time.Second).Query(context.Background())
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}

func TestWebSocketLink_OverlongReplyDiscarded(t *testing.T) {
	frame := sampleFrame()
	reply := append(append([]byte{}, frame...), bytes.Repeat([]byte{0xEE}, 8)...)
	server := bridgeServer(t, reply, "")
	defer server.Close()

	link, err := OpenWebSocket(wsURLFor(server), "", "", false, 200*time.Millisecond)
	require.NoError(t, err)
	c := NewClient(link, time.Second)
	defer c.Close()

	for i := 0; i < 3; i++ {
		got, err := c.Query(context.Background())
		require.NoError(t, err, "query %d", i)
		assert.Equal(t, frame, got, "query %d", i)
	}
}

func TestWebSocketLink_Closed(t *testing.T) {
	server := bridgeServer(t, sampleFrame(), "")
	defer server.Close()

	link, err := OpenWebSocket(wsURLFor(server), "", "", false, time.Second)
	require.NoError(t, err)
	require.NoError(t, link.Close())

	_, err = link.Write(QueryCommand)
	assert.ErrorIs(t, err, ErrLinkClosed)
	_, err = link.Read(make([]byte, 8))
	assert.Error(t, err)
}

func TestOpenWebSocket_BadScheme(t *testing.T) {
	_, err := OpenWebSocket("http://localhost/bridge", "", "", false, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported URL scheme")
}
