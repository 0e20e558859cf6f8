package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/routeplanner/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			return
		}
		user := hub.Register(conn)
		go func() {
			_ = user.Listen()
			hub.Remove(user)
		}()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHubBroadcastsNotices(t *testing.T) {
	hub := NewHub(zap.NewNop())
	srv := newHubServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn1, _, _, err := ws.Dial(ctx, url)
	require.NoError(t, err)
	defer conn1.Close()
	conn2, _, _, err := ws.Dial(ctx, url)
	require.NoError(t, err)
	defer conn2.Close()

	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Notify(notify.NewNotice(notify.KindNoRoute, "No route found! Try placing markers on roads.", nil))

	for _, conn := range []net.Conn{conn1, conn2} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		msg, err := wsutil.ReadServerText(conn)
		require.NoError(t, err)

		var out struct {
			Notice notify.Notice `json:"notice"`
		}
		require.NoError(t, json.Unmarshal(msg, &out))
		assert.Equal(t, notify.KindNoRoute, out.Notice.Kind)
		assert.Equal(t, "No route found! Try placing markers on roads.", out.Notice.Message)
	}
}

func TestHubRemovesClosedUsers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	srv := newHubServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, _, err := ws.Dial(context.Background(), url)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)

	hub.Notify(notify.NewNotice(notify.KindRouteReady, "Route ready.", errors.New("unused")))
	hub.RemoveAllUser()
	assert.Equal(t, 0, hub.Count())
}

func TestHubNotifyDoesNotWaitForSlowUser(t *testing.T) {
	hub := NewHub(zap.NewNop())

	server, client := net.Pipe()
	defer client.Close()
	hub.Register(server)

	start := time.Now()
	for i := 0; i < sendBuffer+4; i++ {
		hub.Notify(notify.NewNotice(notify.KindNoRoute, "No route found! Try placing markers on roads.", nil))
	}
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 500*time.Millisecond)
	assert.Equal(t, 0, hub.Count())
}
