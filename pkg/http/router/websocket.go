package router

import (
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

/*
serveWebsocket upgrades the request and registers the connection in the notice hub.
The connection is only written by the hub; a reader goroutine answers control
frames and detects the hang up.
*/
func (api *API) serveWebsocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, _, hs, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err), zap.String("remote_addr", r.RemoteAddr))
		return
	}

	api.log.Info("established websocket connection", zap.String("connection name", nameConn(conn)),
		zap.String("protocol", hs.Protocol))

	user := api.hub.Register(conn)

	go func() {
		err := user.Listen()
		if err != nil && !errors.Is(err, io.EOF) {
			api.log.Debug("websocket read error", zap.Error(err))
		}
		api.hub.Remove(user)
		api.log.Info("user disconnected from websocket server", zap.String("connection name", nameConn(conn)))
	}()
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
