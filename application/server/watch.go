package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/veriai-sys/veriai-go/application"
	"github.com/veriai-sys/veriai-go/protocol"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// handleWatch streams the session's snapshots over a websocket until
// the session reaches a terminal state, the client goes away or the
// server shuts down.
func (server *VeriAIServer) handleWatch(w http.ResponseWriter, r *http.Request) {
	updates, cancel, err := server.coord.Watch(chi.URLParam(r, "session_id"))
	if err != nil {
		application.WriteError(w, http.StatusNotFound, detail(protocol.ReqSessionNotFound))
		return
	}
	defer cancel()

	upgrader := websocket.Upgrader{CheckOrigin: server.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		server.Logger().Warn(err.Error(), "address", r.RemoteAddr)
		return
	}
	defer conn.Close()

	// The reader only notices the client closing the connection.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case v, ok := <-updates:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session completed"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(v); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		case <-server.Stopped():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}

// checkOrigin accepts non-browser clients and the configured origins.
func (server *VeriAIServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || server.cors.allows(origin) || sameHost(r, origin)
}

func sameHost(r *http.Request, origin string) bool {
	for _, scheme := range []string{"http://", "https://"} {
		if origin == scheme+r.Host {
			return true
		}
	}
	return false
}
