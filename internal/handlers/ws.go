package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/ticketflow-dev/ticketflow/internal/realtime"
	"github.com/ticketflow-dev/ticketflow/internal/types"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// controlMessage is what the client sends after connecting. The only
// control type is joinProject; there is no explicit leave — topics are
// cleaned up on disconnect.
type controlMessage struct {
	Type      string `json:"type"`
	ProjectID uint   `json:"projectId"`
}

// WebSocket upgrades the connection and serves the broadcast channel.
// Clients join one or more project topics via joinProject and then
// receive every ticket lifecycle event published on those topics until
// they disconnect. All outbound frames (welcome, pings, broadcasts)
// go through the realtime.Conn write lock.
func WebSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := realtime.NewConn(ws)

	ws.SetReadLimit(maxMessageSize)
	if err := ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logrus.Warnf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	joined := make(map[uint]bool)

	defer func() {
		for projectID := range joined {
			realtime.Default.Leave(projectID, conn)
		}
		conn.Close()
	}()

	if err := conn.WriteJSON(map[string]string{"type": "connected"}); err != nil {
		logrus.Warnf("Failed to send welcome message: %v", err)
		return
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.Ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		if err := ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		_, message, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Warnf("WebSocket error: %v", err)
			}
			break
		}

		var control controlMessage

		if err := json.Unmarshal(message, &control); err != nil {
			logrus.Debugf("Ignoring malformed control message: %v", err)
			continue
		}

		if control.Type == "joinProject" && control.ProjectID != 0 {
			realtime.Default.Join(control.ProjectID, conn)
			joined[control.ProjectID] = true
			logrus.Debugf("Client joined project topic %d", control.ProjectID)
		}
	}
}
