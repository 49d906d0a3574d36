package board

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/ticketflow-dev/ticketflow/internal/realtime"
)

// Subscriber feeds a project topic's broadcast events into a Board. It
// joins the topic immediately after connecting, before anything is
// rendered from the board.
type Subscriber struct {
	conn *websocket.Conn
	done chan struct{}
}

// Subscribe dials the server's websocket endpoint, sends the
// joinProject control message and starts applying inbound events to the
// board until the connection closes. Events missed while disconnected
// are gone; call Board.Load with a fresh fetch after resubscribing.
func Subscribe(wsURL, token string, projectID uint, b *Board) (*Subscriber, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		return nil, err
	}

	join := map[string]interface{}{"type": "joinProject", "projectId": projectID}

	if err := conn.WriteJSON(join); err != nil {
		conn.Close()
		return nil, err
	}

	s := &Subscriber{conn: conn, done: make(chan struct{})}

	go func() {
		defer close(s.done)

		for {
			var event realtime.Event

			if err := conn.ReadJSON(&event); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logrus.Warnf("Subscription for project %d closed: %v", projectID, err)
				}
				return
			}

			b.Apply(event)
		}
	}()

	return s, nil
}

// Done is closed when the read loop exits.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

func (s *Subscriber) Close() error {
	return s.conn.Close()
}
