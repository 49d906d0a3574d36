package realtime_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticketflow-dev/ticketflow/internal/board"
	"github.com/ticketflow-dev/ticketflow/internal/realtime"
	"github.com/ticketflow-dev/ticketflow/internal/types"
)

// newTopicServer upgrades incoming connections and registers them on
// the hub when they send the joinProject control message.
func newTopicServer(t *testing.T, hub *realtime.Hub) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		conn := realtime.NewConn(ws)

		joined := make(map[uint]bool)
		defer func() {
			for projectID := range joined {
				hub.Leave(projectID, conn)
			}
			conn.Close()
		}()

		for {
			var control struct {
				Type      string `json:"type"`
				ProjectID uint   `json:"projectId"`
			}
			if err := ws.ReadJSON(&control); err != nil {
				return
			}
			if control.Type == "joinProject" && control.ProjectID != 0 {
				hub.Join(control.ProjectID, conn)
				joined[control.ProjectID] = true
			}
		}
	}))

	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestPublishToEmptyTopicIsNoOp(t *testing.T) {
	hub := realtime.NewHub()

	assert.NotPanics(t, func() {
		hub.Publish(42, realtime.TicketDeleted(1))
	})
	assert.Equal(t, 0, hub.Subscribers(42))
}

func TestPublishReachesOnlyTheProjectTopic(t *testing.T) {
	hub := realtime.NewHub()
	srv := newTopicServer(t, hub)

	boardA := board.New()
	subA, err := board.Subscribe(wsURL(srv), "", 1, boardA)
	require.NoError(t, err)
	defer subA.Close()

	boardB := board.New()
	subB, err := board.Subscribe(wsURL(srv), "", 2, boardB)
	require.NoError(t, err)
	defer subB.Close()

	require.Eventually(t, func() bool {
		return hub.Subscribers(1) == 1 && hub.Subscribers(2) == 1
	}, time.Second, 10*time.Millisecond)

	created := types.Ticket{ID: 5, Title: "only for project 1", Status: types.StatusTodo, ProjectID: 1}
	hub.Publish(1, realtime.TicketCreated(&created))

	require.Eventually(t, func() bool {
		return boardA.Len() == 1
	}, time.Second, 10*time.Millisecond)

	// Delivery is ordered per topic, so a second event on topic 1
	// arriving proves the first could not still be in flight for B.
	hub.Publish(1, realtime.TicketDeleted(999))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, boardB.Len(), "topic 2 must not see topic 1 events")
}

// Two clients watch the same project. A's drag applies optimistically
// on its own board; the server broadcast brings B's board to the same
// column without any refetch.
func TestDragPropagatesToSecondSubscriber(t *testing.T) {
	hub := realtime.NewHub()
	srv := newTopicServer(t, hub)

	initial := []types.Ticket{{ID: 7, Title: "T", Status: types.StatusTodo, ProjectID: 3}}

	boardA := board.New()
	boardA.Load(initial)
	boardB := board.New()
	boardB.Load(initial)

	subA, err := board.Subscribe(wsURL(srv), "", 3, boardA)
	require.NoError(t, err)
	defer subA.Close()

	subB, err := board.Subscribe(wsURL(srv), "", 3, boardB)
	require.NoError(t, err)
	defer subB.Close()

	require.Eventually(t, func() bool {
		return hub.Subscribers(3) == 2
	}, time.Second, 10*time.Millisecond)

	// The updater stands in for the HTTP round-trip: the server
	// persists, then broadcasts the populated ticket to the topic.
	drag := board.NewDrag(boardA, func(ticketID uint, status string) error {
		updated := types.Ticket{ID: ticketID, Title: "T", Status: status, ProjectID: 3}
		hub.Publish(3, realtime.TicketUpdated(&updated))
		return nil
	})

	drag.Start(7, 0, 0)
	drag.Move(0, 40)
	drag.Drop(board.ColumnTarget(types.StatusInProgress))

	got, ok := boardA.Get(7)
	require.True(t, ok)
	assert.Equal(t, types.StatusInProgress, got.Status, "A reflects the move immediately")

	require.Eventually(t, func() bool {
		tickets := boardB.Column(types.StatusInProgress)
		return len(tickets) == 1 && tickets[0].ID == 7
	}, time.Second, 10*time.Millisecond, "B must converge via the broadcast alone")

	// A receives its own echo too; applying it is idempotent.
	require.Eventually(t, func() bool {
		return boardA.Len() == 1
	}, time.Second, 10*time.Millisecond)
}

// Two simultaneous ticket mutations publish from their own request
// goroutines to the same subscriber. Conn serializes the frames, so
// every event arrives intact and the run is clean under the race
// detector.
func TestConcurrentPublishersShareOneConnection(t *testing.T) {
	hub := realtime.NewHub()
	srv := newTopicServer(t, hub)

	b := board.New()
	sub, err := board.Subscribe(wsURL(srv), "", 4, b)
	require.NoError(t, err)
	defer sub.Close()

	require.Eventually(t, func() bool {
		return hub.Subscribers(4) == 1
	}, time.Second, 10*time.Millisecond)

	const publishers = 8
	const perPublisher = 5

	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				created := types.Ticket{
					ID:        uint(p*perPublisher + i + 1),
					Title:     "concurrent",
					Status:    types.StatusTodo,
					ProjectID: 4,
				}
				hub.Publish(4, realtime.TicketCreated(&created))
			}
		}(p)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return b.Len() == publishers*perPublisher
	}, 2*time.Second, 10*time.Millisecond, "every frame must survive concurrent publishers")
	assert.Equal(t, 1, hub.Subscribers(4), "no publisher evicted the healthy connection")
}

func TestDisconnectLeavesTopic(t *testing.T) {
	hub := realtime.NewHub()
	srv := newTopicServer(t, hub)

	b := board.New()
	sub, err := board.Subscribe(wsURL(srv), "", 9, b)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.Subscribers(9) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, sub.Close())

	require.Eventually(t, func() bool {
		return hub.Subscribers(9) == 0
	}, time.Second, 10*time.Millisecond)
}
