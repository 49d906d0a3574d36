package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticketflow-dev/ticketflow/internal/realtime"
	"github.com/ticketflow-dev/ticketflow/internal/types"
)

func ticket(id uint, title, status string) types.Ticket {
	return types.Ticket{ID: id, Title: title, Status: status, ProjectID: 1}
}

func TestLoadReplacesState(t *testing.T) {
	b := New()
	b.Load([]types.Ticket{ticket(1, "one", types.StatusTodo)})
	b.Load([]types.Ticket{ticket(2, "two", types.StatusDone)})

	require.Equal(t, 1, b.Len())
	_, ok := b.Get(1)
	assert.False(t, ok)
	got, ok := b.Get(2)
	require.True(t, ok)
	assert.Equal(t, "two", got.Title)
}

func TestApplyCreatedIsIdempotent(t *testing.T) {
	b := New()
	created := ticket(1, "one", types.StatusTodo)

	b.Apply(realtime.TicketCreated(&created))
	b.Apply(realtime.TicketCreated(&created))

	assert.Equal(t, 1, b.Len(), "duplicate ticketCreated must leave exactly one instance")
}

func TestApplyCreatedIgnoresExistingOptimisticCopy(t *testing.T) {
	b := New()
	b.Load([]types.Ticket{ticket(1, "local copy", types.StatusTodo)})

	echoed := ticket(1, "server copy", types.StatusTodo)
	b.Apply(realtime.TicketCreated(&echoed))

	got, ok := b.Get(1)
	require.True(t, ok)
	assert.Equal(t, "local copy", got.Title, "the creator's own copy wins over the echo")
	assert.Equal(t, 1, b.Len())
}

func TestApplyUpdatedReplacesInPlace(t *testing.T) {
	b := New()
	b.Load([]types.Ticket{
		ticket(1, "one", types.StatusTodo),
		ticket(2, "two", types.StatusTodo),
	})

	updated := ticket(1, "one", types.StatusInProgress)
	b.Apply(realtime.TicketUpdated(&updated))

	tickets := b.Tickets()
	require.Len(t, tickets, 2)
	assert.Equal(t, uint(1), tickets[0].ID, "update must not reorder the collection")
	assert.Equal(t, types.StatusInProgress, tickets[0].Status)
}

func TestApplyUpdatedForUnknownTicketIsNoOp(t *testing.T) {
	b := New()

	ghost := ticket(9, "ghost", types.StatusDone)
	b.Apply(realtime.TicketUpdated(&ghost))

	assert.Equal(t, 0, b.Len(), "a missed create must not reappear via an update event")
}

func TestApplyDeletedBeforeCreateIsTolerated(t *testing.T) {
	b := New()

	// The corresponding create was dropped while disconnected.
	b.Apply(realtime.TicketDeleted(4))

	assert.Equal(t, 0, b.Len())

	b.Apply(realtime.TicketDeleted(4))

	assert.Equal(t, 0, b.Len())
}

func TestApplyDeletedRemoves(t *testing.T) {
	b := New()
	b.Load([]types.Ticket{ticket(1, "one", types.StatusTodo), ticket(2, "two", types.StatusDone)})

	b.Apply(realtime.TicketDeleted(1))

	assert.Equal(t, 1, b.Len())
	_, ok := b.Get(1)
	assert.False(t, ok)
}

func TestApplyIgnoresUnknownTypesAndNilPayloads(t *testing.T) {
	b := New()
	b.Load([]types.Ticket{ticket(1, "one", types.StatusTodo)})

	b.Apply(realtime.Event{Type: "connected"})
	b.Apply(realtime.Event{Type: realtime.EventTicketCreated})
	b.Apply(realtime.Event{Type: realtime.EventTicketUpdated})

	assert.Equal(t, 1, b.Len())
}

func TestColumnGroupsByStatus(t *testing.T) {
	b := New()
	b.Load([]types.Ticket{
		ticket(1, "one", types.StatusTodo),
		ticket(2, "two", types.StatusInProgress),
		ticket(3, "three", types.StatusTodo),
	})

	todo := b.Column(types.StatusTodo)
	require.Len(t, todo, 2)
	assert.Equal(t, uint(1), todo[0].ID)
	assert.Equal(t, uint(3), todo[1].ID)
	assert.Empty(t, b.Column(types.StatusDone))
}

func TestSetStatus(t *testing.T) {
	b := New()
	b.Load([]types.Ticket{ticket(1, "one", types.StatusTodo)})

	assert.True(t, b.SetStatus(1, types.StatusDone))
	assert.False(t, b.SetStatus(1, types.StatusDone), "same column is not a move")
	assert.False(t, b.SetStatus(99, types.StatusDone), "unknown ticket")

	got, _ := b.Get(1)
	assert.Equal(t, types.StatusDone, got.Status)
}
