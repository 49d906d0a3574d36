// Package board is the client-side state holder for one project's
// kanban view. It merges three inputs — the initial fetch, optimistic
// local mutations and inbound broadcast events — into a single ordered
// ticket collection. All event handling is idempotent, so duplicate or
// out-of-order delivery (including an HTTP confirmation racing the
// client's own broadcast echo) converges to the same state.
package board

import (
	"sync"

	"github.com/ticketflow-dev/ticketflow/internal/realtime"
	"github.com/ticketflow-dev/ticketflow/internal/types"
)

// Columns are the fixed board columns, in render order.
var Columns = []string{types.StatusTodo, types.StatusInProgress, types.StatusDone}

type Board struct {
	mu      sync.RWMutex
	tickets []types.Ticket
}

func New() *Board {
	return &Board{}
}

// Load replaces the board state with a full fetch result. This is the
// only way to recover events missed while disconnected.
func (b *Board) Load(tickets []types.Ticket) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tickets = make([]types.Ticket, len(tickets))
	copy(b.tickets, tickets)
}

// Apply reconciles one broadcast event into local state:
//   - ticketCreated: appended unless the id already exists (the
//     creator's own copy arrives first via the HTTP response);
//   - ticketUpdated: replaced in place; ignored when absent so a missed
//     create cannot silently reappear through an update;
//   - ticketDeleted: removed when present, no-op otherwise.
//
// Unknown event types are ignored.
func (b *Board) Apply(event realtime.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch event.Type {
	case realtime.EventTicketCreated:
		if event.Ticket == nil {
			return
		}
		if b.index(event.Ticket.ID) >= 0 {
			return
		}
		b.tickets = append(b.tickets, *event.Ticket)

	case realtime.EventTicketUpdated:
		if event.Ticket == nil {
			return
		}
		if i := b.index(event.Ticket.ID); i >= 0 {
			b.tickets[i] = *event.Ticket
		}

	case realtime.EventTicketDeleted:
		if i := b.index(event.TicketID); i >= 0 {
			b.tickets = append(b.tickets[:i], b.tickets[i+1:]...)
		}
	}
}

// SetStatus is the optimistic local mutation: the column move is
// reflected immediately, before server confirmation. It reports whether
// the ticket existed and actually changed column. There is no automatic
// revert on a failed confirmation (see Drag.Drop).
func (b *Board) SetStatus(id uint, status string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 || b.tickets[i].Status == status {
		return false
	}

	b.tickets[i].Status = status
	return true
}

func (b *Board) Get(id uint) (types.Ticket, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i := b.index(id); i >= 0 {
		return b.tickets[i], true
	}
	return types.Ticket{}, false
}

// Tickets returns a copy of the full ordered collection.
func (b *Board) Tickets() []types.Ticket {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]types.Ticket, len(b.tickets))
	copy(out, b.tickets)
	return out
}

// Column returns the tickets in one status column, preserving
// collection order.
func (b *Board) Column(status string) []types.Ticket {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []types.Ticket
	for _, t := range b.tickets {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.tickets)
}

// index must be called with the lock held.
func (b *Board) index(id uint) int {
	for i, t := range b.tickets {
		if t.ID == id {
			return i
		}
	}
	return -1
}
