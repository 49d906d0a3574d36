package realtime

import "github.com/ticketflow-dev/ticketflow/internal/types"

// Event types published on a project topic. Comments deliberately have
// no event: comment threads refresh on fetch, not over the channel.
const (
	EventTicketCreated = "ticketCreated"
	EventTicketUpdated = "ticketUpdated"
	EventTicketDeleted = "ticketDeleted"
)

// Event is one broadcast message. Created/updated events carry the
// fully populated ticket; deleted events carry only the id.
type Event struct {
	Type     string        `json:"type"`
	Ticket   *types.Ticket `json:"ticket,omitempty"`
	TicketID uint          `json:"ticketId,omitempty"`
}

func TicketCreated(t *types.Ticket) Event {
	return Event{Type: EventTicketCreated, Ticket: t}
}

func TicketUpdated(t *types.Ticket) Event {
	return Event{Type: EventTicketUpdated, Ticket: t}
}

func TicketDeleted(id uint) Event {
	return Event{Type: EventTicketDeleted, TicketID: id}
}
