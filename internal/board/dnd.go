package board

import (
	"math"

	"github.com/sirupsen/logrus"
)

// ActivationDistance is the minimum pointer travel before a press
// becomes a drag, distinguishing click-to-open from drag-to-move.
const ActivationDistance = 10.0

// UpdateFunc issues the authorized status-update request for a ticket.
type UpdateFunc func(ticketID uint, status string) error

// DropTarget is what the pointer was released over: either a column or
// another ticket card.
type DropTarget struct {
	column   string
	ticketID uint
}

func ColumnTarget(status string) DropTarget {
	return DropTarget{column: status}
}

func CardTarget(ticketID uint) DropTarget {
	return DropTarget{ticketID: ticketID}
}

// Drag translates pointer gestures into status moves on a Board. The
// optimistic mutation is applied before the confirming request; a
// failed confirmation is logged and the board keeps the optimistic
// state until the next full fetch.
type Drag struct {
	board  *Board
	update UpdateFunc

	activeID uint
	originX  float64
	originY  float64
	pressed  bool
	active   bool
}

func NewDrag(b *Board, update UpdateFunc) *Drag {
	return &Drag{board: b, update: update}
}

// Start records the pressed ticket and the pointer origin.
func (d *Drag) Start(ticketID uint, x, y float64) {
	d.activeID = ticketID
	d.originX = x
	d.originY = y
	d.pressed = true
	d.active = false
}

// Move activates the drag once the pointer has traveled past the
// activation threshold.
func (d *Drag) Move(x, y float64) {
	if !d.pressed || d.active {
		return
	}
	if math.Hypot(x-d.originX, y-d.originY) >= ActivationDistance {
		d.active = true
	}
}

// Dragging reports whether the press has crossed the activation
// threshold.
func (d *Drag) Dragging() bool {
	return d.active
}

// Drop resolves the target status and, when it differs from the dragged
// ticket's current column, applies the optimistic move and issues the
// confirming request. A release below the activation threshold is a
// click, not a move.
func (d *Drag) Drop(target DropTarget) {
	defer d.reset()

	if !d.active {
		return
	}

	ticket, ok := d.board.Get(d.activeID)
	if !ok {
		return
	}

	newStatus := ticket.Status

	if target.column != "" {
		newStatus = target.column
	} else if over, ok := d.board.Get(target.ticketID); ok {
		// Dropping on a card reassigns to that card's column, not to an
		// ordinal position within it.
		newStatus = over.Status
	}

	if newStatus == ticket.Status {
		return
	}

	d.board.SetStatus(ticket.ID, newStatus)

	if err := d.update(ticket.ID, newStatus); err != nil {
		// No rollback: the board keeps the optimistic state until the
		// next full fetch.
		logrus.Errorf("Status update for ticket %d failed: %v", ticket.ID, err)
	}
}

func (d *Drag) reset() {
	d.activeID = 0
	d.pressed = false
	d.active = false
}
