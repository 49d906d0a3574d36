package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticketflow-dev/ticketflow/internal/models"
	"github.com/ticketflow-dev/ticketflow/internal/types"
)

func strPtr(s string) *string        { return &s }
func uintPtr(u uint) *uint           { return &u }
func timePtr(t time.Time) *time.Time { return &t }

func baseTicket() models.Ticket {
	assignee := uint(7)
	return models.Ticket{
		Title:       "Fix bug",
		Description: "Crashes on save",
		Priority:    types.PriorityHigh,
		Status:      types.StatusTodo,
		ProjectID:   1,
		AssigneeID:  &assignee,
		Attachments: attachmentsJSON([]string{"/uploads/a.png"}),
	}
}

func TestApplyTicketUpdateOverwritesPresentFields(t *testing.T) {
	ticket := baseTicket()

	err := applyTicketUpdate(&ticket, UpdateTicketRequest{Status: strPtr(types.StatusDone)}, false)

	require.NoError(t, err)
	assert.Equal(t, types.StatusDone, ticket.Status)
	assert.Equal(t, "Fix bug", ticket.Title, "absent fields stay untouched")
	assert.Equal(t, "Crashes on save", ticket.Description)
}

func TestApplyTicketUpdateIgnoresBlankFields(t *testing.T) {
	ticket := baseTicket()

	err := applyTicketUpdate(&ticket, UpdateTicketRequest{
		Title:       strPtr(""),
		Description: strPtr(""),
		AssigneeID:  uintPtr(0),
	}, false)

	require.NoError(t, err)
	assert.Equal(t, "Fix bug", ticket.Title, "a blank title must not clear the stored one")
	assert.Equal(t, "Crashes on save", ticket.Description)
	require.NotNil(t, ticket.AssigneeID)
	assert.Equal(t, uint(7), *ticket.AssigneeID, "a zero assignee must not unassign")
}

func TestApplyTicketUpdateBlankClearsWhenConfigured(t *testing.T) {
	ticket := baseTicket()

	err := applyTicketUpdate(&ticket, UpdateTicketRequest{
		Description: strPtr(""),
		AssigneeID:  uintPtr(0),
	}, true)

	require.NoError(t, err)
	assert.Equal(t, "", ticket.Description)
	assert.Nil(t, ticket.AssigneeID)
	assert.Equal(t, "Fix bug", ticket.Title, "absent fields stay untouched either way")
}

func TestApplyTicketUpdateReplacesAttachments(t *testing.T) {
	ticket := baseTicket()

	err := applyTicketUpdate(&ticket, UpdateTicketRequest{
		Attachments: []string{"/uploads/b.pdf", "/uploads/c.txt"},
	}, false)

	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/b.pdf", "/uploads/c.txt"}, attachmentList(ticket.Attachments))

	// Present-but-empty replaces with nothing; absent leaves it alone.
	err = applyTicketUpdate(&ticket, UpdateTicketRequest{Attachments: []string{}}, false)

	require.NoError(t, err)
	assert.Empty(t, attachmentList(ticket.Attachments))
}

func TestApplyTicketUpdateValidatesEnums(t *testing.T) {
	ticket := baseTicket()

	assert.Error(t, applyTicketUpdate(&ticket, UpdateTicketRequest{Status: strPtr("Archived")}, false))
	assert.Error(t, applyTicketUpdate(&ticket, UpdateTicketRequest{Priority: strPtr("Urgent")}, false))
	assert.Equal(t, types.StatusTodo, ticket.Status)
	assert.Equal(t, types.PriorityHigh, ticket.Priority)
}

func TestApplyTicketUpdateDates(t *testing.T) {
	ticket := baseTicket()
	due := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	err := applyTicketUpdate(&ticket, UpdateTicketRequest{DueDate: timePtr(due)}, false)

	require.NoError(t, err)
	require.NotNil(t, ticket.DueDate)
	assert.True(t, ticket.DueDate.Equal(due))

	// Zero timestamps follow the blank-field rules.
	err = applyTicketUpdate(&ticket, UpdateTicketRequest{DueDate: timePtr(time.Time{})}, false)

	require.NoError(t, err)
	require.NotNil(t, ticket.DueDate)

	err = applyTicketUpdate(&ticket, UpdateTicketRequest{DueDate: timePtr(time.Time{})}, true)

	require.NoError(t, err)
	assert.Nil(t, ticket.DueDate)
}
