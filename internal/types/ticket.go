package types

import "time"

// UserSummary is the display-safe projection of a user embedded in
// populated responses (ticket assignee, comment author, project member).
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ticket is the wire representation of a ticket, shared by the HTTP
// responses, the broadcast events and the board client.
type Ticket struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    string       `json:"priority"`
	Status      string       `json:"status"`
	ProjectID   uint         `json:"projectId"`
	Assignee    *UserSummary `json:"assignee"`
	StartDate   *time.Time   `json:"startDate"`
	DueDate     *time.Time   `json:"dueDate"`
	Attachments []string     `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Comment is the wire representation of a ticket comment.
type Comment struct {
	ID        uint         `json:"id"`
	Content   string       `json:"content"`
	Author    *UserSummary `json:"author"`
	TicketID  uint         `json:"ticketId"`
	CreatedAt time.Time    `json:"createdAt"`
}
