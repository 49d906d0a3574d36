package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ticketflow-dev/ticketflow/internal/models"
	"github.com/ticketflow-dev/ticketflow/internal/types"
	"gorm.io/datatypes"
)

type UpdateTicketRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	AssigneeID  *uint      `json:"assigneeId"`
	StartDate   *time.Time `json:"startDate"`
	DueDate     *time.Time `json:"dueDate"`
	Attachments []string   `json:"attachments"`
}

// applyTicketUpdate implements the partial-update semantics: a field
// that is present and non-zero overwrites the stored value; an absent
// or zero field is left untouched. Under the default rules a client
// therefore cannot blank a title or clear an assignee through this
// endpoint; allowBlank makes present-but-zero fields clear instead.
// Attachments, when present, replace the whole array (an empty array
// clears it).
func applyTicketUpdate(t *models.Ticket, req UpdateTicketRequest, allowBlank bool) error {
	setString := func(dst *string, src *string) {
		if src == nil {
			return
		}
		if *src == "" && !allowBlank {
			return
		}
		*dst = *src
	}

	setString(&t.Title, req.Title)
	setString(&t.Description, req.Description)

	if req.Priority != nil && *req.Priority != "" {
		if !types.ValidPriority(*req.Priority) {
			return fmt.Errorf("invalid priority %q", *req.Priority)
		}
		t.Priority = *req.Priority
	}

	if req.Status != nil && *req.Status != "" {
		if !types.ValidStatus(*req.Status) {
			return fmt.Errorf("invalid status %q", *req.Status)
		}
		t.Status = *req.Status
	}

	if req.AssigneeID != nil {
		if *req.AssigneeID != 0 {
			t.AssigneeID = req.AssigneeID
		} else if allowBlank {
			t.AssigneeID = nil
		}
	}

	if req.StartDate != nil {
		if !req.StartDate.IsZero() {
			t.StartDate = req.StartDate
		} else if allowBlank {
			t.StartDate = nil
		}
	}

	if req.DueDate != nil {
		if !req.DueDate.IsZero() {
			t.DueDate = req.DueDate
		} else if allowBlank {
			t.DueDate = nil
		}
	}

	if req.Attachments != nil {
		t.Attachments = attachmentsJSON(req.Attachments)
	}

	return nil
}

func attachmentsJSON(paths []string) datatypes.JSON {
	if paths == nil {
		return datatypes.JSON("[]")
	}
	encoded, err := json.Marshal(paths)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(encoded)
}

func attachmentList(raw datatypes.JSON) []string {
	paths := []string{}
	if len(raw) == 0 {
		return paths
	}
	if err := json.Unmarshal(raw, &paths); err != nil {
		return []string{}
	}
	return paths
}
