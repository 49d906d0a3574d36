package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ticket belongs to exactly one project for its lifetime. Status and
// priority are always one of the enumerated values in the types package;
// status transitions are unconstrained (the board is drag-and-drop, not
// a workflow engine).
type Ticket struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	Priority    string `gorm:"not null"`
	Status      string `gorm:"not null;index"`
	ProjectID   uint   `gorm:"not null;index"`
	AssigneeID  *uint  `gorm:"index"`
	StartDate   *time.Time
	DueDate     *time.Time
	Attachments datatypes.JSON `gorm:"type:jsonb"` // ordered list of stored file paths

	// Relationships
	Project  Project   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee *User     `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Comments []Comment `gorm:"foreignKey:TicketID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
