package models

import "gorm.io/gorm"

// Comment is append-only: there is no update or delete path.
type Comment struct {
	gorm.Model

	Content  string `gorm:"not null"`
	AuthorID uint   `gorm:"not null;index"`
	TicketID uint   `gorm:"not null;index"`

	// Relationships
	Author User   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Ticket Ticket `gorm:"foreignKey:TicketID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
