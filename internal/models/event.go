package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	// Date resolution only; normalized to midnight UTC on the way in.
	Date       time.Time  `gorm:"not null;index" json:"date"`
	TimeOfDay  string     `json:"time"`
	Location   string     `json:"location"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category   *Category  `json:"category,omitempty"`
	ImagePath  string     `json:"image_path"`
	Participants []User   `gorm:"many2many:rsvps;" json:"participants,omitempty"`
	// Filled by annotated queries, not a stored column.
	ParticipantCount int64     `gorm:"->;-:migration" json:"participant_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
