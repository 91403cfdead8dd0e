package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID          string                      `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"not null" json:"name"`
	Price       float64                     `gorm:"not null" json:"price"`
	Description string                      `json:"description,omitempty"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
