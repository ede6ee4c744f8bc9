package domain

import "time"

type Product struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Price        float64   `gorm:"not null;index" json:"price"`
	Availability bool      `gorm:"not null" json:"availability"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ToggleAvailability flips the availability flag in place. Callers persist the row.
func (p *Product) ToggleAvailability() {
	p.Availability = !p.Availability
}
