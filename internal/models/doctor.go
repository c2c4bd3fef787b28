package models

import "time"

type Doctor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Specialty  string  `gorm:"size:100" json:"specialty"`
	Experience int     `json:"experience"`
	Fee        float64 `json:"fee"`

	// Approved gates public visibility; Available gates bookability.
	Approved  bool `gorm:"default:false" json:"approved"`
	Available bool `gorm:"default:true" json:"available"`

	Photo string `gorm:"size:255" json:"photo"`
	About string `gorm:"size:1000" json:"about"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
