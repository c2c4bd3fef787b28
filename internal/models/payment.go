package models

import "time"

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint        `gorm:"uniqueIndex;not null" json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Amount        float64 `json:"amount"`
	PaymentMethod string  `gorm:"size:20" json:"payment_method"`
	PaymentStatus string  `gorm:"size:20;default:'PENDING'" json:"payment_status"`

	// Pidx is the gateway transaction handle; set only for wallet payments.
	Pidx          *string `gorm:"size:100;uniqueIndex" json:"pidx"`
	TransactionID *string `gorm:"size:100" json:"transaction_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
