package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint `gorm:"not null" json:"patient_id"`
	Patient   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"patient"`

	DoctorID uint   `gorm:"not null" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor"`

	// AppointmentDate carries the UTC calendar day plus the slot's time of day;
	// Time is the authoritative slot label for conflict matching.
	AppointmentDate time.Time `gorm:"not null" json:"appointment_date"`
	Time            string    `gorm:"size:5;not null" json:"time"`

	Reason string `gorm:"size:500" json:"reason"`
	Status string `gorm:"size:20;default:'PENDING'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
