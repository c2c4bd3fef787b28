package dto

import (
	"time"

	"github.com/medibook/clinic-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	PatientName string    `json:"patient_name"`
}

func FromAppointment(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:          ap.ID,
		Date:        ap.AppointmentDate,
		Time:        ap.Time,
		Status:      ap.Status,
		Reason:      ap.Reason,
		PatientName: ap.Patient.Name,
	}
}
