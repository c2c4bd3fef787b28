package appointment

import (
	"context"
	"time"

	"github.com/medibook/clinic-scheduler/internal/models"
)

type Repository interface {
	// -------- Doctor --------
	GetDoctorByID(
		ctx context.Context,
		id uint,
	) (*models.Doctor, error)

	GetDoctorByUserID(
		ctx context.Context,
		userID uint,
	) (*models.Doctor, error)

	// -------- Appointment (create / conflict) --------

	// CreateAppointment checks the slot and inserts inside one transaction; a
	// taken slot returns a conflict fault. The partial unique index on
	// (doctor_id, day, time) backs the check against concurrent bookings.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (fetch, ownership-scoped) --------
	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	GetAppointmentForPatient(
		ctx context.Context,
		appointmentID uint,
		patientID uint,
	) (*models.Appointment, error)

	GetAppointmentForDoctor(
		ctx context.Context,
		appointmentID uint,
		doctorID uint,
	) (*models.Appointment, error)

	// -------- Appointment (state change) --------
	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listings --------
	ListForPatient(
		ctx context.Context,
		patientID uint,
	) ([]models.Appointment, error)

	ListForDoctor(
		ctx context.Context,
		doctorID uint,
		from *time.Time,
		to *time.Time,
	) ([]models.Appointment, error)

	ListForDoctorOnDay(
		ctx context.Context,
		doctorID uint,
		day time.Time,
	) ([]models.Appointment, error)

	ListAll(
		ctx context.Context,
	) ([]models.Appointment, error)
}
