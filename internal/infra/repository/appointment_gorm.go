package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medibook/clinic-scheduler/internal/dateutil"
	domain "github.com/medibook/clinic-scheduler/internal/domain/appointment"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Doctor
// --------------------------------------------------

func (r *AppointmentGormRepository) GetDoctorByID(
	ctx context.Context,
	id uint,
) (*models.Doctor, error) {

	var doc models.Doctor
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *AppointmentGormRepository) GetDoctorByUserID(
	ctx context.Context,
	userID uint,
) (*models.Doctor, error) {

	var doc models.Doctor
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	day := dateutil.DayUTC(ap.AppointmentDate)
	next := day.Add(24 * time.Hour)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				`doctor_id = ? AND status <> ? AND appointment_date >= ? AND appointment_date < ? AND "time" = ?`,
				ap.DoctorID,
				string(domain.StatusCancelled),
				day,
				next,
				ap.Time,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrConflict("slot_taken", "Time slot already booked.")
		}

		return tx.Create(ap).Error
	})

	// The partial unique index catches the race the row lock cannot (no row
	// to lock before the first insert); report it as the same conflict.
	if err != nil && isUniqueViolation(err) {
		return httperr.ErrConflict("slot_taken", "Time slot already booked.")
	}

	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key value")
}

// --------------------------------------------------
// Appointment (fetch)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Doctor.User").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentForPatient(
	ctx context.Context,
	appointmentID uint,
	patientID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Doctor").
		Preload("Doctor.User").
		Where("id = ? AND patient_id = ?", appointmentID, patientID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentForDoctor(
	ctx context.Context,
	appointmentID uint,
	doctorID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Where("id = ? AND doctor_id = ?", appointmentID, doctorID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", ap.ID).
		Update("status", ap.Status).Error
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForPatient(
	ctx context.Context,
	patientID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Doctor").
		Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("appointment_date ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentGormRepository) ListForDoctor(
	ctx context.Context,
	doctorID uint,
	from *time.Time,
	to *time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Patient").
		Where("doctor_id = ?", doctorID)

	if from != nil {
		q = q.Where("appointment_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("appointment_date < ?", *to)
	}

	var aps []models.Appointment
	if err := q.Order("appointment_date ASC").Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentGormRepository) ListForDoctorOnDay(
	ctx context.Context,
	doctorID uint,
	day time.Time,
) ([]models.Appointment, error) {

	start := dateutil.DayUTC(day)
	end := start.Add(24 * time.Hour)

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "appointment_date", "time", "status").
		Where(
			"doctor_id = ? AND status <> ? AND appointment_date >= ? AND appointment_date < ?",
			doctorID, string(domain.StatusCancelled), start, end,
		).
		Order("appointment_date ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentGormRepository) ListAll(
	ctx context.Context,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Doctor.User").
		Order("appointment_date DESC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
