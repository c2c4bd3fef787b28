package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/medibook/clinic-scheduler/internal/config"
	"github.com/medibook/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.AvailabilityConfig{},
		&models.Appointment{},
		&models.Payment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// One live booking per (doctor, day, time); cancelled rows free the slot.
	// This backs the transactional conflict check against concurrent inserts.
	// AT TIME ZONE 'UTC' keeps the day expression immutable so it is legal in
	// an index; a bare timestamptz::date cast depends on the session TimeZone.
	if err := db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uidx_appointments_slot
        ON appointments (doctor_id, (((appointment_date AT TIME ZONE 'UTC')::date)), "time")
        WHERE status <> 'CANCELLED'
    `).Error; err != nil {
		log.Fatalf("failed to create slot index: %v", err)
	}

	return db
}
