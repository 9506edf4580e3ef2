package store

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
)

// AppointmentStore persists appointments in MySQL via gorm and enforces the
// doctor-slot guard: between an availability check and the write, no
// concurrent request may claim an overlapping slot. The guard locks the
// doctor's scheduled rows for the day with SELECT ... FOR UPDATE, re-runs
// the overlap scan, and fails with scheduling.ErrSlotTaken on conflict.
type AppointmentStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAppointmentStore creates an AppointmentStore.
func NewAppointmentStore(db *gorm.DB, logger *zap.Logger) *AppointmentStore {
	return &AppointmentStore{db: db, logger: logger}
}

func (s *AppointmentStore) ByID(id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.First(&appointment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scheduling.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func dayRange(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

func (s *AppointmentStore) ByDoctorAndDate(doctorID string, date time.Time) ([]models.Appointment, error) {
	dayStart, dayEnd := dayRange(date)
	var appointments []models.Appointment
	err := s.db.
		Where("doctor_id = ? AND appointment_date >= ? AND appointment_date < ?", doctorID, dayStart, dayEnd).
		Order("appointment_date asc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Create inserts a scheduled appointment under the slot guard.
func (s *AppointmentStore) Create(appointment *models.Appointment) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.guardSlot(tx, appointment.DoctorID, appointment.AppointmentDate, ""); err != nil {
			return err
		}
		return tx.Create(appointment).Error
	})
}

// UpdateDate persists a date change under the slot guard, excluding the
// appointment's own row from the overlap scan.
func (s *AppointmentStore) UpdateDate(appointment *models.Appointment) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.guardSlot(tx, appointment.DoctorID, appointment.AppointmentDate, appointment.ID); err != nil {
			return err
		}
		return tx.Model(appointment).Update("appointment_date", appointment.AppointmentDate).Error
	})
}

func (s *AppointmentStore) Save(appointment *models.Appointment) error {
	return s.db.Save(appointment).Error
}

// Complete writes the completed appointment and its medical record in one
// transaction; either both apply or neither.
func (s *AppointmentStore) Complete(appointment *models.Appointment, record *models.MedicalRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(appointment).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
}

func (s *AppointmentStore) Filter(doctorID string, date *time.Time) ([]models.Appointment, error) {
	query := s.db.Model(&models.Appointment{})
	if doctorID != "" {
		query = query.Where("doctor_id = ?", doctorID)
	}
	if date != nil {
		dayStart, dayEnd := dayRange(*date)
		query = query.Where("appointment_date >= ? AND appointment_date < ?", dayStart, dayEnd)
	}
	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *AppointmentStore) Delete(id string) error {
	res := s.db.Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return scheduling.ErrNotFound
	}
	return nil
}

// guardSlot re-runs the overlap scan against the doctor's scheduled rows for
// the day while holding row locks, so two concurrent writes for overlapping
// slots serialize and the loser fails fast.
func (s *AppointmentStore) guardSlot(tx *gorm.DB, doctorID string, at time.Time, excludeID string) error {
	var schedule models.Schedule
	err := tx.Where("doctor_id = ? AND day = ?", doctorID, at.Weekday()).First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Without a schedule there is no slot granularity to guard; the
		// availability check has already rejected such instants.
		return nil
	}
	if err != nil {
		return err
	}
	slotDur := schedule.SlotDuration()

	dayStart, dayEnd := dayRange(at)
	var existing []models.Appointment
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("doctor_id = ? AND status = ? AND appointment_date >= ? AND appointment_date < ?",
			doctorID, models.StatusScheduled, dayStart, dayEnd).
		Find(&existing).Error
	if err != nil {
		return err
	}

	candidateEnd := at.Add(slotDur)
	for _, a := range existing {
		if a.ID == excludeID {
			continue
		}
		occupiedEnd := a.AppointmentDate.Add(slotDur)
		if at.Before(occupiedEnd) && a.AppointmentDate.Before(candidateEnd) {
			s.logger.Warn("slot race detected at write time",
				zap.String("doctorId", doctorID),
				zap.Time("requested", at),
				zap.Time("conflicting", a.AppointmentDate))
			return scheduling.ErrSlotTaken
		}
	}
	return nil
}
