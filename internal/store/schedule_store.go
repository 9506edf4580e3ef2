package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
)

// ScheduleStore persists weekly schedule entries in MySQL via gorm. It
// implements scheduling.ScheduleStore plus the CRUD surface the admin
// handlers need.
type ScheduleStore struct {
	db *gorm.DB
}

// NewScheduleStore creates a ScheduleStore.
func NewScheduleStore(db *gorm.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

func (s *ScheduleStore) ByDoctorAndDay(doctorID string, day time.Weekday) (*models.Schedule, error) {
	var schedule models.Schedule
	err := s.db.Where("doctor_id = ? AND day = ?", doctorID, day).First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (s *ScheduleStore) ByDoctor(doctorID string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := s.db.Where("doctor_id = ?", doctorID).Order("day asc").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (s *ScheduleStore) ByID(id string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := s.db.First(&schedule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scheduling.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (s *ScheduleStore) Create(schedule *models.Schedule) error {
	return s.db.Create(schedule).Error
}

func (s *ScheduleStore) Update(schedule *models.Schedule) error {
	return s.db.Save(schedule).Error
}

func (s *ScheduleStore) Delete(id string) error {
	res := s.db.Delete(&models.Schedule{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return scheduling.ErrNotFound
	}
	return nil
}
