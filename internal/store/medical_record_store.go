package store

import (
	"errors"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
)

// MedicalRecordStore persists medical records in MySQL via gorm.
type MedicalRecordStore struct {
	db *gorm.DB
}

// NewMedicalRecordStore creates a MedicalRecordStore.
func NewMedicalRecordStore(db *gorm.DB) *MedicalRecordStore {
	return &MedicalRecordStore{db: db}
}

func (s *MedicalRecordStore) ByAppointment(appointmentID string) (*models.MedicalRecord, error) {
	var record models.MedicalRecord
	err := s.db.Where("appointment_id = ?", appointmentID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *MedicalRecordStore) ByID(id string) (*models.MedicalRecord, error) {
	var record models.MedicalRecord
	err := s.db.First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scheduling.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *MedicalRecordStore) ByPatient(patientID string) ([]models.MedicalRecord, error) {
	var records []models.MedicalRecord
	err := s.db.Where("patient_id = ?", patientID).Order("created_at desc").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
