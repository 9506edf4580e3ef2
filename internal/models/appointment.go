package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further status or date transitions are
// permitted from this status.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment represents a booked examination slot with a doctor.
// FollowupID optionally references another appointment by ID; the reference
// is an index, not an owning pointer, and is validated by the lifecycle
// manager before linking.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index" json:"patientId"`
	DoctorID        string            `gorm:"size:36;index" json:"doctorId"`
	AppointmentDate time.Time         `gorm:"index" json:"appointmentDate"`
	Status          AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	FollowupID      *string           `gorm:"size:36" json:"followupId,omitempty"`

	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}
