package scheduling

import (
	"time"

	"clinic-app-server/internal/models"
)

// ScheduleStore is the persistence contract for weekly schedules.
type ScheduleStore interface {
	// ByDoctorAndDay returns the doctor's schedule entry for a weekday, or
	// (nil, nil) when the doctor does not work that day.
	ByDoctorAndDay(doctorID string, day time.Weekday) (*models.Schedule, error)
	ByDoctor(doctorID string) ([]models.Schedule, error)
}

// AppointmentStore is the persistence contract for appointments. Create and
// UpdateDate must hold the doctor-slot guard: between the availability check
// and the write no concurrent request may claim an overlapping slot, and a
// lost race surfaces as ErrSlotTaken.
type AppointmentStore interface {
	ByID(id string) (*models.Appointment, error)
	// ByDoctorAndDate returns all appointments for the doctor on the calendar
	// date of the given instant, regardless of status.
	ByDoctorAndDate(doctorID string, date time.Time) ([]models.Appointment, error)
	// Create inserts a scheduled appointment under the slot guard.
	Create(a *models.Appointment) error
	// UpdateDate persists a date change under the slot guard, excluding the
	// appointment's own row from the overlap scan.
	UpdateDate(a *models.Appointment) error
	// Save persists status or followup changes without the slot guard.
	Save(a *models.Appointment) error
	// Complete atomically persists the completed appointment together with
	// its medical record; either both writes apply or neither.
	Complete(a *models.Appointment, rec *models.MedicalRecord) error
	// Filter returns appointments optionally narrowed by doctor and/or
	// calendar date, in no particular order.
	Filter(doctorID string, date *time.Time) ([]models.Appointment, error)
}

// MedicalRecordStore is the persistence contract for medical records.
type MedicalRecordStore interface {
	// ByAppointment returns the record for an appointment, or (nil, nil) when
	// none exists yet.
	ByAppointment(appointmentID string) (*models.MedicalRecord, error)
}
