package scheduling

import (
	"fmt"
	"time"

	"clinic-app-server/internal/models"
)

// fakeStore is an in-memory implementation of all three store contracts,
// enough for exercising the calculator, lifecycle manager, and reporter
// without a database.
type fakeStore struct {
	schedules    []models.Schedule
	appointments []*models.Appointment
	records      []*models.MedicalRecord
	nextID       int

	// createErr, when set, is returned by Create/UpdateDate to simulate the
	// store-level slot guard losing a race.
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) addSchedule(s models.Schedule) {
	f.schedules = append(f.schedules, s)
}

func (f *fakeStore) ByDoctorAndDay(doctorID string, day time.Weekday) (*models.Schedule, error) {
	for i := range f.schedules {
		if f.schedules[i].DoctorID == doctorID && f.schedules[i].Day == day {
			return &f.schedules[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ByDoctor(doctorID string) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range f.schedules {
		if s.DoctorID == doctorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ByID(id string) (*models.Appointment, error) {
	for _, a := range f.appointments {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (f *fakeStore) ByDoctorAndDate(doctorID string, date time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.DoctorID == doctorID && sameDate(a.AppointmentDate, date) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(a *models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	if a.ID == "" {
		f.nextID++
		a.ID = fmt.Sprintf("appt-%d", f.nextID)
	}
	copied := *a
	f.appointments = append(f.appointments, &copied)
	return nil
}

func (f *fakeStore) UpdateDate(a *models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.Save(a)
}

func (f *fakeStore) Save(a *models.Appointment) error {
	for i, existing := range f.appointments {
		if existing.ID == a.ID {
			copied := *a
			f.appointments[i] = &copied
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) Complete(a *models.Appointment, rec *models.MedicalRecord) error {
	if err := f.Save(a); err != nil {
		return err
	}
	if rec.ID == "" {
		f.nextID++
		rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	}
	copied := *rec
	f.records = append(f.records, &copied)
	return nil
}

func (f *fakeStore) Filter(doctorID string, date *time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appointments {
		if doctorID != "" && a.DoctorID != doctorID {
			continue
		}
		if date != nil && !sameDate(a.AppointmentDate, *date) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeStore) ByAppointment(appointmentID string) (*models.MedicalRecord, error) {
	for _, r := range f.records {
		if r.AppointmentID == appointmentID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

// fixedNow pins the calculator clock so past-time checks are deterministic.
func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// mondaySchedule is the scenario schedule used across the tests:
// Mondays 09:00-12:00, 30 minute examinations, 10 minute breaks.
func mondaySchedule(doctorID string) models.Schedule {
	return models.Schedule{
		DoctorID:                doctorID,
		Day:                     time.Monday,
		StartTime:               "09:00",
		EndTime:                 "12:00",
		ExaminationDurationMins: 30,
		BreakDurationMins:       10,
	}
}

// monday returns a clock time on Monday 2026-09-07 UTC.
func monday(hour, min int) time.Time {
	return time.Date(2026, 9, 7, hour, min, 0, 0, time.UTC)
}
