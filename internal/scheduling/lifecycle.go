package scheduling

import (
	"time"

	"clinic-app-server/internal/models"
)

// Manager owns the appointment state machine:
//
//	scheduled --cancel--> cancelled (terminal)
//	scheduled --complete--> completed (terminal)
//	scheduled --reschedule--> scheduled (date changes, re-validated)
//
// Every time-changing mutation goes through the availability calculator
// first; the store's slot guard then closes the remaining race window.
type Manager struct {
	appointments AppointmentStore
	records      MedicalRecordStore
	calc         *Calculator
}

// NewManager creates a Manager over the given stores and calculator.
func NewManager(appointments AppointmentStore, records MedicalRecordStore, calc *Calculator) *Manager {
	return &Manager{appointments: appointments, records: records, calc: calc}
}

// Book creates a scheduled appointment at the candidate instant. It fails
// with a ConflictError when the slot is not bookable, or ErrSlotTaken when a
// concurrent booking wins the slot at write time.
func (m *Manager) Book(doctorID, patientID string, at time.Time) (*models.Appointment, error) {
	res, err := m.calc.Check(doctorID, at)
	if err != nil {
		return nil, err
	}
	if !res.Available {
		return nil, &ConflictError{Reason: res.Reason}
	}

	appointment := &models.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentDate: at,
		Status:          models.StatusScheduled,
	}
	if err := m.appointments.Create(appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Reschedule moves a scheduled appointment to a new instant. The
// appointment's own slot is excluded from the conflict scan, so rescheduling
// onto the currently held instant succeeds and leaves it unchanged.
func (m *Manager) Reschedule(appointmentID string, at time.Time) (*models.Appointment, error) {
	appointment, err := m.appointments.ByID(appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.Status != models.StatusScheduled {
		return nil, &TransitionError{Op: "reschedule", Status: appointment.Status}
	}

	res, err := m.calc.check(appointment.DoctorID, at, appointment.ID)
	if err != nil {
		return nil, err
	}
	if !res.Available {
		return nil, &ConflictError{Reason: res.Reason}
	}

	appointment.AppointmentDate = at
	if err := m.appointments.UpdateDate(appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Cancel moves a scheduled appointment to its terminal cancelled status.
func (m *Manager) Cancel(appointmentID string) (*models.Appointment, error) {
	appointment, err := m.appointments.ByID(appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.Status.Terminal() {
		return nil, &TransitionError{Op: "cancel", Status: appointment.Status}
	}

	appointment.Status = models.StatusCancelled
	if err := m.appointments.Save(appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Complete finalizes a scheduled appointment: it creates the medical record
// and flips the appointment to completed in one atomic unit.
func (m *Manager) Complete(appointmentID, diagnosis, prescription string) (*models.MedicalRecord, error) {
	appointment, err := m.appointments.ByID(appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.Status.Terminal() {
		return nil, &TransitionError{Op: "complete", Status: appointment.Status}
	}
	existing, err := m.records.ByAppointment(appointment.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &TransitionError{Op: "complete", Status: appointment.Status}
	}

	record := &models.MedicalRecord{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		Diagnosis:     diagnosis,
		Prescription:  prescription,
	}
	appointment.Status = models.StatusCompleted
	if err := m.appointments.Complete(appointment, record); err != nil {
		return nil, err
	}
	return record, nil
}

// LinkFollowup records followupID as the follow-up of the original
// appointment. Both appointments must exist, be distinct, and the link must
// not close the followup chain into a cycle.
func (m *Manager) LinkFollowup(originalID, followupID string) (*models.Appointment, error) {
	original, err := m.appointments.ByID(originalID)
	if err != nil {
		return nil, err
	}
	if originalID == followupID {
		return nil, ErrSelfFollowup
	}
	followup, err := m.appointments.ByID(followupID)
	if err != nil {
		return nil, err
	}

	// Walk the chain from the followup; reaching the original would make the
	// chain circular. Visited guards against pre-existing loops in the data.
	visited := map[string]bool{originalID: true}
	current := followup
	for current != nil && current.FollowupID != nil {
		next := *current.FollowupID
		if visited[next] {
			return nil, ErrFollowupCycle
		}
		visited[next] = true
		current, err = m.appointments.ByID(next)
		if err != nil {
			return nil, err
		}
	}

	original.FollowupID = &followup.ID
	if err := m.appointments.Save(original); err != nil {
		return nil, err
	}
	return original, nil
}
