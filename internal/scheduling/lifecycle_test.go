package scheduling

import (
	"errors"
	"testing"
	"time"

	"clinic-app-server/internal/models"
)

func newTestManager(store *fakeStore) *Manager {
	return NewManager(store, store, newTestCalculator(store))
}

func TestBook_Succeeds(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	mgr := newTestManager(store)

	appointment, err := mgr.Book(doctorID, "pat-1", monday(9, 0))
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if appointment.Status != models.StatusScheduled {
		t.Errorf("expected status scheduled, got %q", appointment.Status)
	}
	if appointment.ID == "" {
		t.Error("expected persisted appointment to have an ID")
	}
}

func TestBook_OccupiedSlotConflicts(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	mgr := newTestManager(store)

	if _, err := mgr.Book(doctorID, "pat-1", monday(9, 40)); err != nil {
		t.Fatalf("first Book failed: %v", err)
	}

	_, err := mgr.Book(doctorID, "pat-2", monday(9, 40))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Reason != ReasonOccupied {
		t.Errorf("expected reason %q, got %q", ReasonOccupied, conflict.Reason)
	}
}

func TestBook_SurfacesSlotRaceFromStore(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	store.createErr = ErrSlotTaken
	mgr := newTestManager(store)

	_, err := mgr.Book(doctorID, "pat-1", monday(9, 0))
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken from the store guard, got %v", err)
	}
}

func TestReschedule_IntoOwnSlotSucceeds(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	mgr := newTestManager(store)

	booked, err := mgr.Book(doctorID, "pat-1", monday(9, 40))
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	// The appointment's own slot is excluded from the conflict scan, so
	// rescheduling onto the same instant leaves it unchanged.
	rescheduled, err := mgr.Reschedule(booked.ID, monday(9, 40))
	if err != nil {
		t.Fatalf("Reschedule onto own slot failed: %v", err)
	}
	if !rescheduled.AppointmentDate.Equal(monday(9, 40)) {
		t.Errorf("appointment date changed unexpectedly: %v", rescheduled.AppointmentDate)
	}
}

func TestReschedule_MovesDate(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	mgr := newTestManager(store)

	booked, err := mgr.Book(doctorID, "pat-1", monday(9, 0))
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	rescheduled, err := mgr.Reschedule(booked.ID, monday(10, 20))
	if err != nil {
		t.Fatalf("Reschedule failed: %v", err)
	}
	if !rescheduled.AppointmentDate.Equal(monday(10, 20)) {
		t.Errorf("expected new date 10:20, got %v", rescheduled.AppointmentDate)
	}

	stored, err := store.ByID(booked.ID)
	if err != nil {
		t.Fatalf("ByID failed: %v", err)
	}
	if !stored.AppointmentDate.Equal(monday(10, 20)) {
		t.Errorf("date change not persisted: %v", stored.AppointmentDate)
	}
}

func TestReschedule_OntoOtherAppointmentConflicts(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	mgr := newTestManager(store)

	if _, err := mgr.Book(doctorID, "pat-1", monday(9, 0)); err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	second, err := mgr.Book(doctorID, "pat-2", monday(10, 20))
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	_, err = mgr.Reschedule(second.ID, monday(9, 0))
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Reason != ReasonOccupied {
		t.Fatalf("expected occupied conflict, got %v", err)
	}
}

func TestReschedule_TerminalStatesRejected(t *testing.T) {
	for _, status := range []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled} {
		store := newFakeStore()
		store.addSchedule(mondaySchedule(doctorID))
		store.Create(&models.Appointment{
			BaseModel: models.BaseModel{ID: "appt-x"},
			DoctorID:  doctorID, PatientID: "pat-1",
			AppointmentDate: monday(9, 0), Status: status,
		})
		mgr := newTestManager(store)

		_, err := mgr.Reschedule("appt-x", monday(10, 20))
		var transition *TransitionError
		if !errors.As(err, &transition) {
			t.Fatalf("status %q: expected TransitionError, got %v", status, err)
		}
		if transition.Status != status {
			t.Errorf("expected offending status %q, got %q", status, transition.Status)
		}
	}
}

func TestReschedule_NotFound(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)

	if _, err := mgr.Reschedule("missing", monday(9, 0)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	mgr := newTestManager(store)

	booked, err := mgr.Book(doctorID, "pat-1", monday(9, 0))
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	cancelled, err := mgr.Cancel(booked.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Errorf("expected cancelled, got %q", cancelled.Status)
	}

	// Cancelled is terminal.
	if _, err := mgr.Cancel(booked.ID); err == nil {
		t.Error("expected cancelling twice to fail")
	}
}

func TestCancel_CompletedRejected(t *testing.T) {
	store := newFakeStore()
	store.Create(&models.Appointment{
		BaseModel: models.BaseModel{ID: "appt-done"},
		DoctorID:  doctorID, PatientID: "pat-1",
		AppointmentDate: monday(9, 0), Status: models.StatusCompleted,
	})
	mgr := newTestManager(store)

	_, err := mgr.Cancel("appt-done")
	var transition *TransitionError
	if !errors.As(err, &transition) || transition.Status != models.StatusCompleted {
		t.Fatalf("expected TransitionError on completed, got %v", err)
	}
}

func TestComplete_CreatesRecordAndFinalizes(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	mgr := newTestManager(store)

	booked, err := mgr.Book(doctorID, "pat-1", monday(9, 0))
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	record, err := mgr.Complete(booked.ID, "seasonal flu", "rest and fluids")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if record.AppointmentID != booked.ID {
		t.Errorf("record linked to %q, want %q", record.AppointmentID, booked.ID)
	}
	if record.Diagnosis != "seasonal flu" || record.Prescription != "rest and fluids" {
		t.Errorf("record content wrong: %+v", record)
	}

	stored, err := store.ByID(booked.ID)
	if err != nil {
		t.Fatalf("ByID failed: %v", err)
	}
	if stored.Status != models.StatusCompleted {
		t.Errorf("expected completed, got %q", stored.Status)
	}

	// A second completion must be rejected: the state is terminal and the
	// record already exists.
	if _, err := mgr.Complete(booked.ID, "x", "y"); err == nil {
		t.Error("expected second Complete to fail")
	}
}

func TestComplete_CancelledRejected(t *testing.T) {
	store := newFakeStore()
	store.Create(&models.Appointment{
		BaseModel: models.BaseModel{ID: "appt-c"},
		DoctorID:  doctorID, PatientID: "pat-1",
		AppointmentDate: monday(9, 0), Status: models.StatusCancelled,
	})
	mgr := newTestManager(store)

	_, err := mgr.Complete("appt-c", "d", "p")
	var transition *TransitionError
	if !errors.As(err, &transition) || transition.Status != models.StatusCancelled {
		t.Fatalf("expected TransitionError on cancelled, got %v", err)
	}
}

func TestComplete_NotFound(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)

	if _, err := mgr.Complete("missing", "d", "p"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLinkFollowup(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	mgr := newTestManager(store)

	first, err := mgr.Book(doctorID, "pat-1", monday(9, 0))
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	second, err := mgr.Book(doctorID, "pat-1", monday(10, 20))
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	linked, err := mgr.LinkFollowup(first.ID, second.ID)
	if err != nil {
		t.Fatalf("LinkFollowup failed: %v", err)
	}
	if linked.FollowupID == nil || *linked.FollowupID != second.ID {
		t.Errorf("followup not linked: %+v", linked.FollowupID)
	}
}

func TestLinkFollowup_Validation(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	mgr := newTestManager(store)

	first, _ := mgr.Book(doctorID, "pat-1", monday(9, 0))
	second, _ := mgr.Book(doctorID, "pat-1", monday(10, 20))

	if _, err := mgr.LinkFollowup("missing", second.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing original: expected ErrNotFound, got %v", err)
	}
	if _, err := mgr.LinkFollowup(first.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing followup: expected ErrNotFound, got %v", err)
	}
	if _, err := mgr.LinkFollowup(first.ID, first.ID); !errors.Is(err, ErrSelfFollowup) {
		t.Errorf("self link: expected ErrSelfFollowup, got %v", err)
	}

	// first -> second established, then second -> first would close a cycle.
	if _, err := mgr.LinkFollowup(first.ID, second.ID); err != nil {
		t.Fatalf("LinkFollowup failed: %v", err)
	}
	if _, err := mgr.LinkFollowup(second.ID, first.ID); !errors.Is(err, ErrFollowupCycle) {
		t.Errorf("cycle: expected ErrFollowupCycle, got %v", err)
	}
}

func TestNonOverlapInvariant(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	mgr := newTestManager(store)

	// Attempt a burst of bookings at 20 minute spacing; slot duration is 40
	// minutes so only every other attempt can win.
	for min := 0; min <= 160; min += 20 {
		mgr.Book(doctorID, "pat-1", monday(9, 0).Add(time.Duration(min)*time.Minute))
	}

	scheduled, err := store.ByDoctorAndDate(doctorID, monday(0, 0))
	if err != nil {
		t.Fatalf("ByDoctorAndDate failed: %v", err)
	}
	sched := mondaySchedule(doctorID)
	slotDur := sched.SlotDuration()
	for i := range scheduled {
		for j := i + 1; j < len(scheduled); j++ {
			a, b := scheduled[i], scheduled[j]
			if a.AppointmentDate.Before(b.AppointmentDate.Add(slotDur)) &&
				b.AppointmentDate.Before(a.AppointmentDate.Add(slotDur)) {
				t.Errorf("overlapping scheduled appointments at %v and %v", a.AppointmentDate, b.AppointmentDate)
			}
		}
	}
}
