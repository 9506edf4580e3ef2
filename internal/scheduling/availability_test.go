package scheduling

import (
	"testing"
	"time"

	"clinic-app-server/internal/models"
)

const doctorID = "doc-1"

func newTestCalculator(store *fakeStore) *Calculator {
	calc := NewCalculator(store, store)
	// The clock sits well before the test Monday so nothing is "in the past".
	calc.now = fixedNow(monday(0, 0).AddDate(0, 0, -7))
	return calc
}

func TestCheck_NoScheduleForDay(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	calc := newTestCalculator(store)

	// Tuesday has no schedule entry.
	tuesday := monday(10, 0).AddDate(0, 0, 1)
	res, err := calc.Check(doctorID, tuesday)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if res.Available {
		t.Error("expected unavailable on a day without a schedule")
	}
	if res.Reason != ReasonNoSchedule {
		t.Errorf("expected reason %q, got %q", ReasonNoSchedule, res.Reason)
	}
}

func TestCheck_OutsideWorkingHours(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	calc := newTestCalculator(store)

	for _, at := range []time.Time{monday(8, 59), monday(12, 1), monday(14, 0)} {
		res, err := calc.Check(doctorID, at)
		if err != nil {
			t.Fatalf("Check(%v) failed: %v", at, err)
		}
		if res.Available || res.Reason != ReasonOutsideHours {
			t.Errorf("Check(%v) = %+v, expected unavailable with %q", at, res, ReasonOutsideHours)
		}
	}
}

func TestCheck_PastInstant(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	calc := NewCalculator(store, store)
	calc.now = fixedNow(monday(10, 0))

	res, err := calc.Check(doctorID, monday(9, 0))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if res.Available || res.Reason != ReasonPast {
		t.Errorf("expected unavailable with %q, got %+v", ReasonPast, res)
	}
}

func TestCheck_OccupiedSlot(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	store.Create(&models.Appointment{
		DoctorID:        doctorID,
		PatientID:       "pat-1",
		AppointmentDate: monday(9, 40),
		Status:          models.StatusScheduled,
	})
	calc := newTestCalculator(store)

	// Exact same instant and a partial overlap both collide with 09:40-10:20.
	for _, at := range []time.Time{monday(9, 40), monday(10, 0), monday(9, 10)} {
		res, err := calc.Check(doctorID, at)
		if err != nil {
			t.Fatalf("Check(%v) failed: %v", at, err)
		}
		if res.Available || res.Reason != ReasonOccupied {
			t.Errorf("Check(%v) = %+v, expected unavailable with %q", at, res, ReasonOccupied)
		}
	}

	// 10:20 starts exactly when the occupied slot ends.
	res, err := calc.Check(doctorID, monday(10, 20))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !res.Available {
		t.Errorf("expected 10:20 to be free, got %+v", res)
	}
}

func TestCheck_TerminalStatusesDoNotBlock(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	store.Create(&models.Appointment{
		DoctorID: doctorID, PatientID: "pat-1",
		AppointmentDate: monday(9, 40), Status: models.StatusCancelled,
	})
	store.Create(&models.Appointment{
		DoctorID: doctorID, PatientID: "pat-2",
		AppointmentDate: monday(10, 20), Status: models.StatusCompleted,
	})
	calc := newTestCalculator(store)

	res, err := calc.Check(doctorID, monday(9, 40))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !res.Available {
		t.Errorf("cancelled/completed appointments must not block, got %+v", res)
	}
}

func TestFreeSlots_Scenario(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	store.Create(&models.Appointment{
		DoctorID: doctorID, PatientID: "pat-1",
		AppointmentDate: monday(9, 40), Status: models.StatusScheduled,
	})
	calc := newTestCalculator(store)

	slots, err := calc.FreeSlots(doctorID, monday(0, 0))
	if err != nil {
		t.Fatalf("FreeSlots failed: %v", err)
	}

	expected := []TimeSlot{
		{Start: monday(9, 0), End: monday(9, 40)},
		{Start: monday(10, 20), End: monday(12, 0)},
	}
	if len(slots) != len(expected) {
		t.Fatalf("expected %d free slots, got %d: %+v", len(expected), len(slots), slots)
	}
	for i, want := range expected {
		if !slots[i].Start.Equal(want.Start) || !slots[i].End.Equal(want.End) {
			t.Errorf("slot %d = [%v, %v), want [%v, %v)", i, slots[i].Start, slots[i].End, want.Start, want.End)
		}
	}
}

func TestFreeSlots_GapShorterThanExaminationOmitted(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	// Occupies 09:20-10:00, leaving a 20 minute gap from 09:00 that cannot
	// fit a 30 minute examination.
	store.Create(&models.Appointment{
		DoctorID: doctorID, PatientID: "pat-1",
		AppointmentDate: monday(9, 20), Status: models.StatusScheduled,
	})
	calc := newTestCalculator(store)

	slots, err := calc.FreeSlots(doctorID, monday(0, 0))
	if err != nil {
		t.Fatalf("FreeSlots failed: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 free slot, got %d: %+v", len(slots), slots)
	}
	if !slots[0].Start.Equal(monday(10, 0)) || !slots[0].End.Equal(monday(12, 0)) {
		t.Errorf("free slot = [%v, %v), want [10:00, 12:00)", slots[0].Start, slots[0].End)
	}
}

func TestFreeSlots_NoScheduleYieldsEmpty(t *testing.T) {
	store := newFakeStore()
	calc := newTestCalculator(store)

	slots, err := calc.FreeSlots(doctorID, monday(0, 0))
	if err != nil {
		t.Fatalf("FreeSlots failed: %v", err)
	}
	if slots == nil || len(slots) != 0 {
		t.Errorf("expected empty non-nil slot list, got %#v", slots)
	}
}

func TestFreeSlots_EmptyDayIsOneSlot(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	calc := newTestCalculator(store)

	slots, err := calc.FreeSlots(doctorID, monday(0, 0))
	if err != nil {
		t.Fatalf("FreeSlots failed: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected the whole day as one slot, got %+v", slots)
	}
	if !slots[0].Start.Equal(monday(9, 0)) || !slots[0].End.Equal(monday(12, 0)) {
		t.Errorf("free slot = [%v, %v), want [09:00, 12:00)", slots[0].Start, slots[0].End)
	}
}

func TestFreeSlots_Idempotent(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	store.Create(&models.Appointment{
		DoctorID: doctorID, PatientID: "pat-1",
		AppointmentDate: monday(10, 20), Status: models.StatusScheduled,
	})
	calc := newTestCalculator(store)

	first, err := calc.FreeSlots(doctorID, monday(0, 0))
	if err != nil {
		t.Fatalf("FreeSlots failed: %v", err)
	}
	second, err := calc.FreeSlots(doctorID, monday(0, 0))
	if err != nil {
		t.Fatalf("FreeSlots failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("repeated calls disagree: %+v vs %+v", first, second)
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
			t.Errorf("slot %d differs between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestFreeSlots_TileWorkingHours(t *testing.T) {
	store := newFakeStore()
	store.addSchedule(mondaySchedule(doctorID))
	occupiedStarts := []time.Time{monday(9, 40), monday(11, 0)}
	for i, at := range occupiedStarts {
		store.Create(&models.Appointment{
			DoctorID: doctorID, PatientID: "pat-1",
			AppointmentDate: at, Status: models.StatusScheduled,
		})
		_ = i
	}
	calc := newTestCalculator(store)

	slots, err := calc.FreeSlots(doctorID, monday(0, 0))
	if err != nil {
		t.Fatalf("FreeSlots failed: %v", err)
	}

	// Free slots must not overlap any occupied interval.
	slotDur := 40 * time.Minute
	for _, free := range slots {
		for _, at := range occupiedStarts {
			occEnd := at.Add(slotDur)
			if free.Start.Before(occEnd) && at.Before(free.End) {
				t.Errorf("free slot [%v, %v) overlaps occupied [%v, %v)", free.Start, free.End, at, occEnd)
			}
		}
	}

	// Every reported slot stays within working hours and is long enough to
	// fit an examination.
	for _, free := range slots {
		if free.Start.Before(monday(9, 0)) || free.End.After(monday(12, 0)) {
			t.Errorf("free slot [%v, %v) leaves working hours", free.Start, free.End)
		}
		if free.End.Sub(free.Start) < 30*time.Minute {
			t.Errorf("free slot [%v, %v) shorter than the examination duration", free.Start, free.End)
		}
	}
}
