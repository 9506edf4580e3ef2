package scheduling

import (
	"sort"
	"time"

	"clinic-app-server/internal/models"
)

// AvailabilityResult is the verdict for a single candidate instant.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// TimeSlot is a contiguous interval of a doctor's working day. Start is
// inclusive, End exclusive.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Calculator answers availability questions for a doctor's calendar. It is
// read-only: absence of a schedule or of free time is a normal negative
// result, never an error.
type Calculator struct {
	schedules    ScheduleStore
	appointments AppointmentStore
	now          func() time.Time
}

// NewCalculator creates a Calculator backed by the given stores.
func NewCalculator(schedules ScheduleStore, appointments AppointmentStore) *Calculator {
	return &Calculator{
		schedules:    schedules,
		appointments: appointments,
		now:          time.Now,
	}
}

// Check decides whether the doctor can take a new appointment starting at
// the given instant.
func (c *Calculator) Check(doctorID string, at time.Time) (AvailabilityResult, error) {
	return c.check(doctorID, at, "")
}

// check is Check with an optional appointment excluded from the overlap
// scan, so a reschedule never conflicts with the slot it already holds.
func (c *Calculator) check(doctorID string, at time.Time, excludeID string) (AvailabilityResult, error) {
	schedule, err := c.schedules.ByDoctorAndDay(doctorID, at.Weekday())
	if err != nil {
		return AvailabilityResult{}, err
	}
	if schedule == nil {
		return AvailabilityResult{Reason: ReasonNoSchedule}, nil
	}

	dayStart, dayEnd, err := schedule.DayBounds(at)
	if err != nil {
		return AvailabilityResult{}, err
	}
	if at.Before(dayStart) || at.After(dayEnd) {
		return AvailabilityResult{Reason: ReasonOutsideHours}, nil
	}

	// Direct instant comparison against the wall clock, deliberately without
	// timezone normalization.
	if at.Before(c.now()) {
		return AvailabilityResult{Reason: ReasonPast}, nil
	}

	slotDur := schedule.SlotDuration()
	existing, err := c.appointments.ByDoctorAndDate(doctorID, at)
	if err != nil {
		return AvailabilityResult{}, err
	}

	candidateEnd := at.Add(slotDur)
	for _, a := range existing {
		if a.Status != models.StatusScheduled || a.ID == excludeID {
			continue
		}
		occupiedStart := a.AppointmentDate
		occupiedEnd := occupiedStart.Add(slotDur)
		// Candidate start falls inside the occupied slot, or candidate end does.
		startsInside := !at.Before(occupiedStart) && at.Before(occupiedEnd)
		endsInside := candidateEnd.After(occupiedStart) && !candidateEnd.After(occupiedEnd)
		if startsInside || endsInside {
			return AvailabilityResult{Reason: ReasonOccupied}, nil
		}
	}

	return AvailabilityResult{Available: true}, nil
}

// FreeSlots enumerates the doctor's free intervals for the calendar date of
// the given instant, ordered by start time. Gaps shorter than the
// examination duration are not bookable and are omitted. A day without a
// schedule yields an empty list.
func (c *Calculator) FreeSlots(doctorID string, date time.Time) ([]TimeSlot, error) {
	slots := []TimeSlot{}

	schedule, err := c.schedules.ByDoctorAndDay(doctorID, date.Weekday())
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return slots, nil
	}

	dayStart, dayEnd, err := schedule.DayBounds(date)
	if err != nil {
		return nil, err
	}
	slotDur := schedule.SlotDuration()
	examDur := schedule.ExaminationDuration()

	appointments, err := c.appointments.ByDoctorAndDate(doctorID, date)
	if err != nil {
		return nil, err
	}

	occupied := make([]TimeSlot, 0, len(appointments))
	for _, a := range appointments {
		if a.Status != models.StatusScheduled {
			continue
		}
		occupied = append(occupied, TimeSlot{Start: a.AppointmentDate, End: a.AppointmentDate.Add(slotDur)})
	}
	sort.Slice(occupied, func(i, j int) bool {
		return occupied[i].Start.Before(occupied[j].Start)
	})

	cursor := dayStart
	for _, iv := range occupied {
		if cursor.Before(iv.Start) && iv.Start.Sub(cursor) >= examDur {
			slots = append(slots, TimeSlot{Start: cursor, End: iv.Start})
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}
	if cursor.Before(dayEnd) && dayEnd.Sub(cursor) >= examDur {
		slots = append(slots, TimeSlot{Start: cursor, End: dayEnd})
	}

	return slots, nil
}
