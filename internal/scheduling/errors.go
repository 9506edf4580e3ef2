package scheduling

import (
	"errors"
	"fmt"

	"clinic-app-server/internal/models"
)

// Availability reasons surfaced to callers. The exact wording is part of the
// API contract.
const (
	ReasonNoSchedule   = "no schedule for this day"
	ReasonOutsideHours = "outside working hours"
	ReasonPast         = "cannot book in the past"
	ReasonOccupied     = "time slot occupied"
)

var (
	// ErrNotFound is returned when a referenced appointment or record is absent.
	ErrNotFound = errors.New("appointment not found")

	// ErrSlotTaken is returned by a store when it detects at write time that a
	// concurrent request claimed the slot after the availability check passed.
	// It is the only error class worth a caller-driven retry.
	ErrSlotTaken = errors.New("slot was taken by a concurrent booking")

	// ErrSelfFollowup is returned when an appointment is linked as its own followup.
	ErrSelfFollowup = errors.New("appointment cannot be its own followup")

	// ErrFollowupCycle is returned when linking would close a followup chain
	// back onto the original appointment.
	ErrFollowupCycle = errors.New("followup link would create a cycle")
)

// ConflictError reports that a candidate instant is not bookable. Reason is
// one of the Reason constants above.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict: %s", e.Reason)
}

// TransitionError reports an operation rejected by the appointment state
// machine, carrying the offending status.
type TransitionError struct {
	Op     string
	Status models.AppointmentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s appointment in status %q", e.Op, e.Status)
}
