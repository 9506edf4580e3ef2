package models

import (
	"fmt"
	"time"
)

// Schedule is a doctor's recurring working-hours definition for one weekday.
// The composite unique index keeps at most one entry per (doctor, day).
type Schedule struct {
	BaseModel
	DoctorID                string       `gorm:"size:36;uniqueIndex:idx_doctor_day" json:"doctorId"`
	Day                     time.Weekday `gorm:"uniqueIndex:idx_doctor_day" json:"day"`
	StartTime               string       `gorm:"size:5" json:"startTime"` // "HH:MM", 24h clock
	EndTime                 string       `gorm:"size:5" json:"endTime"`
	ExaminationDurationMins int          `json:"examinationDurationMins"`
	BreakDurationMins       int          `json:"breakDurationMins"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}

// SlotDuration is the fixed granularity of bookable slots for this schedule:
// examination time plus the break that follows it.
func (s *Schedule) SlotDuration() time.Duration {
	return time.Duration(s.ExaminationDurationMins+s.BreakDurationMins) * time.Minute
}

// ExaminationDuration returns the examination time as a duration.
func (s *Schedule) ExaminationDuration() time.Duration {
	return time.Duration(s.ExaminationDurationMins) * time.Minute
}

// StartOffset parses StartTime into an offset from midnight.
func (s *Schedule) StartOffset() (time.Duration, error) {
	return parseClock(s.StartTime)
}

// EndOffset parses EndTime into an offset from midnight.
func (s *Schedule) EndOffset() (time.Duration, error) {
	return parseClock(s.EndTime)
}

// DayBounds resolves the working-hours window for a concrete calendar date,
// in that date's location.
func (s *Schedule) DayBounds(date time.Time) (start, end time.Time, err error) {
	startOff, err := s.StartOffset()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endOff, err := s.EndOffset()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.Add(startOff), midnight.Add(endOff), nil
}

// Validate checks the invariants a schedule entry must satisfy before it is
// persisted.
func (s *Schedule) Validate() error {
	startOff, err := s.StartOffset()
	if err != nil {
		return fmt.Errorf("invalid start time %q: %w", s.StartTime, err)
	}
	endOff, err := s.EndOffset()
	if err != nil {
		return fmt.Errorf("invalid end time %q: %w", s.EndTime, err)
	}
	if startOff >= endOff {
		return fmt.Errorf("start time %s must be before end time %s", s.StartTime, s.EndTime)
	}
	if s.ExaminationDurationMins <= 0 {
		return fmt.Errorf("examination duration must be positive, got %d", s.ExaminationDurationMins)
	}
	if s.BreakDurationMins < 0 {
		return fmt.Errorf("break duration must not be negative, got %d", s.BreakDurationMins)
	}
	return nil
}

func parseClock(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
