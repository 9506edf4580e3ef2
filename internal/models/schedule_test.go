package models

import (
	"testing"
	"time"
)

func TestScheduleSlotDuration(t *testing.T) {
	s := Schedule{ExaminationDurationMins: 30, BreakDurationMins: 10}

	if got, want := s.SlotDuration(), 40*time.Minute; got != want {
		t.Errorf("SlotDuration() = %v, want %v", got, want)
	}
	if got, want := s.ExaminationDuration(), 30*time.Minute; got != want {
		t.Errorf("ExaminationDuration() = %v, want %v", got, want)
	}
}

func TestScheduleDayBounds(t *testing.T) {
	s := Schedule{StartTime: "09:00", EndTime: "17:30"}
	date := time.Date(2026, time.September, 7, 13, 45, 0, 0, time.UTC)

	start, end, err := s.DayBounds(date)
	if err != nil {
		t.Fatalf("DayBounds() error = %v", err)
	}

	wantStart := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, time.September, 7, 17, 30, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestScheduleDayBoundsBadClock(t *testing.T) {
	s := Schedule{StartTime: "9am", EndTime: "17:00"}
	if _, _, err := s.DayBounds(time.Now()); err == nil {
		t.Error("DayBounds() with malformed start time should fail")
	}
}

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		wantErr  bool
	}{
		{
			name:     "valid",
			schedule: Schedule{StartTime: "09:00", EndTime: "17:00", ExaminationDurationMins: 30, BreakDurationMins: 10},
			wantErr:  false,
		},
		{
			name:     "zero break is allowed",
			schedule: Schedule{StartTime: "09:00", EndTime: "12:00", ExaminationDurationMins: 20},
			wantErr:  false,
		},
		{
			name:     "start after end",
			schedule: Schedule{StartTime: "17:00", EndTime: "09:00", ExaminationDurationMins: 30},
			wantErr:  true,
		},
		{
			name:     "start equals end",
			schedule: Schedule{StartTime: "09:00", EndTime: "09:00", ExaminationDurationMins: 30},
			wantErr:  true,
		},
		{
			name:     "zero examination duration",
			schedule: Schedule{StartTime: "09:00", EndTime: "17:00", ExaminationDurationMins: 0},
			wantErr:  true,
		},
		{
			name:     "negative break",
			schedule: Schedule{StartTime: "09:00", EndTime: "17:00", ExaminationDurationMins: 30, BreakDurationMins: -5},
			wantErr:  true,
		},
		{
			name:     "malformed time",
			schedule: Schedule{StartTime: "nine", EndTime: "17:00", ExaminationDurationMins: 30},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
