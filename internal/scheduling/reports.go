package scheduling

import (
	"sort"
	"time"

	"clinic-app-server/internal/models"
)

// Reporter builds operational views over appointments. Ordering is a
// presentation concern, never a scheduling decision.
type Reporter struct {
	appointments AppointmentStore
}

// NewReporter creates a Reporter over the appointment store.
func NewReporter(appointments AppointmentStore) *Reporter {
	return &Reporter{appointments: appointments}
}

// Filter returns appointments optionally narrowed by doctor and/or calendar
// date, most recent first. An empty doctorID or nil date leaves that
// dimension unfiltered.
func (r *Reporter) Filter(doctorID string, date *time.Time) ([]models.Appointment, error) {
	appointments, err := r.appointments.Filter(doctorID, date)
	if err != nil {
		return nil, err
	}
	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].AppointmentDate.After(appointments[j].AppointmentDate)
	})
	return appointments, nil
}

// GroupByStatus partitions the filtered appointments by status. Scheduled
// and cancelled groups are ordered soonest-first; the completed group is
// ordered most-recent-first. The asymmetry is intentional: recency-first for
// history, soonest-first for upcoming work.
func (r *Reporter) GroupByStatus(doctorID string, date *time.Time) (map[models.AppointmentStatus][]models.Appointment, error) {
	appointments, err := r.appointments.Filter(doctorID, date)
	if err != nil {
		return nil, err
	}

	groups := make(map[models.AppointmentStatus][]models.Appointment)
	for _, a := range appointments {
		groups[a.Status] = append(groups[a.Status], a)
	}

	for status, group := range groups {
		descending := status == models.StatusCompleted
		sort.Slice(group, func(i, j int) bool {
			if descending {
				return group[i].AppointmentDate.After(group[j].AppointmentDate)
			}
			return group[i].AppointmentDate.Before(group[j].AppointmentDate)
		})
		groups[status] = group
	}

	return groups, nil
}
