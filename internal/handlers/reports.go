package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/utils"
)

// ReportHandler exposes operational appointment views. Admin and doctor
// only; the route group enforces the roles.
type ReportHandler struct {
	Reporter *scheduling.Reporter
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reporter *scheduling.Reporter) *ReportHandler {
	return &ReportHandler{Reporter: reporter}
}

// parseReportFilters reads the optional doctorId and date query params.
func parseReportFilters(c *gin.Context) (string, *time.Time, bool) {
	doctorID := c.Query("doctorId")
	if doctorID != "" {
		if _, err := uuid.Parse(doctorID); err != nil {
			utils.BadRequest(c, "Invalid doctorId format")
			return "", nil, false
		}
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.BadRequest(c, "Invalid 'date'. Use YYYY-MM-DD format")
			return "", nil, false
		}
		date = &parsed
	}
	return doctorID, date, true
}

// ListAppointments returns appointments filtered by doctor and/or date,
// most recent first.
func (h *ReportHandler) ListAppointments(c *gin.Context) {
	doctorID, date, ok := parseReportFilters(c)
	if !ok {
		return
	}

	appointments, err := h.Reporter.Filter(doctorID, date)
	if err != nil {
		utils.InternalServerError(c, "Failed to build report: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GroupedAppointments returns the filtered appointments partitioned by
// status, with the per-status ordering the clinic staff expect: upcoming
// work soonest-first, history most-recent-first.
func (h *ReportHandler) GroupedAppointments(c *gin.Context) {
	doctorID, date, ok := parseReportFilters(c)
	if !ok {
		return
	}

	groups, err := h.Reporter.GroupByStatus(doctorID, date)
	if err != nil {
		utils.InternalServerError(c, "Failed to build report: "+err.Error())
		return
	}

	utils.Success(c, "Appointment report built successfully", groups)
}
