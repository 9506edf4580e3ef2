package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/store"
	"clinic-app-server/internal/utils"
)

// ScheduleHandler handles weekly schedule management. Admin only; the
// route group enforces the role.
type ScheduleHandler struct {
	DB        *gorm.DB
	Schedules *store.ScheduleStore
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(db *gorm.DB, schedules *store.ScheduleStore) *ScheduleHandler {
	return &ScheduleHandler{DB: db, Schedules: schedules}
}

// ScheduleRequest represents the request body for creating or updating a
// weekly schedule entry.
type ScheduleRequest struct {
	DoctorID                string `json:"doctorId" binding:"required,uuid"`
	Day                     int    `json:"day" binding:"min=0,max=6"` // 0 = Sunday
	StartTime               string `json:"startTime" binding:"required"`
	EndTime                 string `json:"endTime" binding:"required"`
	ExaminationDurationMins int    `json:"examinationDurationMins" binding:"required,gt=0"`
	BreakDurationMins       int    `json:"breakDurationMins" binding:"min=0"`
}

// CreateSchedule handles creating a doctor's schedule entry for a weekday.
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req ScheduleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", req.DoctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor not found or user is not a doctor")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}

	schedule := models.Schedule{
		DoctorID:                req.DoctorID,
		Day:                     time.Weekday(req.Day),
		StartTime:               req.StartTime,
		EndTime:                 req.EndTime,
		ExaminationDurationMins: req.ExaminationDurationMins,
		BreakDurationMins:       req.BreakDurationMins,
	}
	if err := schedule.Validate(); err != nil {
		utils.BadRequest(c, "Invalid schedule: "+err.Error())
		return
	}

	// The unique (doctor, day) index keeps one entry per weekday.
	existing, err := h.Schedules.ByDoctorAndDay(req.DoctorID, schedule.Day)
	if err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if existing != nil {
		utils.Conflict(c, "Doctor already has a schedule for this day. Update it instead.")
		return
	}

	if err := h.Schedules.Create(&schedule); err != nil {
		utils.InternalServerError(c, "Failed to create schedule: "+err.Error())
		return
	}

	utils.Created(c, "Schedule created successfully", schedule)
}

// GetSchedulesForDoctor handles fetching all schedule entries of a doctor.
func (h *ScheduleHandler) GetSchedulesForDoctor(c *gin.Context) {
	doctorID := c.Param("doctorId")
	if _, err := uuid.Parse(doctorID); err != nil {
		utils.BadRequest(c, "Invalid Doctor ID format")
		return
	}

	schedules, err := h.Schedules.ByDoctor(doctorID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch schedules: "+err.Error())
		return
	}

	utils.Success(c, "Schedules fetched successfully", schedules)
}

// UpdateSchedule handles updating an existing schedule entry.
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	scheduleID := c.Param("id")
	if _, err := uuid.Parse(scheduleID); err != nil {
		utils.BadRequest(c, "Invalid Schedule ID format")
		return
	}

	var req ScheduleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	schedule, err := h.Schedules.ByID(scheduleID)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			utils.NotFound(c, "Schedule not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	schedule.Day = time.Weekday(req.Day)
	schedule.StartTime = req.StartTime
	schedule.EndTime = req.EndTime
	schedule.ExaminationDurationMins = req.ExaminationDurationMins
	schedule.BreakDurationMins = req.BreakDurationMins
	if err := schedule.Validate(); err != nil {
		utils.BadRequest(c, "Invalid schedule: "+err.Error())
		return
	}

	if err := h.Schedules.Update(schedule); err != nil {
		utils.InternalServerError(c, "Failed to update schedule: "+err.Error())
		return
	}

	utils.Success(c, "Schedule updated successfully", schedule)
}

// DeleteSchedule handles removing a schedule entry.
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	scheduleID := c.Param("id")
	if _, err := uuid.Parse(scheduleID); err != nil {
		utils.BadRequest(c, "Invalid Schedule ID format")
		return
	}

	if err := h.Schedules.Delete(scheduleID); err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			utils.NotFound(c, "Schedule not found")
		} else {
			utils.InternalServerError(c, "Failed to delete schedule: "+err.Error())
		}
		return
	}

	utils.Success(c, "Schedule deleted successfully", nil)
}
