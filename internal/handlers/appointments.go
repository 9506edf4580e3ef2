package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/store"
	"clinic-app-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB           *gorm.DB
	Manager      *scheduling.Manager
	Calculator   *scheduling.Calculator
	Appointments *store.AppointmentStore
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, manager *scheduling.Manager, calc *scheduling.Calculator, appointments *store.AppointmentStore) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Manager: manager, Calculator: calc, Appointments: appointments}
}

// respondSchedulingError maps core errors onto the response envelope.
func respondSchedulingError(c *gin.Context, err error) {
	var conflict *scheduling.ConflictError
	var transition *scheduling.TransitionError
	switch {
	case errors.Is(err, scheduling.ErrNotFound):
		utils.NotFound(c, "Appointment not found")
	case errors.As(err, &conflict):
		utils.Conflict(c, conflict.Reason+". Please choose a different time.")
	case errors.Is(err, scheduling.ErrSlotTaken):
		utils.Conflict(c, "The time slot was just taken. Please choose a different time.")
	case errors.As(err, &transition):
		utils.BadRequest(c, transition.Error())
	case errors.Is(err, scheduling.ErrSelfFollowup), errors.Is(err, scheduling.ErrFollowupCycle):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalServerError(c, "Scheduling operation failed: "+err.Error())
	}
}

// CheckAvailability handles a single-instant availability query.
func (h *AppointmentHandler) CheckAvailability(c *gin.Context) {
	doctorID := c.Query("doctorId")
	if _, err := uuid.Parse(doctorID); err != nil {
		utils.BadRequest(c, "Invalid or missing doctorId")
		return
	}
	at, err := time.Parse(time.RFC3339, c.Query("at"))
	if err != nil {
		utils.BadRequest(c, "Invalid 'at' timestamp. Use RFC3339 format (e.g., 2006-01-02T15:04:05Z07:00)")
		return
	}

	result, err := h.Calculator.Check(doctorID, at)
	if err != nil {
		utils.InternalServerError(c, "Availability check failed: "+err.Error())
		return
	}

	utils.Success(c, "Availability checked", result)
}

// ListFreeSlots handles listing a doctor's free intervals for a date.
func (h *AppointmentHandler) ListFreeSlots(c *gin.Context) {
	doctorID := c.Query("doctorId")
	if _, err := uuid.Parse(doctorID); err != nil {
		utils.BadRequest(c, "Invalid or missing doctorId")
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		utils.BadRequest(c, "Invalid 'date'. Use YYYY-MM-DD format")
		return
	}

	slots, err := h.Calculator.FreeSlots(doctorID, date)
	if err != nil {
		utils.InternalServerError(c, "Failed to compute free slots: "+err.Error())
		return
	}

	utils.Success(c, "Free slots fetched successfully", slots)
}

// BookAppointmentRequest represents the request body for booking an appointment.
type BookAppointmentRequest struct {
	DoctorID        string    `json:"doctorId" binding:"required,uuid"`
	PatientID       string    `json:"patientId" binding:"required,uuid"`
	AppointmentDate time.Time `json:"appointmentDate" binding:"required"`
}

// BookAppointment handles booking a new appointment. Patients book for
// themselves; doctors and admins may book on a patient's behalf.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	callerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	callerRole, _ := middleware.GetUserRoleFromContext(c)
	if callerRole == models.RolePatient && callerID != req.PatientID {
		utils.Forbidden(c, "Patients can only book appointments for themselves.")
		return
	}

	// Verify doctor exists and is a doctor
	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", req.DoctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor not found or user is not a doctor")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}
	// Verify patient exists
	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", req.PatientID, models.RolePatient).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	appointment, err := h.Manager.Book(req.DoctorID, req.PatientID, req.AppointmentDate)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment booked successfully", appointment)
}

// GetAppointmentsForUser handles fetching appointments for the logged-in
// user (patient or doctor). Admins see all appointments.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointments []models.Appointment
	var err error
	query := h.DB.Order("appointment_date asc")

	switch userRole {
	case models.RolePatient:
		err = query.Where("patient_id = ?", userID).Find(&appointments).Error
	case models.RoleDoctor:
		err = query.Where("doctor_id = ?", userID).Find(&appointments).Error
	case models.RoleAdmin:
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments.")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
// Accessible by involved patient, doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointmentID := c.Param("id")
	if _, err := uuid.Parse(appointmentID); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	appointment, err := h.Appointments.ByID(appointmentID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleAdmin && userID != appointment.PatientID && userID != appointment.DoctorID {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
type RescheduleAppointmentRequest struct {
	NewAppointmentDate time.Time `json:"newAppointmentDate" binding:"required"`
}

// RescheduleAppointment moves a scheduled appointment to a new instant.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	appointmentID := c.Param("id")
	if _, err := uuid.Parse(appointmentID); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if !h.authorizeMutation(c, appointmentID) {
		return
	}

	appointment, err := h.Manager.Reschedule(appointmentID, req.NewAppointmentDate)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", appointment)
}

// CancelAppointment moves an appointment to its terminal cancelled status.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appointmentID := c.Param("id")
	if _, err := uuid.Parse(appointmentID); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	if !h.authorizeMutation(c, appointmentID) {
		return
	}

	appointment, err := h.Manager.Cancel(appointmentID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment cancelled successfully", appointment)
}

// LinkFollowupRequest represents the request body for linking a follow-up.
type LinkFollowupRequest struct {
	FollowupID string `json:"followupId" binding:"required,uuid"`
}

// LinkFollowup records another appointment as the follow-up of this one.
// Admin only; route-level middleware enforces the role.
func (h *AppointmentHandler) LinkFollowup(c *gin.Context) {
	appointmentID := c.Param("id")
	if _, err := uuid.Parse(appointmentID); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var req LinkFollowupRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Manager.LinkFollowup(appointmentID, req.FollowupID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Follow-up linked successfully", appointment)
}

// authorizeMutation checks that the caller may reschedule or cancel the
// appointment: the involved patient, the involved doctor, or an admin.
func (h *AppointmentHandler) authorizeMutation(c *gin.Context, appointmentID string) bool {
	appointment, err := h.Appointments.ByID(appointmentID)
	if err != nil {
		respondSchedulingError(c, err)
		return false
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RoleAdmin || userID == appointment.PatientID || userID == appointment.DoctorID {
		return true
	}

	utils.Forbidden(c, "You are not authorized to modify this appointment.")
	return false
}
