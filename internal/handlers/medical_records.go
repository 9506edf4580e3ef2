package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/store"
	"clinic-app-server/internal/utils"
)

// MedicalRecordHandler handles medical record related requests. Creating a
// record is the completion flow: it finalizes the appointment.
type MedicalRecordHandler struct {
	Manager      *scheduling.Manager
	Records      *store.MedicalRecordStore
	Appointments *store.AppointmentStore
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(manager *scheduling.Manager, records *store.MedicalRecordStore, appointments *store.AppointmentStore) *MedicalRecordHandler {
	return &MedicalRecordHandler{Manager: manager, Records: records, Appointments: appointments}
}

// CompleteAppointmentRequest represents the request body for completing an
// appointment with its medical record.
type CompleteAppointmentRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required,uuid"`
	Diagnosis     string `json:"diagnosis" binding:"required"`
	Prescription  string `json:"prescription"`
}

// CompleteAppointment creates the medical record for an appointment and
// moves the appointment to completed in one atomic unit. Only the doctor
// involved may complete it.
func (h *MedicalRecordHandler) CompleteAppointment(c *gin.Context) {
	var req CompleteAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Doctor ID not found in token")
		return
	}

	appointment, err := h.Appointments.ByID(req.AppointmentID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	if appointment.DoctorID != doctorID {
		utils.Forbidden(c, "Only the doctor of this appointment can complete it.")
		return
	}

	record, err := h.Manager.Complete(req.AppointmentID, req.Diagnosis, req.Prescription)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment completed and medical record created", record)
}

// GetMedicalRecordByID handles fetching a single medical record.
// Accessible by the patient it belongs to, the authoring doctor, or an admin.
func (h *MedicalRecordHandler) GetMedicalRecordByID(c *gin.Context) {
	recordID := c.Param("id")
	if _, err := uuid.Parse(recordID); err != nil {
		utils.BadRequest(c, "Invalid Medical Record ID format")
		return
	}

	record, err := h.Records.ByID(recordID)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			utils.NotFound(c, "Medical record not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleAdmin && userID != record.PatientID && userID != record.DoctorID {
		utils.Forbidden(c, "You are not authorized to view this medical record")
		return
	}

	utils.Success(c, "Medical record fetched successfully", record)
}

// GetMedicalRecordsForPatient handles fetching a patient's medical records.
// Accessible by the patient themselves, doctors, or admins.
func (h *MedicalRecordHandler) GetMedicalRecordsForPatient(c *gin.Context) {
	patientID := c.Param("patientId")
	if _, err := uuid.Parse(patientID); err != nil {
		utils.BadRequest(c, "Invalid Patient ID format")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RolePatient && userID != patientID {
		utils.Forbidden(c, "Patients can only view their own medical records.")
		return
	}

	records, err := h.Records.ByPatient(patientID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch medical records: "+err.Error())
		return
	}

	utils.Success(c, "Medical records fetched successfully", records)
}
