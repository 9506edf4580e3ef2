package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"
)

// ChatHandler handles patient-doctor chat. Each patient-doctor pair has
// one session; messages flow through it.
type ChatHandler struct {
	DB *gorm.DB
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(db *gorm.DB) *ChatHandler {
	return &ChatHandler{DB: db}
}

// StartSessionRequest represents the request body for opening a chat session.
type StartSessionRequest struct {
	DoctorID  string `json:"doctorId" binding:"omitempty,uuid"`
	PatientID string `json:"patientId" binding:"omitempty,uuid"`
}

// StartSession opens (or returns the existing) session between a patient
// and a doctor. Patients pass doctorId, doctors pass patientId.
func (h *ChatHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var patientID, doctorID string
	switch userRole {
	case models.RolePatient:
		if req.DoctorID == "" {
			utils.BadRequest(c, "doctorId is required")
			return
		}
		patientID, doctorID = userID, req.DoctorID
	case models.RoleDoctor:
		if req.PatientID == "" {
			utils.BadRequest(c, "patientId is required")
			return
		}
		patientID, doctorID = req.PatientID, userID
	default:
		utils.Forbidden(c, "Only patients and doctors can start chat sessions")
		return
	}

	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", doctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor not found or user is not a doctor")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}
	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", patientID, models.RolePatient).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	var session models.ChatSession
	err := h.DB.Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).First(&session).Error
	if err == nil {
		utils.Success(c, "Chat session already exists", session)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	session = models.ChatSession{PatientID: patientID, DoctorID: doctorID}
	if err := h.DB.Create(&session).Error; err != nil {
		utils.InternalServerError(c, "Failed to create chat session: "+err.Error())
		return
	}

	utils.Created(c, "Chat session created successfully", session)
}

// GetSessions lists all chat sessions the current user participates in.
func (h *ChatHandler) GetSessions(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var sessions []models.ChatSession
	if err := h.DB.Where("patient_id = ? OR doctor_id = ?", userID, userID).
		Order("updated_at desc").Find(&sessions).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch chat sessions: "+err.Error())
		return
	}

	utils.Success(c, "Chat sessions fetched successfully", sessions)
}

// GetSessionMessages lists the messages of a session, oldest first.
// Participants only.
func (h *ChatHandler) GetSessionMessages(c *gin.Context) {
	session, ok := h.loadSessionForParticipant(c)
	if !ok {
		return
	}

	var messages []models.ChatMessage
	if err := h.DB.Where("session_id = ?", session.ID).
		Order("created_at asc").Find(&messages).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch messages: "+err.Error())
		return
	}

	utils.Success(c, "Messages fetched successfully", messages)
}

// SendMessageRequest represents the request body for sending a chat message.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage appends a message to a session. Participants only.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	session, ok := h.loadSessionForParticipant(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	message := models.ChatMessage{
		SessionID: session.ID,
		SenderID:  userID,
		Content:   req.Content,
	}
	if err := h.DB.Create(&message).Error; err != nil {
		utils.InternalServerError(c, "Failed to send message: "+err.Error())
		return
	}

	utils.Created(c, "Message sent successfully", message)
}

// MarkMessageRead stamps a message as read by the receiving participant.
func (h *ChatHandler) MarkMessageRead(c *gin.Context) {
	messageID := c.Param("messageId")
	if _, err := uuid.Parse(messageID); err != nil {
		utils.BadRequest(c, "Invalid Message ID format")
		return
	}

	var message models.ChatMessage
	if err := h.DB.First(&message, "id = ?", messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Message not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var session models.ChatSession
	if err := h.DB.First(&session, "id = ?", message.SessionID).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	if userID != session.PatientID && userID != session.DoctorID {
		utils.Forbidden(c, "You are not a participant of this chat session")
		return
	}
	if userID == message.SenderID {
		utils.BadRequest(c, "You cannot mark your own message as read")
		return
	}

	if message.ReadAt == nil {
		now := time.Now()
		message.ReadAt = &now
		if err := h.DB.Save(&message).Error; err != nil {
			utils.InternalServerError(c, "Failed to mark message as read: "+err.Error())
			return
		}
	}

	utils.Success(c, "Message marked as read", message)
}

// loadSessionForParticipant fetches the session in the :id param and
// checks that the current user belongs to it.
func (h *ChatHandler) loadSessionForParticipant(c *gin.Context) (*models.ChatSession, bool) {
	sessionID := c.Param("id")
	if _, err := uuid.Parse(sessionID); err != nil {
		utils.BadRequest(c, "Invalid Session ID format")
		return nil, false
	}

	var session models.ChatSession
	if err := h.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Chat session not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	if userID != session.PatientID && userID != session.DoctorID {
		utils.Forbidden(c, "You are not a participant of this chat session")
		return nil, false
	}

	return &session, true
}
