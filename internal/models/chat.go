package models

import (
	"time"
)

// ChatSession pairs one patient with one doctor. All messages between the
// two flow through their single session.
type ChatSession struct {
	BaseModel
	PatientID string `gorm:"size:36;uniqueIndex:idx_session_pair" json:"patientId"`
	DoctorID  string `gorm:"size:36;uniqueIndex:idx_session_pair" json:"doctorId"`

	Patient  User          `gorm:"foreignKey:PatientID" json:"-"`
	Doctor   User          `gorm:"foreignKey:DoctorID" json:"-"`
	Messages []ChatMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

// ChatMessage is a single message inside a chat session.
type ChatMessage struct {
	BaseModel
	SessionID string     `gorm:"size:36;index" json:"sessionId"`
	SenderID  string     `gorm:"size:36;index" json:"senderId"`
	Content   string     `gorm:"type:text" json:"content"`
	ReadAt    *time.Time `json:"readAt,omitempty"`

	Session ChatSession `gorm:"foreignKey:SessionID" json:"-"`
	Sender  User        `gorm:"foreignKey:SenderID" json:"-"`
}
