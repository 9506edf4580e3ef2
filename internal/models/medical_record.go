package models

// MedicalRecord holds the outcome of a completed appointment. Exactly one
// record may exist per appointment; it is created only by the completion
// flow, which also moves the appointment to its terminal completed status.
type MedicalRecord struct {
	BaseModel
	AppointmentID string `gorm:"size:36;uniqueIndex;not null" json:"appointmentId"`
	PatientID     string `gorm:"size:36;index" json:"patientId"`
	DoctorID      string `gorm:"size:36;index" json:"doctorId"`
	Diagnosis     string `gorm:"type:text" json:"diagnosis"`
	Prescription  string `gorm:"type:text" json:"prescription"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}
