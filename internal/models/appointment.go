package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "noshow"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AttendanceOutcome is what actually happened at the appointment time
type AttendanceOutcome string

const (
	OutcomeShowed AttendanceOutcome = "showed"
	OutcomeNoShow AttendanceOutcome = "noshow"
)

// DefaultAppointmentType is used when an import row leaves the type blank.
const DefaultAppointmentType = "general"

// Appointment is one entry of the appointment ledger. Imported entries are
// never modified afterwards.
type Appointment struct {
	BaseModel
	ProviderID          uint              `gorm:"not null;index" json:"provider_id"`
	PatientID           uint              `gorm:"not null;index" json:"patient_id"`
	AppointmentDateTime time.Time         `gorm:"column:appointment_datetime;not null;index" json:"appointment_datetime"`
	DurationMinutes     int               `gorm:"not null;default:30" json:"duration_minutes"`
	AppointmentType     string            `gorm:"size:100" json:"appointment_type"` // cleaning, checkup, procedure, ...
	ScheduledAt         time.Time         `json:"scheduled_at"`
	DaysInAdvance       int               `json:"days_in_advance"`
	Status              AppointmentStatus `gorm:"size:50;default:'scheduled'" json:"status"`
	ActualStatus        AttendanceOutcome `gorm:"size:50" json:"actual_status,omitempty"`
	DidNoShow           *bool             `gorm:"column:did_noshow" json:"did_noshow"` // nil until the appointment has happened

	ReminderSentCount int        `gorm:"not null;default:0" json:"reminder_sent_count"`
	LastReminderSent  *time.Time `json:"last_reminder_sent,omitempty"`
	PatientConfirmed  bool       `gorm:"not null;default:false" json:"patient_confirmed"`
	ConfirmedAt       *time.Time `json:"confirmed_at,omitempty"`
	Notes             string     `gorm:"type:text" json:"notes,omitempty"`
}

// NewCompletedAppointment builds the ledger entry for an appointment whose
// outcome is already known.
func NewCompletedAppointment(providerID, patientID uint, at time.Time, appointmentType string, showedUp bool) *Appointment {
	didNoShow := !showedUp
	outcome := OutcomeShowed
	if didNoShow {
		outcome = OutcomeNoShow
	}
	return &Appointment{
		ProviderID:          providerID,
		PatientID:           patientID,
		AppointmentDateTime: at,
		DurationMinutes:     30,
		AppointmentType:     appointmentType,
		ScheduledAt:         at,
		Status:              StatusCompleted,
		ActualStatus:        outcome,
		DidNoShow:           &didNoShow,
	}
}
