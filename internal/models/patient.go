package models

import (
	"time"
)

// ContactPreference is the channel a patient prefers for reminders
type ContactPreference string

const (
	ContactSMS   ContactPreference = "sms"
	ContactEmail ContactPreference = "email"
	ContactBoth  ContactPreference = "both"
)

// Patient is the running attendance summary for one patient code of a provider.
// Patient codes are anonymized identifiers; no names are stored.
type Patient struct {
	BaseModel
	ProviderID       uint              `gorm:"not null;uniqueIndex:idx_provider_patient_code" json:"provider_id"`
	PatientCode      string            `gorm:"size:50;not null;uniqueIndex:idx_provider_patient_code" json:"patient_code"`
	Phone            string            `gorm:"size:20" json:"phone,omitempty"`
	Email            string            `gorm:"size:200" json:"email,omitempty"`
	PreferredContact ContactPreference `gorm:"size:20" json:"preferred_contact,omitempty"`

	TotalAppointments uint       `gorm:"not null;default:0" json:"total_appointments"`
	TotalNoShow       uint       `gorm:"column:total_noshow;not null;default:0" json:"total_noshow"`
	TotalCancelled    uint       `gorm:"not null;default:0" json:"total_cancelled"`
	NoShowRate        float64    `gorm:"column:noshow_rate;not null;default:0" json:"noshow_rate"`
	IsNewPatient      bool       `gorm:"not null;default:true" json:"is_new_patient"`
	LastAppointment   *time.Time `json:"last_appointment,omitempty"`
}

// RecordOutcome folds one attended or missed appointment into the summary.
func (p *Patient) RecordOutcome(at time.Time, didNoShow bool) {
	p.TotalAppointments++
	if didNoShow {
		p.TotalNoShow++
	}
	p.NoShowRate = float64(p.TotalNoShow) / float64(p.TotalAppointments)
	last := at
	p.LastAppointment = &last
	p.IsNewPatient = false
}
