// Package features turns an appointment and its patient's history into the
// numeric inputs of the risk model.
package features

import (
	"time"

	"showup-server/internal/models"
)

// Size is the length of a feature vector.
const Size = 8

// Vector is the fixed-order model input.
type Vector [Size]float64

// Names labels each position of a Vector.
var Names = [Size]string{
	"day_of_week",
	"hour_of_day",
	"is_morning",
	"is_monday",
	"is_friday",
	"patient_noshow_rate",
	"patient_appointment_count",
	"is_new_patient",
}

// Build derives the feature vector for an appointment at the given time.
// A nil patient stands for someone with no recorded history.
func Build(at time.Time, patient *models.Patient) Vector {
	// Monday is 0 and Sunday is 6.
	dayOfWeek := (int(at.Weekday()) + 6) % 7
	hour := at.Hour()

	noShowRate := 0.0
	appointmentCount := 0.0
	isNew := true
	if patient != nil {
		noShowRate = patient.NoShowRate
		appointmentCount = float64(patient.TotalAppointments)
		isNew = patient.IsNewPatient
	}

	return Vector{
		float64(dayOfWeek),
		float64(hour),
		boolToFloat(hour < 12),
		boolToFloat(dayOfWeek == 0),
		boolToFloat(dayOfWeek == 4),
		noShowRate,
		appointmentCount,
		boolToFloat(isNew),
	}
}

// Map returns the vector keyed by feature name.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, Size)
	for i, name := range Names {
		m[name] = v[i]
	}
	return m
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
