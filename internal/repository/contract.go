package repository

import (
	"context"
	"errors"

	"showup-server/internal/models"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// Stats summarises the appointment ledger.
type Stats struct {
	TotalAppointments int64
	TotalPatients     int64
	TotalNoShows      int64
}

// NoShowPercent is the share of no-shows across all appointments, 0 when empty.
func (s Stats) NoShowPercent() float64 {
	if s.TotalAppointments == 0 {
		return 0
	}
	return float64(s.TotalNoShows) / float64(s.TotalAppointments) * 100
}

// TxStore is the set of writes available inside one import transaction.
type TxStore interface {
	FindPatientByCode(ctx context.Context, providerID uint, code string) (*models.Patient, error)
	CreatePatient(ctx context.Context, patient *models.Patient) error
	UpdatePatient(ctx context.Context, patient *models.Patient) error
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	SavePoint(name string) error
	RollbackTo(name string) error
}

// RecordStore is the persistent store for providers, patients, appointments
// and training history.
type RecordStore interface {
	EnsureProvider(ctx context.Context, id uint) (*models.Provider, error)
	FindPatientByCode(ctx context.Context, providerID uint, code string) (*models.Patient, error)
	ListPatients(ctx context.Context, providerID uint) ([]models.Patient, error)
	ListAllPatients(ctx context.Context) ([]models.Patient, error)
	ListLabeledAppointments(ctx context.Context) ([]models.Appointment, error)
	GetStats(ctx context.Context) (*Stats, error)
	SaveModelMetrics(ctx context.Context, metrics *models.ModelMetrics) error
	LatestModelMetrics(ctx context.Context) (*models.ModelMetrics, error)

	// InTransaction runs fn in one write transaction. The transaction commits
	// when fn returns nil and rolls back otherwise.
	InTransaction(ctx context.Context, fn func(tx TxStore) error) error
}
