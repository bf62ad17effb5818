package repository

import (
	"context"
	"errors"
	"fmt"

	"showup-server/internal/models"

	"gorm.io/gorm"
)

// Compile-time checks
var (
	_ RecordStore = (*GormRepository)(nil)
	_ TxStore     = (*gormTx)(nil)
)

// GormRepository implements RecordStore on top of gorm.
type GormRepository struct {
	DB *gorm.DB
}

// NewGormRepository creates a new GormRepository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

// EnsureProvider returns the provider with the given id, creating a default one
// when it does not exist yet.
func (r *GormRepository) EnsureProvider(ctx context.Context, id uint) (*models.Provider, error) {
	var provider models.Provider
	err := r.DB.WithContext(ctx).First(&provider, "id = ?", id).Error
	if err == nil {
		return &provider, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find provider %d: %w", id, err)
	}

	provider = models.Provider{
		Name:         "Default Provider",
		Email:        fmt.Sprintf("provider%d@example.com", id),
		PracticeType: "dental",
	}
	provider.ID = id
	if err := r.DB.WithContext(ctx).Create(&provider).Error; err != nil {
		return nil, fmt.Errorf("create provider %d: %w", id, err)
	}
	return &provider, nil
}

func (r *GormRepository) FindPatientByCode(ctx context.Context, providerID uint, code string) (*models.Patient, error) {
	return findPatientByCode(r.DB.WithContext(ctx), providerID, code)
}

func (r *GormRepository) ListPatients(ctx context.Context, providerID uint) ([]models.Patient, error) {
	var patients []models.Patient
	err := r.DB.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("patient_code asc").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (r *GormRepository) ListAllPatients(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := r.DB.WithContext(ctx).Order("id asc").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// ListLabeledAppointments returns every appointment with a known outcome.
func (r *GormRepository) ListLabeledAppointments(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.DB.WithContext(ctx).
		Where("did_noshow IS NOT NULL").
		Order("id asc").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("list labeled appointments: %w", err)
	}
	return appointments, nil
}

func (r *GormRepository) GetStats(ctx context.Context) (*Stats, error) {
	db := r.DB.WithContext(ctx)
	var stats Stats
	if err := db.Model(&models.Appointment{}).Count(&stats.TotalAppointments).Error; err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	if err := db.Model(&models.Patient{}).Count(&stats.TotalPatients).Error; err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	if err := db.Model(&models.Appointment{}).Where("did_noshow = ?", true).Count(&stats.TotalNoShows).Error; err != nil {
		return nil, fmt.Errorf("count no-shows: %w", err)
	}
	return &stats, nil
}

func (r *GormRepository) SaveModelMetrics(ctx context.Context, metrics *models.ModelMetrics) error {
	if err := r.DB.WithContext(ctx).Create(metrics).Error; err != nil {
		return fmt.Errorf("save model metrics: %w", err)
	}
	return nil
}

func (r *GormRepository) LatestModelMetrics(ctx context.Context) (*models.ModelMetrics, error) {
	var metrics models.ModelMetrics
	err := r.DB.WithContext(ctx).Order("id desc").First(&metrics).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest model metrics: %w", err)
	}
	return &metrics, nil
}

func (r *GormRepository) InTransaction(ctx context.Context, fn func(tx TxStore) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

// gormTx is the TxStore bound to an open gorm transaction.
type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) FindPatientByCode(ctx context.Context, providerID uint, code string) (*models.Patient, error) {
	return findPatientByCode(t.db.WithContext(ctx), providerID, code)
}

func (t *gormTx) CreatePatient(ctx context.Context, patient *models.Patient) error {
	if err := t.db.WithContext(ctx).Create(patient).Error; err != nil {
		return fmt.Errorf("create patient %s: %w", patient.PatientCode, err)
	}
	return nil
}

func (t *gormTx) UpdatePatient(ctx context.Context, patient *models.Patient) error {
	if err := t.db.WithContext(ctx).Save(patient).Error; err != nil {
		return fmt.Errorf("update patient %s: %w", patient.PatientCode, err)
	}
	return nil
}

func (t *gormTx) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	if err := t.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

func (t *gormTx) SavePoint(name string) error {
	return t.db.SavePoint(name).Error
}

func (t *gormTx) RollbackTo(name string) error {
	return t.db.RollbackTo(name).Error
}

func findPatientByCode(db *gorm.DB, providerID uint, code string) (*models.Patient, error) {
	var patient models.Patient
	err := db.Where("provider_id = ? AND patient_code = ?", providerID, code).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find patient %s: %w", code, err)
	}
	return &patient, nil
}
