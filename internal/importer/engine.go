// Package importer reconciles imported appointment rows into the patient
// aggregates and the appointment ledger.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"showup-server/internal/models"
	"showup-server/internal/repository"
)

// ErrPersistence marks failures of the batch transaction itself. Nothing of
// the batch is committed when it is returned.
var ErrPersistence = errors.New("persistence failure")

// firstDataRow is the number of the first data row; row 1 is the header.
const firstDataRow = 2

// BatchResult is the outcome of one import batch.
type BatchResult struct {
	ImportedCount   uint
	PatientsCreated uint
	Errors          []string
}

// Engine applies import batches to a record store.
type Engine struct {
	store repository.RecordStore
}

// NewEngine creates a new Engine.
func NewEngine(store repository.RecordStore) *Engine {
	return &Engine{store: store}
}

// rowError is a problem confined to a single row; the batch continues.
type rowError struct {
	msg string
}

func (e *rowError) Error() string { return e.msg }

// ImportBatch applies rows for a provider in one transaction. Invalid rows are
// reported in BatchResult.Errors and do not stop the batch. The returned error
// is non-nil only when the batch as a whole failed, in which case nothing was
// committed.
func (e *Engine) ImportBatch(ctx context.Context, providerID uint, rows []Row) (*BatchResult, error) {
	result := &BatchResult{}

	err := e.store.InTransaction(ctx, func(tx repository.TxStore) error {
		for i, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			rowNum := i + firstDataRow

			parsed, err := parseRow(row, rowNum)
			if err != nil {
				result.Errors = append(result.Errors, err.Error())
				continue
			}

			created, err := e.applyRow(ctx, tx, providerID, parsed, rowNum)
			if err != nil {
				var rowErr *rowError
				if errors.As(err, &rowErr) {
					result.Errors = append(result.Errors, rowErr.Error())
					continue
				}
				return err
			}

			result.ImportedCount++
			if created {
				result.PatientsCreated++
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return result, nil
}

// parsedRow is a row that passed validation.
type parsedRow struct {
	patientCode     string
	appointmentType string
	showedUp        bool
	at              time.Time
}

func rowErrorf(rowNum int, format string, args ...any) *rowError {
	return &rowError{msg: fmt.Sprintf("Row %d: ", rowNum) + fmt.Sprintf(format, args...)}
}

func parseRow(row Row, rowNum int) (*parsedRow, error) {
	patientCode := strings.TrimSpace(row.PatientCode)
	rawDateTime := strings.TrimSpace(row.AppointmentDateTime)
	appointmentType := strings.TrimSpace(row.AppointmentType)

	if patientCode == "" || rawDateTime == "" {
		return nil, rowErrorf(rowNum, "Missing patient_code or appointment_datetime")
	}

	at, err := ParseDateTime(rawDateTime)
	if err != nil {
		return nil, rowErrorf(rowNum, "Invalid datetime format: %s", rawDateTime)
	}

	if appointmentType == "" {
		appointmentType = models.DefaultAppointmentType
	}

	return &parsedRow{
		patientCode:     patientCode,
		appointmentType: appointmentType,
		showedUp:        ParseShowedUp(row.ShowedUp),
		at:              at,
	}, nil
}

// applyRow resolves the patient, appends the appointment and folds the outcome
// into the patient summary. The writes run under a savepoint so that a failed
// row leaves nothing behind. It reports whether the patient was created.
func (e *Engine) applyRow(ctx context.Context, tx repository.TxStore, providerID uint, row *parsedRow, rowNum int) (bool, error) {
	savepoint := fmt.Sprintf("import_row_%d", rowNum)
	if err := tx.SavePoint(savepoint); err != nil {
		return false, fmt.Errorf("savepoint for row %d: %w", rowNum, err)
	}

	created, err := writeRow(ctx, tx, providerID, row)
	if err == nil {
		return created, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if rbErr := tx.RollbackTo(savepoint); rbErr != nil {
		return false, fmt.Errorf("rollback row %d: %w", rowNum, rbErr)
	}
	return false, rowErrorf(rowNum, "%v", err)
}

func writeRow(ctx context.Context, tx repository.TxStore, providerID uint, row *parsedRow) (bool, error) {
	created := false
	patient, err := tx.FindPatientByCode(ctx, providerID, row.patientCode)
	if errors.Is(err, repository.ErrNotFound) {
		patient = &models.Patient{
			ProviderID:   providerID,
			PatientCode:  row.patientCode,
			IsNewPatient: true,
		}
		if err := tx.CreatePatient(ctx, patient); err != nil {
			return false, err
		}
		created = true
	} else if err != nil {
		return false, err
	}

	appointment := models.NewCompletedAppointment(providerID, patient.ID, row.at, row.appointmentType, row.showedUp)
	if err := tx.CreateAppointment(ctx, appointment); err != nil {
		return false, err
	}

	patient.RecordOutcome(row.at, *appointment.DidNoShow)
	if err := tx.UpdatePatient(ctx, patient); err != nil {
		return false, err
	}
	return created, nil
}
