package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"showup-server/internal/importer"
	"showup-server/internal/metrics"
	"showup-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidUpload is returned when the uploaded file cannot be decoded as CSV.
var ErrInvalidUpload = errors.New("invalid upload")

// ImportService runs CSV appointment imports for a provider.
type ImportService struct {
	store   repository.RecordStore
	engine  *importer.Engine
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(store repository.RecordStore, m *metrics.Metrics, logger *zap.Logger) *ImportService {
	return &ImportService{
		store:   store,
		engine:  importer.NewEngine(store),
		metrics: m,
		logger:  logger,
	}
}

// ImportCSV decodes r and applies its rows for providerID as one batch.
func (s *ImportService) ImportCSV(ctx context.Context, providerID uint, r io.Reader) (*importer.BatchResult, error) {
	batchID := uuid.NewString()
	log := s.logger.With(zap.String("batch_id", batchID), zap.Uint("provider_id", providerID))

	rows, err := importer.ReadRows(r)
	if err != nil {
		s.metrics.ImportBatchesTotal.WithLabelValues("failed").Inc()
		log.Warn("rejected import file", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}

	if _, err := s.store.EnsureProvider(ctx, providerID); err != nil {
		s.metrics.ImportBatchesTotal.WithLabelValues("failed").Inc()
		log.Error("failed to ensure provider", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", importer.ErrPersistence, err)
	}

	start := time.Now()
	result, err := s.engine.ImportBatch(ctx, providerID, rows)
	s.metrics.ImportDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ImportBatchesTotal.WithLabelValues("failed").Inc()
		log.Error("import batch failed", zap.Int("rows", len(rows)), zap.Error(err))
		return nil, err
	}

	s.metrics.ImportBatchesTotal.WithLabelValues("ok").Inc()
	s.metrics.ImportRowsTotal.WithLabelValues("imported").Add(float64(result.ImportedCount))
	s.metrics.ImportRowsTotal.WithLabelValues("rejected").Add(float64(len(result.Errors)))
	s.metrics.PatientsCreatedTotal.Add(float64(result.PatientsCreated))

	log.Info("import batch committed",
		zap.Int("rows", len(rows)),
		zap.Uint("imported", result.ImportedCount),
		zap.Uint("patients_created", result.PatientsCreated),
		zap.Int("row_errors", len(result.Errors)),
		zap.Duration("elapsed", time.Since(start)),
	)
	for _, rowErr := range result.Errors {
		log.Debug("import row rejected", zap.String("error", rowErr))
	}
	return result, nil
}
