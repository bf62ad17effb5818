package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"showup-server/internal/features"
	"showup-server/internal/metrics"
	"showup-server/internal/models"
	"showup-server/internal/predictor"
	"showup-server/internal/repository"

	"go.uber.org/zap"
)

// TrainingResult describes a finished training run.
type TrainingResult struct {
	Metrics         predictor.Metrics
	TrainingSamples int
	ModelVersion    string
}

// RiskAssessment is a prediction together with its reminder plan.
type RiskAssessment struct {
	Prediction     predictor.Prediction
	Recommendation string
	KnownPatient   bool
}

// RiskService trains the no-show model from the ledger and scores upcoming
// appointments.
type RiskService struct {
	store      repository.RecordStore
	classifier *predictor.Classifier
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewRiskService creates a new RiskService.
func NewRiskService(store repository.RecordStore, classifier *predictor.Classifier, m *metrics.Metrics, logger *zap.Logger) *RiskService {
	return &RiskService{
		store:      store,
		classifier: classifier,
		metrics:    m,
		logger:     logger,
	}
}

// Train fits the model on every appointment with a known outcome and records
// the run's metrics.
func (s *RiskService) Train(ctx context.Context) (*TrainingResult, error) {
	samples, err := s.labeledSamples(ctx)
	if err != nil {
		s.metrics.TrainingRunsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	s.logger.Info("training no-show model", zap.Int("samples", len(samples)))
	m, err := s.classifier.Train(ctx, samples)
	if err != nil {
		outcome := "failed"
		if errors.Is(err, predictor.ErrInsufficientData) {
			outcome = "insufficient_data"
		}
		s.metrics.TrainingRunsTotal.WithLabelValues(outcome).Inc()
		s.logger.Warn("training failed", zap.Int("samples", len(samples)), zap.Error(err))
		return nil, err
	}

	params := s.classifier.Params()
	importance, err := json.Marshal(coefficients(params))
	if err != nil {
		return nil, fmt.Errorf("encode feature importance: %w", err)
	}
	record := &models.ModelMetrics{
		ModelVersion:      params.Version,
		ModelType:         params.ModelType,
		TrainingSamples:   len(samples),
		TrainingDate:      params.TrainedAt,
		Accuracy:          m.Accuracy,
		Precision:         m.Precision,
		Recall:            m.Recall,
		F1Score:           m.F1Score,
		FeatureImportance: string(importance),
	}
	if err := s.store.SaveModelMetrics(ctx, record); err != nil {
		// the model itself is already persisted and serving
		s.logger.Error("failed to record model metrics", zap.String("model_version", params.Version), zap.Error(err))
	}

	s.metrics.TrainingRunsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("model trained",
		zap.String("model_version", params.Version),
		zap.Float64("accuracy", m.Accuracy),
		zap.Float64("precision", m.Precision),
		zap.Float64("recall", m.Recall),
		zap.Float64("f1_score", m.F1Score),
	)

	return &TrainingResult{
		Metrics:         *m,
		TrainingSamples: len(samples),
		ModelVersion:    params.Version,
	}, nil
}

// Assess predicts the no-show risk of an appointment for a patient code.
// Unknown patients are scored as new patients without history.
func (s *RiskService) Assess(ctx context.Context, providerID uint, patientCode string, at time.Time) (*RiskAssessment, error) {
	patient, err := s.store.FindPatientByCode(ctx, providerID, patientCode)
	if errors.Is(err, repository.ErrNotFound) {
		patient = nil
	} else if err != nil {
		return nil, err
	}

	prediction, err := s.classifier.Predict(ctx, features.Build(at, patient))
	if err != nil {
		return nil, err
	}
	s.metrics.PredictionsTotal.WithLabelValues(string(prediction.RiskLevel)).Inc()

	return &RiskAssessment{
		Prediction:     *prediction,
		Recommendation: predictor.Recommendation(prediction.RiskLevel),
		KnownPatient:   patient != nil,
	}, nil
}

// labeledSamples joins each labeled appointment with its patient's current
// summary.
func (s *RiskService) labeledSamples(ctx context.Context) ([]predictor.Sample, error) {
	appointments, err := s.store.ListLabeledAppointments(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.store.ListAllPatients(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Patient, len(patients))
	for i := range patients {
		byID[patients[i].ID] = &patients[i]
	}

	samples := make([]predictor.Sample, 0, len(appointments))
	for _, a := range appointments {
		if a.DidNoShow == nil {
			continue
		}
		samples = append(samples, predictor.Sample{
			Features:  features.Build(a.AppointmentDateTime, byID[a.PatientID]),
			DidNoShow: *a.DidNoShow,
		})
	}
	return samples, nil
}

func coefficients(params *predictor.Params) map[string]float64 {
	out := make(map[string]float64, features.Size)
	for i, name := range params.FeatureNames {
		out[name] = params.Weights[i]
	}
	return out
}
