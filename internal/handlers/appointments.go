package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"showup-server/internal/importer"
	"showup-server/internal/middleware"
	"showup-server/internal/predictor"
	"showup-server/internal/repository"
	"showup-server/internal/services"
	"showup-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes bounds the size of an import file.
const maxUploadBytes = 32 << 20

// AppointmentHandler handles appointment import, statistics and risk requests.
type AppointmentHandler struct {
	Store   repository.RecordStore
	Imports *services.ImportService
	Risk    *services.RiskService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(store repository.RecordStore, imports *services.ImportService, risk *services.RiskService) *AppointmentHandler {
	return &AppointmentHandler{Store: store, Imports: imports, Risk: risk}
}

// ImportResponse is the body returned by ImportCSV.
type ImportResponse struct {
	Success              bool     `json:"success"`
	Message              string   `json:"message"`
	AppointmentsImported uint     `json:"appointments_imported"`
	PatientsCreated      uint     `json:"patients_created"`
	Errors               []string `json:"errors"`
}

// ImportCSV handles a multipart CSV upload of historical appointments.
func (h *AppointmentHandler) ImportCSV(c *gin.Context) {
	providerID, ok := middleware.GetProviderIDFromContext(c)
	if !ok {
		utils.InternalServerError(c, "Provider scope not resolved")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "A CSV file is required in the 'file' field")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequest(c, "Failed to open uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	contents, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		utils.BadRequest(c, "Failed to read uploaded file: "+err.Error())
		return
	}
	if len(contents) > maxUploadBytes {
		utils.Error(c, http.StatusRequestEntityTooLarge, "File exceeds the 32 MiB upload limit")
		return
	}

	result, err := h.Imports.ImportCSV(c.Request.Context(), providerID, bytes.NewReader(contents))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUpload):
			utils.BadRequest(c, "Invalid CSV file: "+err.Error())
		case errors.Is(err, importer.ErrPersistence), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			utils.InternalServerError(c, "Import failed, no appointments were saved: "+err.Error())
		default:
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	resp := ImportResponse{
		Success:              true,
		Message:              fmt.Sprintf("Successfully imported %d appointments", result.ImportedCount),
		AppointmentsImported: result.ImportedCount,
		PatientsCreated:      result.PatientsCreated,
	}
	if len(result.Errors) > 0 {
		resp.Errors = result.Errors
	}
	c.JSON(http.StatusOK, resp)
}

// GetStats returns appointment totals across the ledger.
func (h *AppointmentHandler) GetStats(c *gin.Context) {
	stats, err := h.Store.GetStats(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "Failed to compute stats: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_appointments": stats.TotalAppointments,
		"total_patients":     stats.TotalPatients,
		"total_noshows":      stats.TotalNoShows,
		"noshow_rate":        fmt.Sprintf("%.1f%%", stats.NoShowPercent()),
	})
}

// TrainModel retrains the no-show model on every labeled appointment.
func (h *AppointmentHandler) TrainModel(c *gin.Context) {
	result, err := h.Risk.Train(c.Request.Context())
	if err != nil {
		if errors.Is(err, predictor.ErrInsufficientData) {
			utils.BadRequest(c, fmt.Sprintf("Need at least %d appointments to train model", predictor.MinTrainingSamples))
			return
		}
		utils.InternalServerError(c, "Training failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Model trained successfully",
		"metrics":          result.Metrics,
		"training_samples": result.TrainingSamples,
		"model_version":    result.ModelVersion,
	})
}

// PredictRiskRequest is accepted as a JSON body or as query parameters.
type PredictRiskRequest struct {
	PatientCode         string `json:"patient_code" form:"patient_code" validate:"required"`
	AppointmentDateTime string `json:"appointment_datetime" form:"appointment_datetime" validate:"required"`
	AppointmentType     string `json:"appointment_type" form:"appointment_type"`
}

// PredictRisk scores a future appointment for a patient.
func (h *AppointmentHandler) PredictRisk(c *gin.Context) {
	var req PredictRiskRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	providerID, _ := middleware.GetProviderIDFromContext(c)

	at, err := importer.ParseDateTime(req.AppointmentDateTime)
	if err != nil {
		utils.BadRequest(c, "Invalid datetime format: "+req.AppointmentDateTime)
		return
	}

	assessment, err := h.Risk.Assess(c.Request.Context(), providerID, req.PatientCode, at)
	if err != nil {
		if errors.Is(err, predictor.ErrModelNotTrained) {
			utils.BadRequest(c, "Model not trained yet. Please train the model first using /train-model")
			return
		}
		utils.InternalServerError(c, "Prediction failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"patient_code":         req.PatientCode,
		"appointment_datetime": req.AppointmentDateTime,
		"prediction":           assessment.Prediction,
		"recommendation":       assessment.Recommendation,
	})
}
