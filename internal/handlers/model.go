package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"showup-server/internal/repository"
	"showup-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// ModelHandler reports on trained models.
type ModelHandler struct {
	Store repository.RecordStore
}

// NewModelHandler creates a new ModelHandler.
func NewModelHandler(store repository.RecordStore) *ModelHandler {
	return &ModelHandler{Store: store}
}

// GetLatestMetrics returns the evaluation of the most recent training run.
func (h *ModelHandler) GetLatestMetrics(c *gin.Context) {
	m, err := h.Store.LatestModelMetrics(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "No model has been trained yet")
			return
		}
		utils.InternalServerError(c, "Failed to fetch model metrics: "+err.Error())
		return
	}

	var importance map[string]float64
	if m.FeatureImportance != "" {
		if err := json.Unmarshal([]byte(m.FeatureImportance), &importance); err != nil {
			utils.InternalServerError(c, "Stored feature importance is corrupt")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"model_version":      m.ModelVersion,
		"model_type":         m.ModelType,
		"training_samples":   m.TrainingSamples,
		"training_date":      m.TrainingDate,
		"accuracy":           m.Accuracy,
		"precision":          m.Precision,
		"recall":             m.Recall,
		"f1_score":           m.F1Score,
		"feature_importance": importance,
	})
}
