package handlers

import (
	"errors"
	"net/http"

	"showup-server/internal/middleware"
	"showup-server/internal/repository"
	"showup-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// PatientHandler exposes the per-provider patient summaries.
type PatientHandler struct {
	Store repository.RecordStore
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(store repository.RecordStore) *PatientHandler {
	return &PatientHandler{Store: store}
}

// ListPatients returns every patient summary of the scoped provider.
func (h *PatientHandler) ListPatients(c *gin.Context) {
	providerID, _ := middleware.GetProviderIDFromContext(c)

	patients, err := h.Store.ListPatients(c.Request.Context(), providerID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients, "count": len(patients)})
}

// GetPatient returns one patient summary by its provider-local code.
func (h *PatientHandler) GetPatient(c *gin.Context) {
	providerID, _ := middleware.GetProviderIDFromContext(c)

	patient, err := h.Store.FindPatientByCode(c.Request.Context(), providerID, c.Param("code"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Patient not found")
			return
		}
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, patient)
}
