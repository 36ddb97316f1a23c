package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fefaortiz/tear-api/internal/service"
	"github.com/fefaortiz/tear-api/pkg/response"
)

// DashboardHandler wires the summary read models under /patient-data.
type DashboardHandler struct {
	dashboards *service.DashboardService
	tracking   *service.TrackingService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(dashboards *service.DashboardService, tracking *service.TrackingService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, tracking: tracking}
}

// WeeklyHistory godoc
// @Summary Weekly history for a trait
// @Description Trailing 7 day series, one point per day that has an entry
// @Tags PatientData
// @Produce json
// @Param traitId path int true "Trait id"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /patient-data/weekly-history/{traitId} [get]
func (h *DashboardHandler) WeeklyHistory(c *gin.Context) {
	traitID, err := idParam(c, "traitId")
	if err != nil {
		response.Error(c, err)
		return
	}

	history, err := h.tracking.WeeklyHistory(c.Request.Context(), claimsFromContext(c), traitID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, history)
}

// TherapistWeeklyHistory godoc
// @Summary Weekly history, therapist route
// @Description Same trailing 7 day series via the therapist access path
// @Tags PatientData
// @Produce json
// @Param traitId path int true "Trait id"
// @Param patientId path int true "Patient id"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /patient-data/therapist-weekly-history/{traitId}/{patientId} [get]
func (h *DashboardHandler) TherapistWeeklyHistory(c *gin.Context) {
	traitID, err := idParam(c, "traitId")
	if err != nil {
		response.Error(c, err)
		return
	}
	patientID, err := idParam(c, "patientId")
	if err != nil {
		response.Error(c, err)
		return
	}

	history, err := h.tracking.TherapistWeeklyHistory(c.Request.Context(), claimsFromContext(c), traitID, patientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, history)
}

// AverageIntensity godoc
// @Summary Average intensity for a patient
// @Description Mean intensity over the trailing 7 days; media is null when the window is empty
// @Tags PatientData
// @Produce json
// @Param patientId path int true "Patient id"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /patient-data/average-intensity/{patientId} [get]
func (h *DashboardHandler) AverageIntensity(c *gin.Context) {
	patientID, err := idParam(c, "patientId")
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.dashboards.AverageIntensity(c.Request.Context(), claimsFromContext(c), patientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary)
}

// TherapistAverageIntensity godoc
// @Summary Average intensity across a therapist's patients
// @Description Mean intensity over the trailing 7 days for every linked patient
// @Tags PatientData
// @Produce json
// @Param therapistId path int true "Therapist id"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /patient-data/therapist-average-intensity/{therapistId} [get]
func (h *DashboardHandler) TherapistAverageIntensity(c *gin.Context) {
	therapistID, err := idParam(c, "therapistId")
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.dashboards.TherapistAverageIntensity(c.Request.Context(), claimsFromContext(c), therapistID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary)
}

// Completion godoc
// @Summary Today's completion percentage
// @Description Share of traits updated today, 0 to 100
// @Tags PatientData
// @Produce json
// @Param patientId path int true "Patient id"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /patient-data/completion/{patientId} [get]
func (h *DashboardHandler) Completion(c *gin.Context) {
	patientID, err := idParam(c, "patientId")
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.dashboards.Completion(c.Request.Context(), claimsFromContext(c), patientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary)
}
