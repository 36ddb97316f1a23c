package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fefaortiz/tear-api/internal/dto"
	"github.com/fefaortiz/tear-api/internal/models"
	"github.com/fefaortiz/tear-api/internal/service"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
	"github.com/fefaortiz/tear-api/pkg/response"
)

type traitService interface {
	DailyTracking(ctx context.Context, claims *models.JWTClaims, patientID int64) ([]dto.DailyTrackingRow, error)
	Create(ctx context.Context, claims *models.JWTClaims, patientID int64, req service.CreateTraitRequest) (*models.Trait, error)
	Delete(ctx context.Context, claims *models.JWTClaims, traitID int64) error
}

// TraitHandler wires trait lifecycle and the daily tracking view.
type TraitHandler struct {
	service traitService
}

// NewTraitHandler creates a new handler.
func NewTraitHandler(svc traitService) *TraitHandler {
	return &TraitHandler{service: svc}
}

// DailyTracking godoc
// @Summary Daily tracking view
// @Description One row per trait with today's score, updated flag and creator
// @Tags Traits
// @Produce json
// @Param patientId path int true "Patient id"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /traits/daily-tracking/{patientId} [get]
func (h *TraitHandler) DailyTracking(c *gin.Context) {
	patientID, err := idParam(c, "patientId")
	if err != nil {
		response.Error(c, err)
		return
	}

	rows, err := h.service.DailyTracking(c.Request.Context(), claimsFromContext(c), patientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rows)
}

// Create godoc
// @Summary Create a trait
// @Description Register a new trait for the patient; the creator comes from the access token
// @Tags Traits
// @Accept json
// @Produce json
// @Param patientId path int true "Patient id"
// @Param payload body service.CreateTraitRequest true "Trait payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /traits/{patientId} [post]
func (h *TraitHandler) Create(c *gin.Context) {
	patientID, err := idParam(c, "patientId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.CreateTraitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid trait payload"))
		return
	}

	trait, err := h.service.Create(c.Request.Context(), claimsFromContext(c), patientID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, trait)
}

// Delete godoc
// @Summary Delete a trait
// @Description Remove a trait and its tracking entries
// @Tags Traits
// @Produce json
// @Param id path int true "Trait id"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /traits/{id} [delete]
func (h *TraitHandler) Delete(c *gin.Context) {
	traitID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), traitID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
