package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fefaortiz/tear-api/internal/service"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
	"github.com/fefaortiz/tear-api/pkg/response"
)

// TrackingHandler wires the tracking entry endpoint.
type TrackingHandler struct {
	service *service.TrackingService
}

// NewTrackingHandler creates a new handler.
func NewTrackingHandler(svc *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{service: svc}
}

// Track godoc
// @Summary Record a tracking entry
// @Description Record today's intensity (1 to 5) for a trait
// @Tags Tracking
// @Accept json
// @Produce json
// @Param traitId path int true "Trait id"
// @Param payload body service.TrackRequest true "Tracking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tracking/{traitId} [post]
func (h *TrackingHandler) Track(c *gin.Context) {
	traitID, err := idParam(c, "traitId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tracking payload"))
		return
	}

	entry, err := h.service.Track(c.Request.Context(), claimsFromContext(c), traitID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, entry)
}
