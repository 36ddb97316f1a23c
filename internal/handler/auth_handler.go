package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fefaortiz/tear-api/internal/models"
	"github.com/fefaortiz/tear-api/internal/service"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
	"github.com/fefaortiz/tear-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate an account
// @Description Authenticate by email and password across patient, caregiver and therapist accounts
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchange a refresh token for a new token pair
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RefreshTokenRequest true "Refresh payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid refresh payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.RefreshToken(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Logout godoc
// @Summary Log out
// @Description Revoke every refresh token of the authenticated account
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// RegisterPatient godoc
// @Summary Register a patient
// @Description Create a patient account, optionally linked to a therapist and a caregiver by email
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body service.RegisterPatientRequest true "Patient payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/registerPaciente [post]
func (h *AuthHandler) RegisterPatient(c *gin.Context) {
	var req service.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid patient payload"))
		return
	}

	patient, err := h.service.RegisterPatient(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, patient)
}

// RegisterTherapist godoc
// @Summary Register a therapist
// @Description Create a therapist account with unique email, cpf and crp
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body service.RegisterTherapistRequest true "Therapist payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/registerTerapeuta [post]
func (h *AuthHandler) RegisterTherapist(c *gin.Context) {
	var req service.RegisterTherapistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid therapist payload"))
		return
	}

	therapist, err := h.service.RegisterTherapist(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, therapist)
}

// RegisterCaregiver godoc
// @Summary Register a caregiver
// @Description Create a caregiver account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body service.RegisterCaregiverRequest true "Caregiver payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/registerCuidador [post]
func (h *AuthHandler) RegisterCaregiver(c *gin.Context) {
	var req service.RegisterCaregiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid caregiver payload"))
		return
	}

	caregiver, err := h.service.RegisterCaregiver(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, caregiver)
}
