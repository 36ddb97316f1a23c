package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fefaortiz/tear-api/internal/service"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
	"github.com/fefaortiz/tear-api/pkg/response"
)

// PatientHandler wires relationship lookups and profile edits.
type PatientHandler struct {
	service *service.PatientService
}

// NewPatientHandler creates a new handler.
func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{service: svc}
}

// ListByTherapist godoc
// @Summary Patients of a therapist
// @Tags Patients
// @Produce json
// @Param id path int true "Therapist id"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /pacientes/porTerapeuta/{id} [get]
func (h *PatientHandler) ListByTherapist(c *gin.Context) {
	therapistID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	patients, err := h.service.ListByTherapist(c.Request.Context(), claimsFromContext(c), therapistID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, patients)
}

// ListByCaregiver godoc
// @Summary Patients of a caregiver
// @Tags Patients
// @Produce json
// @Param id path int true "Caregiver id"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /pacientes/por-cuidador/{id} [get]
func (h *PatientHandler) ListByCaregiver(c *gin.Context) {
	caregiverID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	patients, err := h.service.ListByCaregiver(c.Request.Context(), claimsFromContext(c), caregiverID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, patients)
}

// CaregiverInfo godoc
// @Summary Caregiver of a patient
// @Tags Patients
// @Produce json
// @Param id path int true "Patient id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pacientes/info_cuidador/{id} [get]
func (h *PatientHandler) CaregiverInfo(c *gin.Context) {
	patientID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	caregiver, err := h.service.CaregiverInfo(c.Request.Context(), claimsFromContext(c), patientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, caregiver)
}

// UpdatePatient godoc
// @Summary Edit a patient profile
// @Tags Patients
// @Accept json
// @Produce json
// @Param id path int true "Patient id"
// @Param payload body service.UpdatePatientRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /pacientes/{id} [put]
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	patientID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid patient payload"))
		return
	}

	patient, err := h.service.UpdatePatient(c.Request.Context(), claimsFromContext(c), patientID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, patient)
}

// UpdateTherapist godoc
// @Summary Edit a therapist profile
// @Tags Patients
// @Accept json
// @Produce json
// @Param id path int true "Therapist id"
// @Param payload body service.UpdateTherapistRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /terapeutas/{id} [put]
func (h *PatientHandler) UpdateTherapist(c *gin.Context) {
	therapistID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.UpdateTherapistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid therapist payload"))
		return
	}

	therapist, err := h.service.UpdateTherapist(c.Request.Context(), claimsFromContext(c), therapistID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, therapist)
}

// UpdateCaregiver godoc
// @Summary Edit a caregiver profile
// @Tags Patients
// @Accept json
// @Produce json
// @Param id path int true "Caregiver id"
// @Param payload body service.UpdateCaregiverRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /cuidadores/{id} [put]
func (h *PatientHandler) UpdateCaregiver(c *gin.Context) {
	caregiverID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.UpdateCaregiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid caregiver payload"))
		return
	}

	caregiver, err := h.service.UpdateCaregiver(c.Request.Context(), claimsFromContext(c), caregiverID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, caregiver)
}
