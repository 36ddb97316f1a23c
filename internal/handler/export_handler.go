package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fefaortiz/tear-api/internal/service"
	"github.com/fefaortiz/tear-api/pkg/response"
)

// ExportHandler streams rendered tracking reports.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// WeeklyReport godoc
// @Summary Export the weekly tracking report
// @Description Trailing 7 day report as CSV or PDF
// @Tags PatientData
// @Produce text/csv
// @Produce application/pdf
// @Param patientId path int true "Patient id"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /patient-data/export/{patientId} [get]
func (h *ExportHandler) WeeklyReport(c *gin.Context) {
	patientID, err := idParam(c, "patientId")
	if err != nil {
		response.Error(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	doc, err := h.service.WeeklyReport(c.Request.Context(), claimsFromContext(c), patientID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}
