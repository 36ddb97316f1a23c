package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fefaortiz/tear-api/internal/models"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
	"github.com/fefaortiz/tear-api/pkg/export"
)

type traitLister interface {
	ListByPatient(ctx context.Context, patientID int64) ([]models.TraitWithCreator, error)
}

type historyRepository interface {
	EntriesBetween(ctx context.Context, traitID int64, from, to time.Time) ([]models.TrackingEntry, error)
}

// ExportDocument is a rendered report ready to stream to the client.
type ExportDocument struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the trailing-7-day tracking report as CSV or PDF.
type ExportService struct {
	traits   traitLister
	tracking historyRepository
	patients patientFinder
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(traits traitLister, tracking historyRepository, patients patientFinder, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		traits:   traits,
		tracking: tracking,
		patients: patients,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		now:      time.Now,
	}
}

var reportHeaders = []string{"data", "trait", "intensidade", "descricao", "criador"}

// WeeklyReport builds the trailing-7-day report for the patient and renders
// it in the requested format (csv or pdf). Anyone with read access to the
// patient may export it.
func (s *ExportService) WeeklyReport(ctx context.Context, claims *models.JWTClaims, patientID int64, format string) (*ExportDocument, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "patient not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patient")
	}
	if err := authorizePatientAccess(claims, patient, false); err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	from := today.AddDate(0, 0, -(trailingWindowDays - 1))

	traits, err := s.traits.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list traits")
	}

	dataset := export.Dataset{Headers: reportHeaders}
	for _, trait := range traits {
		entries, err := s.tracking.EntriesBetween(ctx, trait.ID, from, today)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tracking entries")
		}
		for _, entry := range entries {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"data":        entry.RecordDate.Format("2006-01-02"),
				"trait":       trait.Name,
				"intensidade": strconv.Itoa(entry.Intensity),
				"descricao":   entry.Note,
				"criador":     trait.CreatorName,
			})
		}
	}

	stamp := today.Format("2006-01-02")
	switch format {
	case "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ExportDocument{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("relatorio-semanal-%d-%s.csv", patientID, stamp),
		}, nil
	default:
		title := fmt.Sprintf("Relatorio semanal - %s", patient.Name)
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ExportDocument{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("relatorio-semanal-%d-%s.pdf", patientID, stamp),
		}, nil
	}
}
