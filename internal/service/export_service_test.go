package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fefaortiz/tear-api/internal/models"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
)

func newExportService(traits *mockTraitRepo, tracking *mockTrackingRepo, patients *mockPatientFinder) *ExportService {
	svc := NewExportService(traits, tracking, patients, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestWeeklyReportCSV(t *testing.T) {
	traits := &mockTraitRepo{traits: []models.TraitWithCreator{
		{Trait: models.Trait{ID: 1, PatientID: 7, Name: "Sono"}, CreatorName: "Ana"},
	}}
	tracking := &mockTrackingRepo{entries: []models.TrackingEntry{
		{ID: 1, TraitID: 1, Intensity: 4, Note: "noite agitada", RecordDate: day("2025-03-09")},
	}}
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 0, 0)}}
	svc := newExportService(traits, tracking, patients)

	doc, err := svc.WeeklyReport(context.Background(), patientClaims(7), 7, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", doc.ContentType)
	assert.Equal(t, "relatorio-semanal-7-2025-03-10.csv", doc.Filename)

	content := string(doc.Content)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "data,trait,intensidade,descricao,criador", lines[0])
	assert.Equal(t, "2025-03-09,Sono,4,noite agitada,Ana", lines[1])
}

func TestWeeklyReportPDF(t *testing.T) {
	traits := &mockTraitRepo{traits: []models.TraitWithCreator{
		{Trait: models.Trait{ID: 1, PatientID: 7, Name: "Sono"}},
	}}
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 0, 0)}}
	svc := newExportService(traits, &mockTrackingRepo{}, patients)

	doc, err := svc.WeeklyReport(context.Background(), patientClaims(7), 7, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, strings.HasPrefix(string(doc.Content), "%PDF"))
}

func TestWeeklyReportRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(&mockTraitRepo{}, &mockTrackingRepo{}, &mockPatientFinder{})

	_, err := svc.WeeklyReport(context.Background(), patientClaims(7), 7, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestWeeklyReportUnlinkedTherapistForbidden(t *testing.T) {
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 3, 0)}}
	svc := newExportService(&mockTraitRepo{}, &mockTrackingRepo{}, patients)

	_, err := svc.WeeklyReport(context.Background(), therapistClaims(4), 7, "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
