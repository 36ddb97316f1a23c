package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fefaortiz/tear-api/internal/models"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
)

type mockTrackingRepo struct {
	created *models.TrackingEntry
	entries []models.TrackingEntry
}

func (m *mockTrackingRepo) Create(ctx context.Context, entry *models.TrackingEntry) error {
	entry.ID = 100
	m.created = entry
	return nil
}

func (m *mockTrackingRepo) EntriesBetween(ctx context.Context, traitID int64, from, to time.Time) ([]models.TrackingEntry, error) {
	return m.entries, nil
}

type mockTraitFinder struct {
	traits map[int64]*models.Trait
}

func (m *mockTraitFinder) FindByID(ctx context.Context, id int64) (*models.Trait, error) {
	trait, ok := m.traits[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return trait, nil
}

func newTrackingService(tracking *mockTrackingRepo, traits *mockTraitFinder, patients *mockPatientFinder) *TrackingService {
	svc := NewTrackingService(tracking, traits, patients, nil, validator.New(), zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	}
	return svc
}

func ownTraitFixture() (*mockTraitFinder, *mockPatientFinder) {
	traits := &mockTraitFinder{traits: map[int64]*models.Trait{
		1: {ID: 1, PatientID: 7, Name: "Sono"},
	}}
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 0, 0)}}
	return traits, patients
}

func TestTrackRejectsIntensityOutOfRange(t *testing.T) {
	traits, patients := ownTraitFixture()
	svc := newTrackingService(&mockTrackingRepo{}, traits, patients)

	for _, intensity := range []int{-1, 0, 6, 10} {
		_, err := svc.Track(context.Background(), patientClaims(7), 1, TrackRequest{Intensity: intensity})
		require.Error(t, err, "intensity %d", intensity)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestTrackAcceptsBoundaryIntensities(t *testing.T) {
	traits, patients := ownTraitFixture()

	for _, intensity := range []int{1, 5} {
		repo := &mockTrackingRepo{}
		svc := newTrackingService(repo, traits, patients)
		entry, err := svc.Track(context.Background(), patientClaims(7), 1, TrackRequest{Intensity: intensity})
		require.NoError(t, err)
		assert.Equal(t, intensity, entry.Intensity)
	}
}

func TestTrackDefaultsRecordDateToToday(t *testing.T) {
	traits, patients := ownTraitFixture()
	repo := &mockTrackingRepo{}
	svc := newTrackingService(repo, traits, patients)

	entry, err := svc.Track(context.Background(), patientClaims(7), 1, TrackRequest{Intensity: 3})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", entry.RecordDate.Format("2006-01-02"))
}

func TestTrackHonoursExplicitRecordDate(t *testing.T) {
	traits, patients := ownTraitFixture()
	repo := &mockTrackingRepo{}
	svc := newTrackingService(repo, traits, patients)

	entry, err := svc.Track(context.Background(), patientClaims(7), 1, TrackRequest{Intensity: 3, RecordDate: "2025-03-08"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-08", entry.RecordDate.Format("2006-01-02"))

	_, err = svc.Track(context.Background(), patientClaims(7), 1, TrackRequest{Intensity: 3, RecordDate: "08/03/2025"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTrackUnknownTraitNotFound(t *testing.T) {
	svc := newTrackingService(&mockTrackingRepo{}, &mockTraitFinder{}, &mockPatientFinder{})

	_, err := svc.Track(context.Background(), patientClaims(7), 99, TrackRequest{Intensity: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTrackTherapistForbidden(t *testing.T) {
	traits := &mockTraitFinder{traits: map[int64]*models.Trait{
		1: {ID: 1, PatientID: 7},
	}}
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 3, 0)}}
	svc := newTrackingService(&mockTrackingRepo{}, traits, patients)

	_, err := svc.Track(context.Background(), therapistClaims(3), 1, TrackRequest{Intensity: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestWeeklyHistorySkipsGapDaysAndKeepsOrder(t *testing.T) {
	traits, patients := ownTraitFixture()
	repo := &mockTrackingRepo{entries: []models.TrackingEntry{
		{ID: 1, TraitID: 1, Intensity: 2, RecordDate: day("2025-03-04")},
		{ID: 2, TraitID: 1, Intensity: 5, RecordDate: day("2025-03-07")},
		{ID: 3, TraitID: 1, Intensity: 1, RecordDate: day("2025-03-10")},
	}}
	svc := newTrackingService(repo, traits, patients)

	history, err := svc.WeeklyHistory(context.Background(), patientClaims(7), 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", history.From)
	assert.Equal(t, "2025-03-10", history.To)
	require.Len(t, history.Points, 3)
	assert.Equal(t, "2025-03-04", history.Points[0].Date)
	assert.Equal(t, 2, history.Points[0].Score)
	assert.Equal(t, "2025-03-07", history.Points[1].Date)
	assert.Equal(t, "2025-03-10", history.Points[2].Date)
	assert.Equal(t, 1, history.Points[2].Score)
}

func TestWeeklyHistoryLatestEntryOfDayWins(t *testing.T) {
	traits, patients := ownTraitFixture()
	repo := &mockTrackingRepo{entries: []models.TrackingEntry{
		{ID: 1, TraitID: 1, Intensity: 2, RecordDate: day("2025-03-09")},
		{ID: 2, TraitID: 1, Intensity: 4, RecordDate: day("2025-03-09")},
	}}
	svc := newTrackingService(repo, traits, patients)

	history, err := svc.WeeklyHistory(context.Background(), patientClaims(7), 1)
	require.NoError(t, err)
	require.Len(t, history.Points, 1)
	assert.Equal(t, 4, history.Points[0].Score)
}

func TestTherapistWeeklyHistoryRejectsForeignTrait(t *testing.T) {
	traits := &mockTraitFinder{traits: map[int64]*models.Trait{
		1: {ID: 1, PatientID: 7, Name: "Sono"},
	}}
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{
		7: linkedPatient(7, 3, 0),
		8: linkedPatient(8, 3, 0),
	}}
	svc := newTrackingService(&mockTrackingRepo{}, traits, patients)

	_, err := svc.TherapistWeeklyHistory(context.Background(), therapistClaims(3), 1, 8)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTherapistWeeklyHistoryMatchingTrait(t *testing.T) {
	traits := &mockTraitFinder{traits: map[int64]*models.Trait{
		1: {ID: 1, PatientID: 7, Name: "Sono"},
	}}
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 3, 0)}}
	repo := &mockTrackingRepo{entries: []models.TrackingEntry{
		{ID: 1, TraitID: 1, Intensity: 3, RecordDate: day("2025-03-09")},
	}}
	svc := newTrackingService(repo, traits, patients)

	history, err := svc.TherapistWeeklyHistory(context.Background(), therapistClaims(3), 1, 7)
	require.NoError(t, err)
	require.Len(t, history.Points, 1)
	assert.Equal(t, 3, history.Points[0].Score)
}

func TestWeeklyHistoryUnknownTraitYieldsEmptySeries(t *testing.T) {
	svc := newTrackingService(&mockTrackingRepo{}, &mockTraitFinder{}, &mockPatientFinder{})

	history, err := svc.WeeklyHistory(context.Background(), patientClaims(7), 99)
	require.NoError(t, err)
	assert.Empty(t, history.Points)
	assert.Equal(t, int64(99), history.TraitID)
}
