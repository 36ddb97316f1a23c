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

type mockTraitRepo struct {
	traits    []models.TraitWithCreator
	byID      map[int64]*models.Trait
	created   *models.Trait
	deleted   []int64
	listErr   error
	createErr error
}

func (m *mockTraitRepo) Create(ctx context.Context, trait *models.Trait) error {
	if m.createErr != nil {
		return m.createErr
	}
	trait.ID = 42
	m.created = trait
	return nil
}

func (m *mockTraitRepo) FindByID(ctx context.Context, id int64) (*models.Trait, error) {
	trait, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return trait, nil
}

func (m *mockTraitRepo) ListByPatient(ctx context.Context, patientID int64) ([]models.TraitWithCreator, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.traits, nil
}

func (m *mockTraitRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockEntriesRepo struct {
	entries []models.TrackingEntry
}

func (m *mockEntriesRepo) EntriesOn(ctx context.Context, patientID int64, date time.Time) ([]models.TrackingEntry, error) {
	return m.entries, nil
}

type mockPatientFinder struct {
	patients map[int64]*models.Patient
}

func (m *mockPatientFinder) FindByID(ctx context.Context, id int64) (*models.Patient, error) {
	patient, ok := m.patients[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return patient, nil
}

func patientClaims(id int64) *models.JWTClaims {
	return &models.JWTClaims{AccountID: id, Role: models.RolePatient}
}

func caregiverClaims(id int64) *models.JWTClaims {
	return &models.JWTClaims{AccountID: id, Role: models.RoleCaregiver}
}

func therapistClaims(id int64) *models.JWTClaims {
	return &models.JWTClaims{AccountID: id, Role: models.RoleTherapist}
}

func linkedPatient(id, therapistID, caregiverID int64) *models.Patient {
	p := &models.Patient{ID: id}
	if therapistID > 0 {
		p.TherapistID = &therapistID
	}
	if caregiverID > 0 {
		p.CaregiverID = &caregiverID
	}
	return p
}

func newTraitService(traits *mockTraitRepo, entries *mockEntriesRepo, patients *mockPatientFinder) *TraitService {
	svc := NewTraitService(traits, entries, patients, nil, validator.New(), zap.NewNop(), time.Minute)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	}
	return svc
}

func TestDailyTrackingUnknownPatientReturnsEmptyList(t *testing.T) {
	svc := newTraitService(&mockTraitRepo{}, &mockEntriesRepo{}, &mockPatientFinder{})

	rows, err := svc.DailyTracking(context.Background(), patientClaims(1), 99)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestDailyTrackingNoEntryTodayReportsNullScore(t *testing.T) {
	traits := &mockTraitRepo{traits: []models.TraitWithCreator{
		{Trait: models.Trait{ID: 1, PatientID: 7, Name: "Ansiedade", CreatorRole: models.RolePatient}, CreatorName: "Ana"},
	}}
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 0, 0)}}
	svc := newTraitService(traits, &mockEntriesRepo{}, patients)

	rows, err := svc.DailyTracking(context.Background(), patientClaims(7), 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Score)
	assert.False(t, rows[0].UpdatedToday)
	assert.Equal(t, "Ana", rows[0].Creator)
}

func TestDailyTrackingLatestEntryOfTheDayWins(t *testing.T) {
	traits := &mockTraitRepo{traits: []models.TraitWithCreator{
		{Trait: models.Trait{ID: 1, PatientID: 7, Name: "Sono"}},
	}}
	entries := &mockEntriesRepo{entries: []models.TrackingEntry{
		{ID: 10, TraitID: 1, Intensity: 2},
		{ID: 11, TraitID: 1, Intensity: 4},
	}}
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 0, 0)}}
	svc := newTraitService(traits, entries, patients)

	rows, err := svc.DailyTracking(context.Background(), patientClaims(7), 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Score)
	assert.Equal(t, 4, *rows[0].Score)
	assert.True(t, rows[0].UpdatedToday)
}

func TestDailyTrackingTherapistReadsLinkedPatient(t *testing.T) {
	traits := &mockTraitRepo{}
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 3, 0)}}
	svc := newTraitService(traits, &mockEntriesRepo{}, patients)

	_, err := svc.DailyTracking(context.Background(), therapistClaims(3), 7)
	assert.NoError(t, err)

	_, err = svc.DailyTracking(context.Background(), therapistClaims(4), 7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestDailyTrackingUnlinkedCaregiverForbidden(t *testing.T) {
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 0, 5)}}
	svc := newTraitService(&mockTraitRepo{}, &mockEntriesRepo{}, patients)

	_, err := svc.DailyTracking(context.Background(), caregiverClaims(6), 7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCreateTraitTakesCreatorFromClaims(t *testing.T) {
	traits := &mockTraitRepo{}
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 0, 5)}}
	svc := newTraitService(traits, &mockEntriesRepo{}, patients)

	trait, err := svc.Create(context.Background(), caregiverClaims(5), 7, CreateTraitRequest{Name: "Apetite"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), trait.CreatorID)
	assert.Equal(t, models.RoleCaregiver, trait.CreatorRole)
	assert.Equal(t, int64(7), trait.PatientID)
}

func TestCreateTraitTherapistForbidden(t *testing.T) {
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 3, 0)}}
	svc := newTraitService(&mockTraitRepo{}, &mockEntriesRepo{}, patients)

	_, err := svc.Create(context.Background(), therapistClaims(3), 7, CreateTraitRequest{Name: "Foco"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCreateTraitRequiresName(t *testing.T) {
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 0, 0)}}
	svc := newTraitService(&mockTraitRepo{}, &mockEntriesRepo{}, patients)

	_, err := svc.Create(context.Background(), patientClaims(7), 7, CreateTraitRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDeleteTraitCascades(t *testing.T) {
	traits := &mockTraitRepo{byID: map[int64]*models.Trait{
		12: {ID: 12, PatientID: 7},
	}}
	patients := &mockPatientFinder{patients: map[int64]*models.Patient{7: linkedPatient(7, 0, 0)}}
	svc := newTraitService(traits, &mockEntriesRepo{}, patients)

	require.NoError(t, svc.Delete(context.Background(), patientClaims(7), 12))
	assert.Equal(t, []int64{12}, traits.deleted)
}

func TestDeleteUnknownTraitNotFound(t *testing.T) {
	svc := newTraitService(&mockTraitRepo{}, &mockEntriesRepo{}, &mockPatientFinder{})

	err := svc.Delete(context.Background(), patientClaims(7), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
