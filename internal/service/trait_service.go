package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fefaortiz/tear-api/internal/dto"
	"github.com/fefaortiz/tear-api/internal/models"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
)

type traitRepository interface {
	Create(ctx context.Context, trait *models.Trait) error
	FindByID(ctx context.Context, id int64) (*models.Trait, error)
	ListByPatient(ctx context.Context, patientID int64) ([]models.TraitWithCreator, error)
	Delete(ctx context.Context, id int64) error
}

type todayEntriesRepository interface {
	EntriesOn(ctx context.Context, patientID int64, date time.Time) ([]models.TrackingEntry, error)
}

type patientFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Patient, error)
}

// CreateTraitRequest holds the payload for creating a trait.
type CreateTraitRequest struct {
	Name        string `json:"nome" validate:"required"`
	Description string `json:"descricao"`
}

// TraitService owns trait lifecycle and the daily-tracking aggregation
// behind the dashboards.
type TraitService struct {
	traits    traitRepository
	tracking  todayEntriesRepository
	patients  patientFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	cacheTTL  time.Duration
}

// NewTraitService constructs a TraitService.
func NewTraitService(traits traitRepository, tracking todayEntriesRepository, patients patientFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *TraitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &TraitService{
		traits:    traits,
		tracking:  tracking,
		patients:  patients,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       time.Now,
		cacheTTL:  cacheTTL,
	}
}

// DailyTracking produces one view row per trait owned by the patient:
// today's intensity if an entry exists (latest one wins when the day holds
// several), whether the trait was updated today, and the denormalised
// creator. "Today" is resolved once at the start of the call so a request
// straddling midnight stays internally consistent. An unknown patient id
// yields an empty list; this is an existence-agnostic read.
func (s *TraitService) DailyTracking(ctx context.Context, claims *models.JWTClaims, patientID int64) ([]dto.DailyTrackingRow, error) {
	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []dto.DailyTrackingRow{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patient")
	}
	if err := authorizePatientAccess(claims, patient, false); err != nil {
		return nil, err
	}

	today := dateOnly(s.now())

	cacheKey := dailyTrackingCacheKey(patientID, today)
	if s.cache != nil {
		var cached []dto.DailyTrackingRow
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	traits, err := s.traits.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list traits")
	}
	entries, err := s.tracking.EntriesOn(ctx, patientID, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tracking entries")
	}

	// The schema permits several entries per trait per day; the highest id
	// (latest insert) wins so the view stays deterministic.
	latest := make(map[int64]models.TrackingEntry, len(entries))
	for _, entry := range entries {
		if current, ok := latest[entry.TraitID]; !ok || entry.ID > current.ID {
			latest[entry.TraitID] = entry
		}
	}

	rows := make([]dto.DailyTrackingRow, 0, len(traits))
	for _, trait := range traits {
		row := dto.DailyTrackingRow{
			TraitID:     trait.ID,
			Name:        trait.Name,
			Creator:     trait.CreatorName,
			CreatorRole: trait.CreatorRole,
		}
		if entry, ok := latest[trait.ID]; ok {
			score := entry.Intensity
			row.Score = &score
			row.UpdatedToday = true
		}
		rows = append(rows, row)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, rows, s.cacheTTL); err != nil {
			s.logger.Warn("daily tracking cache write failed", zap.Error(err))
		}
	}
	return rows, nil
}

// Create registers a new trait for the patient. The creator is the
// authenticated account; only the patient or their caregiver may create.
func (s *TraitService) Create(ctx context.Context, claims *models.JWTClaims, patientID int64, req CreateTraitRequest) (*models.Trait, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trait payload")
	}

	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "patient not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patient")
	}
	if err := authorizePatientAccess(claims, patient, true); err != nil {
		return nil, err
	}

	trait := &models.Trait{
		PatientID:   patientID,
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   claims.AccountID,
		CreatorRole: claims.Role,
	}
	if err := s.traits.Create(ctx, trait); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trait")
	}
	s.invalidateDashboards(ctx, patientID)
	return trait, nil
}

// Delete removes a trait together with its tracking entries.
func (s *TraitService) Delete(ctx context.Context, claims *models.JWTClaims, traitID int64) error {
	trait, err := s.traits.FindByID(ctx, traitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "trait not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trait")
	}

	patient, err := s.patients.FindByID(ctx, trait.PatientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "patient not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patient")
	}
	if err := authorizePatientAccess(claims, patient, true); err != nil {
		return err
	}

	if err := s.traits.Delete(ctx, traitID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete trait")
	}
	s.invalidateDashboards(ctx, trait.PatientID)
	return nil
}

func (s *TraitService) invalidateDashboards(ctx context.Context, patientID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardCachePattern(patientID)); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Int64("patient_id", patientID), zap.Error(err))
	}
}

func dailyTrackingCacheKey(patientID int64, today time.Time) string {
	return fmt.Sprintf("dash:paciente:%d:daily:%s", patientID, today.Format("2006-01-02"))
}

func dashboardCachePattern(patientID int64) string {
	return fmt.Sprintf("dash:paciente:%d:*", patientID)
}

// dateOnly truncates a timestamp to its local calendar date.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
