package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fefaortiz/tear-api/internal/dto"
	"github.com/fefaortiz/tear-api/internal/models"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
)

type trackingRepository interface {
	Create(ctx context.Context, entry *models.TrackingEntry) error
	EntriesBetween(ctx context.Context, traitID int64, from, to time.Time) ([]models.TrackingEntry, error)
}

type traitFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Trait, error)
}

// TrackRequest holds the payload for recording a tracking entry.
// Intensity outside 1..5 is rejected at this boundary.
type TrackRequest struct {
	Intensity  int    `json:"intensidade" validate:"required,min=1,max=5"`
	Note       string `json:"descricao"`
	RecordDate string `json:"dia_de_registro"`
}

// TrackingService records daily entries and projects the weekly history.
type TrackingService struct {
	tracking  trackingRepository
	traits    traitFinder
	patients  patientFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewTrackingService constructs a TrackingService.
func NewTrackingService(tracking trackingRepository, traits traitFinder, patients patientFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TrackingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingService{
		tracking:  tracking,
		traits:    traits,
		patients:  patients,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Track records a new entry against the trait. dia_de_registro defaults to
// today when absent. The write is allowed only to the patient or their
// caregiver.
func (s *TrackingService) Track(ctx context.Context, claims *models.JWTClaims, traitID int64, req TrackRequest) (*models.TrackingEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "intensidade must be between 1 and 5")
	}

	trait, err := s.traits.FindByID(ctx, traitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trait not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trait")
	}
	patient, err := s.patients.FindByID(ctx, trait.PatientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "patient not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patient")
	}
	if err := authorizePatientAccess(claims, patient, true); err != nil {
		return nil, err
	}

	recordDate := dateOnly(s.now())
	if req.RecordDate != "" {
		parsed, err := parseDate(req.RecordDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dia_de_registro must be YYYY-MM-DD")
		}
		recordDate = parsed
	}

	entry := &models.TrackingEntry{
		TraitID:    traitID,
		Intensity:  req.Intensity,
		Note:       req.Note,
		RecordDate: recordDate,
	}
	if err := s.tracking.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record tracking entry")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, dashboardCachePattern(trait.PatientID)); err != nil {
			s.logger.Warn("dashboard cache invalidation failed", zap.Int64("patient_id", trait.PatientID), zap.Error(err))
		}
	}
	return entry, nil
}

// WeeklyHistory returns the trailing-7-day series for one trait. Days
// without an entry contribute no point; when a day holds several entries
// the latest one represents the day. A trait with no entries (or an
// unknown trait) yields an empty series, not an error.
func (s *TrackingService) WeeklyHistory(ctx context.Context, claims *models.JWTClaims, traitID int64) (*dto.WeeklyHistoryResponse, error) {
	today := dateOnly(s.now())
	from := today.AddDate(0, 0, -(trailingWindowDays - 1))

	resp := &dto.WeeklyHistoryResponse{
		TraitID: traitID,
		From:    from.Format("2006-01-02"),
		To:      today.Format("2006-01-02"),
		Points:  []dto.WeeklyHistoryPoint{},
	}

	trait, err := s.traits.FindByID(ctx, traitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trait")
	}
	patient, err := s.patients.FindByID(ctx, trait.PatientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patient")
	}
	if err := authorizePatientAccess(claims, patient, false); err != nil {
		return nil, err
	}

	entries, err := s.tracking.EntriesBetween(ctx, traitID, from, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tracking entries")
	}

	// Entries arrive ordered by day then id, so the last write per day wins.
	latestByDay := make(map[string]int, len(entries))
	for _, entry := range entries {
		latestByDay[entry.RecordDate.Format("2006-01-02")] = entry.Intensity
	}

	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if score, ok := latestByDay[key]; ok {
			resp.Points = append(resp.Points, dto.WeeklyHistoryPoint{Date: key, Score: score})
		}
	}
	return resp, nil
}

// TherapistWeeklyHistory serves the route that names both the trait and
// the patient. A trait that exists but belongs to another patient is not
// found under that pairing.
func (s *TrackingService) TherapistWeeklyHistory(ctx context.Context, claims *models.JWTClaims, traitID, patientID int64) (*dto.WeeklyHistoryResponse, error) {
	trait, err := s.traits.FindByID(ctx, traitID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trait")
	}
	if err == nil && trait.PatientID != patientID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "trait does not belong to this patient")
	}
	return s.WeeklyHistory(ctx, claims, traitID)
}
