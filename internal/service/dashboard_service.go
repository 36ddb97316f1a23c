package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/fefaortiz/tear-api/internal/dto"
	"github.com/fefaortiz/tear-api/internal/models"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
)

type intensityAggregateRepository interface {
	AverageIntensity(ctx context.Context, patientID int64, from, to time.Time) (float64, int, error)
	AverageIntensityByTherapist(ctx context.Context, therapistID int64, from, to time.Time) (float64, int, error)
}

type dailyTracker interface {
	DailyTracking(ctx context.Context, claims *models.JWTClaims, patientID int64) ([]dto.DailyTrackingRow, error)
}

// trailingWindowDays is the dashboard window: today plus the six days
// before it.
const trailingWindowDays = 7

// DashboardService derives the summary read models (average intensity,
// completion percentage) from tracking rows.
type DashboardService struct {
	aggregates intensityAggregateRepository
	daily      dailyTracker
	patients   patientFinder
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
	cacheTTL   time.Duration
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(aggregates intensityAggregateRepository, daily dailyTracker, patients patientFinder, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{
		aggregates: aggregates,
		daily:      daily,
		patients:   patients,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
		cacheTTL:   cacheTTL,
	}
}

// AverageIntensity reports the mean intensity over the trailing 7 days for
// one patient. An empty window reports media=null, never 0 or NaN.
func (s *DashboardService) AverageIntensity(ctx context.Context, claims *models.JWTClaims, patientID int64) (*dto.AverageIntensityResponse, error) {
	today := dateOnly(s.now())
	from := today.AddDate(0, 0, -(trailingWindowDays - 1))
	resp := &dto.AverageIntensityResponse{
		From: from.Format("2006-01-02"),
		To:   today.Format("2006-01-02"),
	}

	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patient")
	}
	if err := authorizePatientAccess(claims, patient, false); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dash:paciente:%d:avg:%s", patientID, today.Format("2006-01-02"))
	if s.cache != nil {
		var cached dto.AverageIntensityResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	start := time.Now()
	average, count, err := s.aggregates.AverageIntensity(ctx, patientID, from, today)
	s.metrics.ObserveDBQuery("avg_intensity_patient", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute average intensity")
	}
	resp.EntryCount = count
	if count > 0 {
		rounded := roundToTwo(average)
		resp.Average = &rounded
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp, s.cacheTTL); err != nil {
			s.logger.Warn("average intensity cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

// TherapistAverageIntensity reports the mean intensity over the trailing
// 7 days across every patient linked to the therapist. Only the therapist
// themself may read it.
func (s *DashboardService) TherapistAverageIntensity(ctx context.Context, claims *models.JWTClaims, therapistID int64) (*dto.AverageIntensityResponse, error) {
	if claims == nil || claims.Role != models.RoleTherapist || claims.AccountID != therapistID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no access to this therapist scope")
	}

	today := dateOnly(s.now())
	from := today.AddDate(0, 0, -(trailingWindowDays - 1))
	resp := &dto.AverageIntensityResponse{
		From: from.Format("2006-01-02"),
		To:   today.Format("2006-01-02"),
	}

	start := time.Now()
	average, count, err := s.aggregates.AverageIntensityByTherapist(ctx, therapistID, from, today)
	s.metrics.ObserveDBQuery("avg_intensity_therapist", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute average intensity")
	}
	resp.EntryCount = count
	if count > 0 {
		rounded := roundToTwo(average)
		resp.Average = &rounded
	}
	return resp, nil
}

// Completion reports how many of the patient's traits were updated today,
// as a 0-100 percentage. A patient with zero traits completes at 0%, not
// a division error.
func (s *DashboardService) Completion(ctx context.Context, claims *models.JWTClaims, patientID int64) (*dto.CompletionResponse, error) {
	today := dateOnly(s.now())

	rows, err := s.daily.DailyTracking(ctx, claims, patientID)
	if err != nil {
		return nil, err
	}

	updated := 0
	for _, row := range rows {
		if row.UpdatedToday {
			updated++
		}
	}

	resp := &dto.CompletionResponse{
		Date:         today.Format("2006-01-02"),
		TotalTraits:  len(rows),
		UpdatedToday: updated,
	}
	if len(rows) > 0 {
		resp.Percentage = roundToTwo(float64(updated) / float64(len(rows)) * 100)
	}
	return resp, nil
}

func roundToTwo(value float64) float64 {
	return math.Round(value*100) / 100
}
