package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fefaortiz/tear-api/internal/models"
)

// TrackingRepository manages persistence for the tracking table.
type TrackingRepository struct {
	db *sqlx.DB
}

// NewTrackingRepository constructs a TrackingRepository.
func NewTrackingRepository(db *sqlx.DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

// Create inserts a new tracking entry and fills the generated id. The
// foreign key on idtraits rejects inserts racing a trait delete.
func (r *TrackingRepository) Create(ctx context.Context, entry *models.TrackingEntry) error {
	entry.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO tracking (idtraits, intensidade, descricao, dia_de_registro, created_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &entry.ID, query,
		entry.TraitID, entry.Intensity, entry.Note, entry.RecordDate, entry.CreatedAt); err != nil {
		return fmt.Errorf("create tracking entry: %w", err)
	}
	return nil
}

// EntriesOn returns every entry recorded on the given calendar date across
// all traits of one patient, in id order.
func (r *TrackingRepository) EntriesOn(ctx context.Context, patientID int64, date time.Time) ([]models.TrackingEntry, error) {
	const query = `SELECT tr.id, tr.idtraits, tr.intensidade, tr.descricao, tr.dia_de_registro, tr.created_at
        FROM tracking tr
        JOIN traits t ON t.id = tr.idtraits
        WHERE t.id_paciente = $1 AND tr.dia_de_registro = $2
        ORDER BY tr.id`
	var entries []models.TrackingEntry
	if err := r.db.SelectContext(ctx, &entries, query, patientID, date.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("entries on date: %w", err)
	}
	return entries, nil
}

// EntriesBetween returns one trait's entries inside the inclusive date
// window, ordered by day then id so later entries of the same day win.
func (r *TrackingRepository) EntriesBetween(ctx context.Context, traitID int64, from, to time.Time) ([]models.TrackingEntry, error) {
	const query = `SELECT id, idtraits, intensidade, descricao, dia_de_registro, created_at
        FROM tracking
        WHERE idtraits = $1 AND dia_de_registro BETWEEN $2 AND $3
        ORDER BY dia_de_registro, id`
	var entries []models.TrackingEntry
	if err := r.db.SelectContext(ctx, &entries, query, traitID, from.Format("2006-01-02"), to.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("entries between dates: %w", err)
	}
	return entries, nil
}

// AverageIntensity computes the mean intensity over the window for one
// patient. The count lets callers distinguish "no data" from a real zero.
func (r *TrackingRepository) AverageIntensity(ctx context.Context, patientID int64, from, to time.Time) (float64, int, error) {
	const query = `SELECT COALESCE(AVG(tr.intensidade), 0) AS media, COUNT(tr.id) AS total
        FROM tracking tr
        JOIN traits t ON t.id = tr.idtraits
        WHERE t.id_paciente = $1 AND tr.dia_de_registro BETWEEN $2 AND $3`
	var row struct {
		Average float64 `db:"media"`
		Total   int     `db:"total"`
	}
	if err := r.db.GetContext(ctx, &row, query, patientID, from.Format("2006-01-02"), to.Format("2006-01-02")); err != nil {
		if err == sql.ErrNoRows {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("average intensity: %w", err)
	}
	return row.Average, row.Total, nil
}

// AverageIntensityByTherapist computes the mean intensity over the window
// across every patient linked to the therapist.
func (r *TrackingRepository) AverageIntensityByTherapist(ctx context.Context, therapistID int64, from, to time.Time) (float64, int, error) {
	const query = `SELECT COALESCE(AVG(tr.intensidade), 0) AS media, COUNT(tr.id) AS total
        FROM tracking tr
        JOIN traits t ON t.id = tr.idtraits
        JOIN paciente p ON p.id = t.id_paciente
        WHERE p.id_terapeuta = $1 AND tr.dia_de_registro BETWEEN $2 AND $3`
	var row struct {
		Average float64 `db:"media"`
		Total   int     `db:"total"`
	}
	if err := r.db.GetContext(ctx, &row, query, therapistID, from.Format("2006-01-02"), to.Format("2006-01-02")); err != nil {
		if err == sql.ErrNoRows {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("average intensity by therapist: %w", err)
	}
	return row.Average, row.Total, nil
}
