package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fefaortiz/tear-api/internal/models"
)

// TraitRepository manages persistence for the traits table.
type TraitRepository struct {
	db *sqlx.DB
}

// NewTraitRepository constructs a TraitRepository.
func NewTraitRepository(db *sqlx.DB) *TraitRepository {
	return &TraitRepository{db: db}
}

// Create inserts a new trait and fills the generated id.
func (r *TraitRepository) Create(ctx context.Context, trait *models.Trait) error {
	trait.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO traits (id_paciente, nome, descricao, id_criador, criador_role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.GetContext(ctx, &trait.ID, query,
		trait.PatientID, trait.Name, trait.Description, trait.CreatorID, trait.CreatorRole, trait.CreatedAt); err != nil {
		return fmt.Errorf("create trait: %w", err)
	}
	return nil
}

// FindByID fetches a trait by primary key.
func (r *TraitRepository) FindByID(ctx context.Context, id int64) (*models.Trait, error) {
	const query = `SELECT id, id_paciente, nome, descricao, id_criador, criador_role, created_at
        FROM traits WHERE id = $1`
	var trait models.Trait
	if err := r.db.GetContext(ctx, &trait, query, id); err != nil {
		return nil, err
	}
	return &trait, nil
}

// ListByPatient returns the patient's traits in creation (id) order, each
// joined with its creator name resolved against paciente or cuidador
// depending on the stored role.
func (r *TraitRepository) ListByPatient(ctx context.Context, patientID int64) ([]models.TraitWithCreator, error) {
	const query = `SELECT t.id, t.id_paciente, t.nome, t.descricao, t.id_criador, t.criador_role, t.created_at,
        COALESCE(CASE WHEN t.criador_role = 'PACIENTE' THEN p.nome ELSE c.nome END, '') AS criador
        FROM traits t
        LEFT JOIN paciente p ON t.criador_role = 'PACIENTE' AND p.id = t.id_criador
        LEFT JOIN cuidador c ON t.criador_role = 'CUIDADOR' AND c.id = t.id_criador
        WHERE t.id_paciente = $1
        ORDER BY t.id`
	var traits []models.TraitWithCreator
	if err := r.db.SelectContext(ctx, &traits, query, patientID); err != nil {
		return nil, fmt.Errorf("list traits: %w", err)
	}
	return traits, nil
}

// Delete removes a trait and all of its tracking entries in one
// transaction so no orphan rows survive.
func (r *TraitRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin trait delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM tracking WHERE idtraits = $1", id); err != nil {
		return fmt.Errorf("delete tracking entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM traits WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete trait: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trait delete: %w", err)
	}
	return nil
}
