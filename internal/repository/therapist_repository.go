package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fefaortiz/tear-api/internal/models"
)

// TherapistRepository manages persistence for the terapeuta table.
type TherapistRepository struct {
	db *sqlx.DB
}

// NewTherapistRepository constructs a TherapistRepository.
func NewTherapistRepository(db *sqlx.DB) *TherapistRepository {
	return &TherapistRepository{db: db}
}

// Create inserts a new therapist and fills the generated id.
func (r *TherapistRepository) Create(ctx context.Context, therapist *models.Therapist) error {
	now := time.Now().UTC()
	therapist.CreatedAt = now
	therapist.UpdatedAt = now
	const query = `INSERT INTO terapeuta (nome, email, cpf, crp, telefone, sexo, data_nascimento, senha, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.GetContext(ctx, &therapist.ID, query,
		therapist.Name, therapist.Email, therapist.CPF, therapist.CRP, therapist.Phone,
		therapist.Sex, therapist.BirthDate, therapist.PasswordHash, therapist.CreatedAt, therapist.UpdatedAt); err != nil {
		return fmt.Errorf("create therapist: %w", err)
	}
	return nil
}

// FindByID fetches a therapist by primary key.
func (r *TherapistRepository) FindByID(ctx context.Context, id int64) (*models.Therapist, error) {
	const query = `SELECT id, nome, email, cpf, crp, telefone, sexo, data_nascimento, senha, created_at, updated_at
        FROM terapeuta WHERE id = $1`
	var therapist models.Therapist
	if err := r.db.GetContext(ctx, &therapist, query, id); err != nil {
		return nil, err
	}
	return &therapist, nil
}

// FindByEmail fetches a therapist by unique email.
func (r *TherapistRepository) FindByEmail(ctx context.Context, email string) (*models.Therapist, error) {
	const query = `SELECT id, nome, email, cpf, crp, telefone, sexo, data_nascimento, senha, created_at, updated_at
        FROM terapeuta WHERE email = $1`
	var therapist models.Therapist
	if err := r.db.GetContext(ctx, &therapist, query, email); err != nil {
		return nil, err
	}
	return &therapist, nil
}

// ExistsByUnique checks the unique columns (email, cpf, crp) for a
// conflicting row, optionally excluding an id during profile edits.
func (r *TherapistRepository) ExistsByUnique(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	switch column {
	case "email", "cpf", "crp":
	default:
		return false, fmt.Errorf("unsupported unique column %q", column)
	}
	query := fmt.Sprintf("SELECT 1 FROM terapeuta WHERE %s = $1", column)
	args := []interface{}{value}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check therapist %s: %w", column, err)
	}
	return true, nil
}

// Update modifies an existing therapist profile.
func (r *TherapistRepository) Update(ctx context.Context, therapist *models.Therapist) error {
	therapist.UpdatedAt = time.Now().UTC()
	const query = `UPDATE terapeuta SET nome = :nome, email = :email, cpf = :cpf, crp = :crp,
        telefone = :telefone, sexo = :sexo, data_nascimento = :data_nascimento, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, therapist); err != nil {
		return fmt.Errorf("update therapist: %w", err)
	}
	return nil
}
