package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fefaortiz/tear-api/internal/models"
)

// CaregiverRepository manages persistence for the cuidador table.
type CaregiverRepository struct {
	db *sqlx.DB
}

// NewCaregiverRepository constructs a CaregiverRepository.
func NewCaregiverRepository(db *sqlx.DB) *CaregiverRepository {
	return &CaregiverRepository{db: db}
}

// Create inserts a new caregiver and fills the generated id.
func (r *CaregiverRepository) Create(ctx context.Context, caregiver *models.Caregiver) error {
	now := time.Now().UTC()
	caregiver.CreatedAt = now
	caregiver.UpdatedAt = now
	const query = `INSERT INTO cuidador (nome, email, cpf, telefone, sexo, data_nascimento, senha, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.GetContext(ctx, &caregiver.ID, query,
		caregiver.Name, caregiver.Email, caregiver.CPF, caregiver.Phone,
		caregiver.Sex, caregiver.BirthDate, caregiver.PasswordHash, caregiver.CreatedAt, caregiver.UpdatedAt); err != nil {
		return fmt.Errorf("create caregiver: %w", err)
	}
	return nil
}

// FindByID fetches a caregiver by primary key.
func (r *CaregiverRepository) FindByID(ctx context.Context, id int64) (*models.Caregiver, error) {
	const query = `SELECT id, nome, email, cpf, telefone, sexo, data_nascimento, senha, created_at, updated_at
        FROM cuidador WHERE id = $1`
	var caregiver models.Caregiver
	if err := r.db.GetContext(ctx, &caregiver, query, id); err != nil {
		return nil, err
	}
	return &caregiver, nil
}

// FindByEmail fetches a caregiver by unique email.
func (r *CaregiverRepository) FindByEmail(ctx context.Context, email string) (*models.Caregiver, error) {
	const query = `SELECT id, nome, email, cpf, telefone, sexo, data_nascimento, senha, created_at, updated_at
        FROM cuidador WHERE email = $1`
	var caregiver models.Caregiver
	if err := r.db.GetContext(ctx, &caregiver, query, email); err != nil {
		return nil, err
	}
	return &caregiver, nil
}

// ExistsByEmail checks the unique email, optionally excluding an id.
func (r *CaregiverRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM cuidador WHERE email = $1"
	args := []interface{}{email}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check caregiver email: %w", err)
	}
	return true, nil
}

// Update modifies an existing caregiver profile.
func (r *CaregiverRepository) Update(ctx context.Context, caregiver *models.Caregiver) error {
	caregiver.UpdatedAt = time.Now().UTC()
	const query = `UPDATE cuidador SET nome = :nome, email = :email, cpf = :cpf,
        telefone = :telefone, sexo = :sexo, data_nascimento = :data_nascimento, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, caregiver); err != nil {
		return fmt.Errorf("update caregiver: %w", err)
	}
	return nil
}
