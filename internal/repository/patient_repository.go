package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fefaortiz/tear-api/internal/models"
)

const patientColumns = `id, nome, email, cpf, telefone, sexo, data_nascimento, senha, id_terapeuta, id_cuidador, created_at, updated_at`

// PatientRepository manages persistence for the paciente table.
type PatientRepository struct {
	db *sqlx.DB
}

// NewPatientRepository constructs a PatientRepository.
func NewPatientRepository(db *sqlx.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// Create inserts a new patient and fills the generated id.
func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	now := time.Now().UTC()
	patient.CreatedAt = now
	patient.UpdatedAt = now
	const query = `INSERT INTO paciente (nome, email, cpf, telefone, sexo, data_nascimento, senha, id_terapeuta, id_cuidador, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	if err := r.db.GetContext(ctx, &patient.ID, query,
		patient.Name, patient.Email, patient.CPF, patient.Phone, patient.Sex,
		patient.BirthDate, patient.PasswordHash, patient.TherapistID, patient.CaregiverID,
		patient.CreatedAt, patient.UpdatedAt); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

// FindByID fetches a patient by primary key.
func (r *PatientRepository) FindByID(ctx context.Context, id int64) (*models.Patient, error) {
	query := fmt.Sprintf("SELECT %s FROM paciente WHERE id = $1", patientColumns)
	var patient models.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, err
	}
	return &patient, nil
}

// FindByEmail fetches a patient by unique email.
func (r *PatientRepository) FindByEmail(ctx context.Context, email string) (*models.Patient, error) {
	query := fmt.Sprintf("SELECT %s FROM paciente WHERE email = $1", patientColumns)
	var patient models.Patient
	if err := r.db.GetContext(ctx, &patient, query, email); err != nil {
		return nil, err
	}
	return &patient, nil
}

// ExistsByEmail checks the unique email, optionally excluding an id.
func (r *PatientRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM paciente WHERE email = $1"
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
		return false, fmt.Errorf("check patient email: %w", err)
	}
	return true, nil
}

// ListByTherapist returns every patient linked to the given therapist.
func (r *PatientRepository) ListByTherapist(ctx context.Context, therapistID int64) ([]models.Patient, error) {
	query := fmt.Sprintf("SELECT %s FROM paciente WHERE id_terapeuta = $1 ORDER BY id", patientColumns)
	var patients []models.Patient
	if err := r.db.SelectContext(ctx, &patients, query, therapistID); err != nil {
		return nil, fmt.Errorf("list patients by therapist: %w", err)
	}
	return patients, nil
}

// ListByCaregiver returns every patient linked to the given caregiver.
func (r *PatientRepository) ListByCaregiver(ctx context.Context, caregiverID int64) ([]models.Patient, error) {
	query := fmt.Sprintf("SELECT %s FROM paciente WHERE id_cuidador = $1 ORDER BY id", patientColumns)
	var patients []models.Patient
	if err := r.db.SelectContext(ctx, &patients, query, caregiverID); err != nil {
		return nil, fmt.Errorf("list patients by caregiver: %w", err)
	}
	return patients, nil
}

// Update modifies an existing patient profile, including the therapist and
// caregiver links.
func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	patient.UpdatedAt = time.Now().UTC()
	const query = `UPDATE paciente SET nome = :nome, email = :email, cpf = :cpf, telefone = :telefone,
        sexo = :sexo, data_nascimento = :data_nascimento, id_terapeuta = :id_terapeuta,
        id_cuidador = :id_cuidador, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, patient); err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}
