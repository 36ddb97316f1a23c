package models

import "time"

// Patient represents a row in the paciente table. The therapist and
// caregiver links are resolved from emails once at registration and stored
// as nullable foreign keys.
type Patient struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"nome" json:"nome"`
	Email        string    `db:"email" json:"email"`
	CPF          string    `db:"cpf" json:"cpf"`
	Phone        string    `db:"telefone" json:"telefone"`
	Sex          string    `db:"sexo" json:"sexo"`
	BirthDate    time.Time `db:"data_nascimento" json:"data_nascimento"`
	PasswordHash string    `db:"senha" json:"-"`
	TherapistID  *int64    `db:"id_terapeuta" json:"id_terapeuta,omitempty"`
	CaregiverID  *int64    `db:"id_cuidador" json:"id_cuidador,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
