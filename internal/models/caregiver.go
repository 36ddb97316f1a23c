package models

import "time"

// Caregiver represents a row in the cuidador table.
type Caregiver struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"nome" json:"nome"`
	Email        string    `db:"email" json:"email"`
	CPF          string    `db:"cpf" json:"cpf"`
	Phone        string    `db:"telefone" json:"telefone"`
	Sex          string    `db:"sexo" json:"sexo"`
	BirthDate    time.Time `db:"data_nascimento" json:"data_nascimento"`
	PasswordHash string    `db:"senha" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
