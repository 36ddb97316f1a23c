package models

import "time"

// Trait is a named characteristic tracked daily for a patient. It is
// created either by the patient or by their caregiver; the creator is kept
// as an (id, role) pair because the two roles live in separate tables.
type Trait struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   int64     `db:"id_paciente" json:"id_paciente"`
	Name        string    `db:"nome" json:"nome"`
	Description string    `db:"descricao" json:"descricao"`
	CreatorID   int64     `db:"id_criador" json:"id_criador"`
	CreatorRole Role      `db:"criador_role" json:"criador_role"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TraitWithCreator carries a trait row joined with the denormalised
// creator name resolved against paciente or cuidador.
type TraitWithCreator struct {
	Trait
	CreatorName string `db:"criador" json:"criador"`
}
