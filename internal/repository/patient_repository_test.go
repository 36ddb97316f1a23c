package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefaortiz/tear-api/internal/models"
)

func TestPatientRepositoryCreateFillsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPatientRepository(db)

	therapistID := int64(3)
	mock.ExpectQuery("INSERT INTO paciente").
		WithArgs("Ana", "ana@example.com", "", "", "", sqlmock.AnyArg(), "hash", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	patient := &models.Patient{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash", TherapistID: &therapistID}
	require.NoError(t, repo.Create(context.Background(), patient))
	assert.Equal(t, int64(7), patient.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPatientRepository(db)

	mock.ExpectQuery("SELECT 1 FROM paciente WHERE email").
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "ana@example.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM paciente WHERE email").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.ExistsByEmail(context.Background(), "ghost@example.com", 0)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepositoryListByTherapist(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPatientRepository(db)

	rows := sqlmock.NewRows([]string{"id", "nome", "email", "cpf", "telefone", "sexo", "data_nascimento", "senha", "id_terapeuta", "id_cuidador", "created_at", "updated_at"}).
		AddRow(7, "Ana", "ana@example.com", "", "", "", time.Now(), "hash", 3, nil, time.Now(), time.Now())
	mock.ExpectQuery("FROM paciente WHERE id_terapeuta").
		WithArgs(int64(3)).
		WillReturnRows(rows)

	patients, err := repo.ListByTherapist(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Ana", patients[0].Name)
	require.NotNil(t, patients[0].TherapistID)
	assert.Equal(t, int64(3), *patients[0].TherapistID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
