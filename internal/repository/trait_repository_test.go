package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefaortiz/tear-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTraitRepositoryCreateFillsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTraitRepository(db)

	mock.ExpectQuery("INSERT INTO traits").
		WithArgs(int64(7), "Sono", "", int64(7), "PACIENTE", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	trait := &models.Trait{PatientID: 7, Name: "Sono", CreatorID: 7, CreatorRole: models.RolePatient}
	require.NoError(t, repo.Create(context.Background(), trait))
	assert.Equal(t, int64(12), trait.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTraitRepositoryListByPatientResolvesCreator(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTraitRepository(db)

	rows := sqlmock.NewRows([]string{"id", "id_paciente", "nome", "descricao", "id_criador", "criador_role", "created_at", "criador"}).
		AddRow(1, 7, "Sono", "", 7, "PACIENTE", time.Now(), "Ana").
		AddRow(2, 7, "Apetite", "", 5, "CUIDADOR", time.Now(), "Maria")
	mock.ExpectQuery("FROM traits t").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	traits, err := repo.ListByPatient(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, traits, 2)
	assert.Equal(t, "Ana", traits[0].CreatorName)
	assert.Equal(t, models.RoleCaregiver, traits[1].CreatorRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTraitRepositoryDeleteCascadesInOneTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTraitRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tracking WHERE idtraits").
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM traits WHERE id").
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 12))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTraitRepositoryDeleteRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTraitRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tracking WHERE idtraits").
		WithArgs(int64(12)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	require.Error(t, repo.Delete(context.Background(), 12))
	assert.NoError(t, mock.ExpectationsWereMet())
}
