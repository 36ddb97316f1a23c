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

func TestTrackingRepositoryCreateFillsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrackingRepository(db)

	mock.ExpectQuery("INSERT INTO tracking").
		WithArgs(int64(1), 4, "noite agitada", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))

	entry := &models.TrackingEntry{TraitID: 1, Intensity: 4, Note: "noite agitada", RecordDate: time.Now()}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.Equal(t, int64(100), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRepositoryEntriesOn(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrackingRepository(db)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "idtraits", "intensidade", "descricao", "dia_de_registro", "created_at"}).
		AddRow(10, 1, 2, "", date, time.Now()).
		AddRow(11, 1, 4, "", date, time.Now())
	mock.ExpectQuery("JOIN traits t ON").
		WithArgs(int64(7), "2025-03-10").
		WillReturnRows(rows)

	entries, err := repo.EntriesOn(context.Background(), 7, date)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(11), entries[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRepositoryEntriesBetween(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrackingRepository(db)

	from := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "idtraits", "intensidade", "descricao", "dia_de_registro", "created_at"}).
		AddRow(1, 1, 2, "", from, time.Now())
	mock.ExpectQuery("WHERE idtraits = .+ AND dia_de_registro BETWEEN").
		WithArgs(int64(1), "2025-03-04", "2025-03-10").
		WillReturnRows(rows)

	entries, err := repo.EntriesBetween(context.Background(), 1, from, to)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRepositoryAverageIntensityCountsEntries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrackingRepository(db)

	from := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("COALESCE\\(AVG\\(tr.intensidade\\), 0\\)").
		WithArgs(int64(7), "2025-03-04", "2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"media", "total"}).AddRow(3.5, 4))

	average, count, err := repo.AverageIntensity(context.Background(), 7, from, to)
	require.NoError(t, err)
	assert.Equal(t, 3.5, average)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRepositoryAverageIntensityEmptyWindow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrackingRepository(db)

	from := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("COALESCE\\(AVG\\(tr.intensidade\\), 0\\)").
		WithArgs(int64(7), "2025-03-04", "2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"media", "total"}).AddRow(0, 0))

	average, count, err := repo.AverageIntensity(context.Background(), 7, from, to)
	require.NoError(t, err)
	assert.Equal(t, float64(0), average)
	assert.Equal(t, 0, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRepositoryAverageIntensityByTherapist(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrackingRepository(db)

	from := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("JOIN paciente p ON").
		WithArgs(int64(3), "2025-03-04", "2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"media", "total"}).AddRow(2.75, 8))

	average, count, err := repo.AverageIntensityByTherapist(context.Background(), 3, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2.75, average)
	assert.Equal(t, 8, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
