package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "name", "email", "document", "phone", "birth_date", "created_at", "updated_at"}

func TestUserRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("create", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("Maria", "maria@example.com", "123", "+55", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

		user := &models.User{Name: "Maria", Email: "maria@example.com", Document: "123", Phone: "+55"}
		require.NoError(t, repo.Create(ctx, user))
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("get", func(t *testing.T) {
		birth := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Maria", "maria@example.com", "123", "+55", birth, now, now))

		user, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Maria", user.Name)
		require.NotNil(t, user.BirthDate)
		assert.Equal(t, birth, *user.BirthDate)
	})

	t.Run("get missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(userColumns))

		_, err := repo.Get(ctx, 9)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("update missing", func(t *testing.T) {
		mock.ExpectQuery("UPDATE users").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

		err := repo.Update(ctx, &models.User{ID: 9, Name: "x"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM users WHERE id = \\$1").
			WithArgs(int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Delete(ctx, 1))
		assert.ErrorIs(t, repo.Delete(ctx, 2), repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAddressRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO addresses").
		WithArgs(int64(1), "Rua A", "10", "Centro", "Recife", "PE", "50000-000", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectQuery("SELECT (.+) FROM addresses WHERE user_id = \\$1 ORDER BY id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "street", "number", "neighborhood", "city", "state", "zip_code", "is_primary"}).
			AddRow(4, 1, "Rua A", "10", "Centro", "Recife", "PE", "50000-000", true))

	addr := &models.Address{UserID: 1, Street: "Rua A", Number: "10", Neighborhood: "Centro", City: "Recife", State: "PE", ZipCode: "50000-000", Primary: true}
	require.NoError(t, repo.Create(ctx, addr))
	assert.Equal(t, int64(4), addr.ID)

	list, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Recife, PE", list[0].City+", "+list[0].State)
	assert.True(t, list[0].Primary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
