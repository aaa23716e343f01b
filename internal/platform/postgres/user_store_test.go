package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storely/storely-api/internal/domain"
	"github.com/storely/storely-api/internal/platform/postgres"
	"github.com/storely/storely-api/internal/store"
	"github.com/storely/storely-api/internal/testutils"
)

func insertTestUser(t *testing.T, tx *sql.Tx, email string) *domain.User {
	t.Helper()

	user, err := domain.NewUser("Test User", email, "hashed-password-placeholder")
	require.NoError(t, err)
	require.NoError(t, postgres.NewUserStore(tx, nil).Create(context.Background(), user))
	return user
}

func TestUserStoreCreateAndGet(t *testing.T) {
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		userStore := postgres.NewUserStore(tx, nil)
		ctx := context.Background()

		user := insertTestUser(t, tx, "ada@example.com")

		byID, err := userStore.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)
		assert.Equal(t, user.HashedPassword, byID.HashedPassword)

		byEmail, err := userStore.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
	})
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		userStore := postgres.NewUserStore(tx, nil)

		insertTestUser(t, tx, "ada@example.com")

		duplicate, err := domain.NewUser("Imposter", "ada@example.com", "other-hash")
		require.NoError(t, err)

		err = userStore.Create(context.Background(), duplicate)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestUserStoreGetMissing(t *testing.T) {
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		userStore := postgres.NewUserStore(tx, nil)
		ctx := context.Background()

		_, err := userStore.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = userStore.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
