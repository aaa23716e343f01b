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

func insertTestProduct(t *testing.T, tx *sql.Tx, stock int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := tx.ExecContext(
		context.Background(),
		`INSERT INTO products (id, name, price, category, stock)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, "Test Product", 19.99, "test", stock,
	)
	require.NoError(t, err)
	return id
}

func insertTestCartItem(
	t *testing.T,
	cartStore *postgres.CartStore,
	userID, productID uuid.UUID,
	quantity int,
) *domain.CartItem {
	t.Helper()

	item, err := domain.NewCartItem(userID, productID, quantity)
	require.NoError(t, err)
	require.NoError(t, cartStore.Create(context.Background(), item))
	return item
}

func TestCartStoreCreateAndFind(t *testing.T) {
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		cartStore := postgres.NewCartStore(tx, nil)
		ctx := context.Background()

		user := insertTestUser(t, tx, "cart@example.com")
		productID := insertTestProduct(t, tx, 10)

		item := insertTestCartItem(t, cartStore, user.ID, productID, 3)

		found, err := cartStore.FindByUserAndProduct(ctx, user.ID, productID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, found.ID)
		assert.Equal(t, 3, found.Quantity)

		byID, err := cartStore.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, byID.ID)

		items, err := cartStore.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestCartStoreUniqueUserProduct(t *testing.T) {
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		cartStore := postgres.NewCartStore(tx, nil)

		user := insertTestUser(t, tx, "cart@example.com")
		productID := insertTestProduct(t, tx, 10)

		insertTestCartItem(t, cartStore, user.ID, productID, 3)

		second, err := domain.NewCartItem(user.ID, productID, 2)
		require.NoError(t, err)

		err = cartStore.Create(context.Background(), second)
		assert.ErrorIs(t, err, store.ErrCartItemExists)
	})
}

func TestCartStoreUpdateQuantityIf(t *testing.T) {
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		cartStore := postgres.NewCartStore(tx, nil)
		ctx := context.Background()

		user := insertTestUser(t, tx, "cart@example.com")
		productID := insertTestProduct(t, tx, 10)
		item := insertTestCartItem(t, cartStore, user.ID, productID, 3)

		// Matching observed quantity: the swap lands.
		require.NoError(t, cartStore.UpdateQuantityIf(ctx, item.ID, 5, 3))

		updated, err := cartStore.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Quantity)

		// Stale observed quantity: the swap is refused.
		err = cartStore.UpdateQuantityIf(ctx, item.ID, 7, 3)
		assert.ErrorIs(t, err, store.ErrConcurrentModification)

		// Missing row reports not-found, not a lost race.
		err = cartStore.UpdateQuantityIf(ctx, uuid.New(), 1, 1)
		assert.ErrorIs(t, err, store.ErrCartItemNotFound)
	})
}

func TestCartStoreDelete(t *testing.T) {
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		cartStore := postgres.NewCartStore(tx, nil)
		ctx := context.Background()

		user := insertTestUser(t, tx, "cart@example.com")
		productID := insertTestProduct(t, tx, 10)
		item := insertTestCartItem(t, cartStore, user.ID, productID, 3)

		require.NoError(t, cartStore.Delete(ctx, item.ID))
		assert.ErrorIs(t, cartStore.Delete(ctx, item.ID), store.ErrCartItemNotFound)
	})
}

func TestCartStoreDeleteByUser(t *testing.T) {
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		cartStore := postgres.NewCartStore(tx, nil)
		ctx := context.Background()

		user := insertTestUser(t, tx, "cart@example.com")
		first := insertTestProduct(t, tx, 10)
		second := insertTestProduct(t, tx, 10)
		insertTestCartItem(t, cartStore, user.ID, first, 1)
		insertTestCartItem(t, cartStore, user.ID, second, 2)

		require.NoError(t, cartStore.DeleteByUser(ctx, user.ID))

		items, err := cartStore.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, items)

		// Clearing an already empty cart is fine.
		require.NoError(t, cartStore.DeleteByUser(ctx, user.ID))
	})
}

func TestProductStoreList(t *testing.T) {
	db := testutils.GetTestDB(t)

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		productStore := postgres.NewProductStore(tx, nil)
		ctx := context.Background()

		productID := insertTestProduct(t, tx, 7)

		product, err := productStore.GetByID(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, "Test Product", product.Name)
		assert.Equal(t, 19.99, product.Price)
		assert.Equal(t, 7, product.Stock)

		products, err := productStore.List(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, products)

		_, err = productStore.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrProductNotFound)
	})
}
