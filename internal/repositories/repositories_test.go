package repositories_test

import (
	"context"
	"testing"

	"kasir/internal/apperrors"
	"kasir/internal/database"
	"kasir/internal/models"
	"kasir/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", database.MemoryDSN(uuid.NewString()), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestGORMProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	categories := repositories.NewGORMCategoryRepository(db)
	repo := repositories.NewGORMProductRepository(db)

	minuman := &models.Category{Name: "Minuman"}
	require.NoError(t, categories.Create(ctx, minuman))

	kopi := &models.Product{Nama: "Kopi", Kode: "K1", Stok: 5, Harga: 5000, HargaBeli: 3000, JenisProdukID: &minuman.ID}
	require.NoError(t, repo.Create(ctx, kopi))
	assert.NotEmpty(t, kopi.ID)

	got, err := repo.GetByID(ctx, kopi.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kopi", got.Nama)
	require.NotNil(t, got.JenisProduk)
	assert.Equal(t, "Minuman", got.JenisProduk.Name)

	// Zero values must be written on update.
	got.Stok = 0
	got.JenisProdukID = nil
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, kopi.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stok)
	assert.Nil(t, got.JenisProduk)

	require.NoError(t, repo.Delete(ctx, kopi.ID))
	_, err = repo.GetByID(ctx, kopi.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGORMProductRepository_MissingRecords(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMProductRepository(openDB(t))

	err := repo.Update(ctx, &models.Product{ID: "missing", Nama: "X"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = repo.Delete(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGORMProductRepository_ListPages(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMProductRepository(openDB(t))

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, &models.Product{Nama: name, Kode: name}))
	}

	page, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "A", page[0].Nama)
	assert.Equal(t, "B", page[1].Nama)

	page, _, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "C", page[0].Nama)
}

func TestGORMCategoryRepository_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMCategoryRepository(openDB(t))

	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Sembako"}))
	err := repo.Create(ctx, &models.Category{Name: "Sembako"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGORMTransactionRepository_Create(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	products := repositories.NewGORMProductRepository(db)
	repo := repositories.NewGORMTransactionRepository(db)

	gula := &models.Product{Nama: "Gula", Kode: "G1", Stok: 10, Harga: 15000}
	require.NoError(t, products.Create(ctx, gula))

	tx := &models.Transaction{
		Pelanggan: "Budi",
		Items:     []models.TransactionItem{{ProductID: gula.ID, Qty: 3}},
	}
	require.NoError(t, repo.Create(ctx, tx))
	assert.Equal(t, int64(45000), tx.Total)
	assert.Equal(t, "Gula", tx.Items[0].Nama)

	stored, err := products.GetByID(ctx, gula.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Stok)

	err = products.Delete(ctx, gula.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = products.GetByID(ctx, gula.ID)
	require.NoError(t, err, "a sold product stays")

	fetched, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, 3, fetched.Items[0].Qty)
}

func TestGORMTransactionRepository_InsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	products := repositories.NewGORMProductRepository(db)
	repo := repositories.NewGORMTransactionRepository(db)

	teh := &models.Product{Nama: "Teh", Kode: "T1", Stok: 5, Harga: 3000}
	kopi := &models.Product{Nama: "Kopi", Kode: "K1", Stok: 1, Harga: 5000}
	require.NoError(t, products.Create(ctx, teh))
	require.NoError(t, products.Create(ctx, kopi))

	err := repo.Create(ctx, &models.Transaction{Items: []models.TransactionItem{
		{ProductID: teh.ID, Qty: 2},
		{ProductID: kopi.ID, Qty: 2},
	}})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := products.GetByID(ctx, teh.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Stok, "stock of earlier items must be restored")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = repo.Create(ctx, &models.Transaction{Items: []models.TransactionItem{{ProductID: "nope", Qty: 1}}})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGORMUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserRepository(openDB(t))

	user := &models.User{Username: "kasir1", Email: "kasir1@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	byName, err := repo.GetByUsername(ctx, "kasir1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "kasir1@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "kasir1", byID.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = repo.Create(ctx, &models.User{Username: "kasir2", Email: "kasir1@example.com", Password: "hash"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	err = repo.Create(ctx, &models.User{Username: "kasir1", Email: "kasir3@example.com", Password: "hash"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestGORMProductRepository_DeleteRacingSales(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	products := repositories.NewGORMProductRepository(db)
	sales := repositories.NewGORMTransactionRepository(db)

	var ids []string
	for i := 0; i < 20; i++ {
		p := &models.Product{Nama: "Produk", Kode: uuid.NewString(), Stok: 5, Harga: 1000}
		require.NoError(t, products.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, id := range ids {
			_ = sales.Create(ctx, &models.Transaction{Items: []models.TransactionItem{{ProductID: id, Qty: 1}}})
		}
	}()
	for _, id := range ids {
		_ = products.Delete(ctx, id)
	}
	<-done

	var orphans int64
	err := db.Model(&models.TransactionItem{}).
		Where("product_id NOT IN (?)", db.Model(&models.Product{}).Select("id")).
		Count(&orphans).Error
	require.NoError(t, err)
	assert.Zero(t, orphans, "every sold line still points at its product")
}
