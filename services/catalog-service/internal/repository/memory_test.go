package repository

import (
	"context"
	"testing"

	"github.com/keamoral/ouijagames/gomicro/logger"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSeedCategories(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	n, err := SeedCategories(ctx, repo, DefaultCategories())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// second run is a no-op
	n, err = SeedCategories(ctx, repo, DefaultCategories())
	require.NoError(t, err)
	assert.Zero(t, n)

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Juegos de mesa", categories[0].Name)
	assert.Equal(t, "Accesorios", categories[2].Name)
}

func TestMemoryRepository_Products(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	cat := model.Category{Name: "Cartas"}
	require.NoError(t, repo.CreateCategory(ctx, &cat))

	p := model.Product{Name: "Catan", Price: 30000, Stock: 2, CategoryID: cat.ID}
	require.NoError(t, repo.CreateProduct(ctx, &p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Cartas", p.Category.Name)

	dup := model.Product{Name: "Catan", Price: 1, CategoryID: cat.ID}
	assert.ErrorIs(t, repo.CreateProduct(ctx, &dup), ErrDuplicate)

	orphan := model.Product{Name: "Dixit", Price: 1, CategoryID: 999}
	assert.ErrorIs(t, repo.CreateProduct(ctx, &orphan), ErrNotFound)

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.Category.ID)

	require.NoError(t, repo.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, repo.DeleteProduct(ctx, p.ID), ErrNotFound)

	_, err = repo.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_ListProductsOrdered(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	cat := model.Category{Name: "Juegos de mesa"}
	require.NoError(t, repo.CreateCategory(ctx, &cat))
	for _, name := range []string{"Azul", "Carcassonne", "Dominion"} {
		require.NoError(t, repo.CreateProduct(ctx, &model.Product{Name: name, Price: 1, CategoryID: cat.ID}))
	}

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Azul", products[0].Name)
	assert.Equal(t, "Dominion", products[2].Name)
}

func TestMemoryRepository_Users(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	u := model.User{Email: "ana@example.com", Password: "hash"}
	require.NoError(t, repo.CreateUser(ctx, &u))
	assert.ErrorIs(t, repo.CreateUser(ctx, &model.User{Email: "ana@example.com"}), ErrDuplicate)

	found, err := repo.FindUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = repo.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := repo.UpdateUserProfile(ctx, u.ID, "ana", "12.345.678-9")
	require.NoError(t, err)
	assert.Equal(t, "ana", updated.Username)
	assert.Equal(t, "12.345.678-9", updated.RUT)

	_, err = repo.UpdateUserProfile(ctx, 999, "x", "y")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_SequencePerTable(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := SeedCategories(ctx, repo, DefaultCategories())
	require.NoError(t, err)

	u := model.User{Email: "ana@ouija.cl"}
	require.NoError(t, repo.CreateUser(ctx, &u))
	assert.Equal(t, uint(1), u.ID)

	p := model.Product{Name: "Catan", Price: 30000, CategoryID: 1}
	require.NoError(t, repo.CreateProduct(ctx, &p))
	assert.Equal(t, uint(1), p.ID)

	c := model.Category{Name: "Rol"}
	require.NoError(t, repo.CreateCategory(ctx, &c))
	assert.Equal(t, uint(4), c.ID)
}

func TestMemoryRepository_LogsThroughContextLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core).With(zap.String("request_id", "req-7")))
	repo := NewMemoryRepository()

	c := model.Category{Name: "Cartas"}
	require.NoError(t, repo.CreateCategory(ctx, &c))
	p := model.Product{Name: "Uno", Price: 5990, CategoryID: c.ID}
	require.NoError(t, repo.CreateProduct(ctx, &p))
	require.NoError(t, repo.DeleteProduct(ctx, p.ID))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "Product stored in memory", entries[1].Message)
	for _, e := range entries {
		assert.Equal(t, "req-7", e.ContextMap()["request_id"])
	}
}
