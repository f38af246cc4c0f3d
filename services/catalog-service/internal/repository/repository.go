package repository

import (
	"context"
	"errors"

	"github.com/keamoral/ouijagames/services/catalog-service/internal/model"
)

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique attribute is already taken
	ErrDuplicate = errors.New("record already exists")
)

// Repository is the persistence boundary of the catalog service
type Repository interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	// CreateProduct assigns the ID and fills the Category association
	CreateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id uint) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uint) (*model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) error

	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	UpdateUserProfile(ctx context.Context, id uint, username, rut string) (*model.User, error)
}

// DefaultCategories is the catalog seed used when the store starts empty
func DefaultCategories() []model.Category {
	return []model.Category{
		{Name: "Juegos de mesa", Description: "Juegos de tablero y estrategia"},
		{Name: "Cartas", Description: "Juegos de cartas coleccionables"},
		{Name: "Accesorios", Description: "Fundas, dados y tapetes"},
	}
}

// SeedCategories inserts the given categories when the store has none
func SeedCategories(ctx context.Context, repo Repository, categories []model.Category) (int, error) {
	existing, err := repo.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i := range categories {
		if err := repo.CreateCategory(ctx, &categories[i]); err != nil {
			return i, err
		}
	}
	return len(categories), nil
}
