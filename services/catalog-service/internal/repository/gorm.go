package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/keamoral/ouijagames/gomicro/database"
	"github.com/keamoral/ouijagames/gomicro/logger"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

// GormRepository stores the catalog in PostgreSQL through gorm
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository wraps an open gorm connection
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates the catalog tables
func (r *GormRepository) Migrate() error {
	return database.MigrateModels(r.db, &model.Category{}, &model.Product{}, &model.User{})
}

func (r *GormRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Preload("Category").Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *GormRepository) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *GormRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	db := r.db.WithContext(ctx)

	// name uniqueness among live rows is enforced by idx_products_name_live
	if err := db.Omit(clause.Associations).Create(p).Error; err != nil {
		return translate("create product", err)
	}
	logger.FromContext(ctx).Debug("Product row inserted", zap.Uint("product_id", p.ID))
	return notFound(db.First(&p.Category, p.CategoryID).Error)
}

func (r *GormRepository) DeleteProduct(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	logger.FromContext(ctx).Debug("Product row soft-deleted", zap.Uint("product_id", id))
	return nil
}

func (r *GormRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *GormRepository) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (r *GormRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return translate("create category", err)
	}
	logger.FromContext(ctx).Debug("Category row inserted", zap.Uint("category_id", c.ID))
	return nil
}

func (r *GormRepository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *GormRepository) CreateUser(ctx context.Context, u *model.User) error {
	if _, err := r.FindUserByEmail(ctx, u.Email); err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translate("create user", err)
	}
	logger.FromContext(ctx).Debug("User row inserted", zap.Uint("user_id", u.ID))
	return nil
}

func (r *GormRepository) UpdateUserProfile(ctx context.Context, id uint, username, rut string) (*model.User, error) {
	db := r.db.WithContext(ctx)

	result := db.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"username": username,
		"rut":      rut,
	})
	if result.Error != nil {
		return nil, fmt.Errorf("update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// translate maps unique violations to ErrDuplicate, both when gorm's
// TranslateError is on and when the raw pgconn error comes through
func translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		(errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation) {
		return ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
