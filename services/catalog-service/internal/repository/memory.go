package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/keamoral/ouijagames/gomicro/logger"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/model"
	"go.uber.org/zap"
)

// MemoryRepository keeps the catalog in process memory. Used for local
// development and tests; data is lost on restart.
type MemoryRepository struct {
	mu         sync.RWMutex
	products   map[uint]model.Product
	categories map[uint]model.Category
	users      map[uint]model.User

	// one sequence per table, like the postgres serial columns
	productSeq  uint
	categorySeq uint
	userSeq     uint
}

// NewMemoryRepository returns an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products:   make(map[uint]model.Product),
		categories: make(map[uint]model.Category),
		users:      make(map[uint]model.User),
	}
}

func next(seq *uint) uint {
	*seq++
	return *seq
}

func (r *MemoryRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		p.Category = r.categories[p.CategoryID]
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (r *MemoryRepository) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Category = r.categories[p.CategoryID]
	return &p, nil
}

func (r *MemoryRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.products {
		if existing.Name == p.Name {
			return ErrDuplicate
		}
	}
	category, ok := r.categories[p.CategoryID]
	if !ok {
		return ErrNotFound
	}

	now := time.Now()
	p.ID = next(&r.productSeq)
	p.CreatedAt, p.UpdatedAt = now, now
	p.Category = category
	r.products[p.ID] = *p
	logger.FromContext(ctx).Debug("Product stored in memory", zap.Uint("product_id", p.ID))
	return nil
}

func (r *MemoryRepository) DeleteProduct(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	logger.FromContext(ctx).Debug("Product removed from memory", zap.Uint("product_id", id))
	return nil
}

func (r *MemoryRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (r *MemoryRepository) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return ErrDuplicate
		}
	}

	now := time.Now()
	c.ID = next(&r.categorySeq)
	c.CreatedAt, c.UpdatedAt = now, now
	r.categories[c.ID] = *c
	logger.FromContext(ctx).Debug("Category stored in memory", zap.Uint("category_id", c.ID))
	return nil
}

func (r *MemoryRepository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) CreateUser(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}

	now := time.Now()
	u.ID = next(&r.userSeq)
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = *u
	logger.FromContext(ctx).Debug("User stored in memory", zap.Uint("user_id", u.ID))
	return nil
}

func (r *MemoryRepository) UpdateUserProfile(ctx context.Context, id uint, username, rut string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Username = username
	u.RUT = rut
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return &u, nil
}
