package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/keamoral/ouijagames/services/storefront/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]catalog.Product)
	return products, args.Error(1)
}

func (m *mockCatalog) GetProduct(ctx context.Context, id int) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*catalog.Product)
	return product, args.Error(1)
}

func (m *mockCatalog) DeleteProduct(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockCatalog) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]catalog.Category)
	return categories, args.Error(1)
}

var (
	ctx     = context.Background()
	catan   = catalog.Product{ID: 1, Name: "Catan"}
	dixit   = catalog.Product{ID: 2, Name: "Dixit"}
	someErr = &catalog.StatusError{Status: 500, Body: "down"}
)

func TestLoadProducts_ReplacesWholeCollection(t *testing.T) {
	api := new(mockCatalog)
	api.On("ListProducts", ctx).Return([]catalog.Product{catan, dixit}, nil).Once()
	api.On("ListProducts", ctx).Return([]catalog.Product{dixit}, nil).Once()

	c := NewController(api, nil)
	var loading []bool
	c.Loading.Subscribe(func(v bool) { loading = append(loading, v) })

	c.LoadProducts(ctx)
	assert.Len(t, c.Products.Get(), 2)

	c.LoadProducts(ctx)
	assert.Equal(t, []catalog.Product{dixit}, c.Products.Get())
	assert.Equal(t, []bool{true, false, true, false}, loading)
	api.AssertExpectations(t)
}

func TestLoadProducts_FailureKeepsStaleList(t *testing.T) {
	api := new(mockCatalog)
	api.On("ListProducts", ctx).Return([]catalog.Product{catan}, nil).Once()
	api.On("ListProducts", ctx).Return(nil, someErr).Once()

	c := NewController(api, nil)
	c.LoadProducts(ctx)
	c.LoadProducts(ctx)

	assert.Equal(t, []catalog.Product{catan}, c.Products.Get())
	assert.Equal(t, "error 500: down", c.Err.Get())
	assert.False(t, c.Loading.Get())
}

func TestDeleteProduct_SuccessReloadsOnce(t *testing.T) {
	api := new(mockCatalog)
	api.On("DeleteProduct", ctx, 1).Return(true, nil).Once()
	api.On("ListProducts", ctx).Return([]catalog.Product{dixit}, nil).Once()

	c := NewController(api, nil)
	c.Products.Set([]catalog.Product{catan, dixit})

	assert.True(t, c.DeleteProduct(ctx, 1))
	assert.Equal(t, []catalog.Product{dixit}, c.Products.Get())
	assert.Empty(t, c.Err.Get())
	api.AssertNumberOfCalls(t, "ListProducts", 1)
}

func TestDeleteProduct_Refused(t *testing.T) {
	tests := []struct {
		name    string
		ok      bool
		err     error
		wantErr string
	}{
		{"false confirmation", false, nil, msgDeleteRefused},
		{"transport fault", false, &catalog.TransportError{Op: "delete_product", Err: errors.New("reset")}, "network error: reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(mockCatalog)
			api.On("DeleteProduct", ctx, 1).Return(tt.ok, tt.err).Once()

			c := NewController(api, nil)
			c.Products.Set([]catalog.Product{catan})

			assert.False(t, c.DeleteProduct(ctx, 1))
			assert.Equal(t, []catalog.Product{catan}, c.Products.Get())
			assert.Equal(t, tt.wantErr, c.Err.Get())
			api.AssertNotCalled(t, "ListProducts", mock.Anything)
		})
	}
}

func TestLoadCategories_OncePerSession(t *testing.T) {
	api := new(mockCatalog)
	categories := []catalog.Category{{ID: 3, Name: "Cartas"}, {ID: 1, Name: "Mesa"}}
	api.On("ListCategories", ctx).Return(categories, nil).Once()

	c := NewController(api, nil)
	c.LoadCategories(ctx)
	c.LoadCategories(ctx)

	assert.Equal(t, categories, c.Categories.Get())
	api.AssertNumberOfCalls(t, "ListCategories", 1)
}

func TestLoadCategories_Failure(t *testing.T) {
	api := new(mockCatalog)
	api.On("ListCategories", ctx).Return(nil, someErr).Once()

	c := NewController(api, nil)
	c.LoadCategories(ctx)

	assert.Equal(t, "failed to load categories: error 500: down", c.Err.Get())
	assert.Empty(t, c.Categories.Get())
}

func TestStart_ProductsThenCategories(t *testing.T) {
	api := new(mockCatalog)
	var order []string
	api.On("ListProducts", ctx).Return([]catalog.Product{catan}, nil).
		Run(func(mock.Arguments) { order = append(order, "products") })
	api.On("ListCategories", ctx).Return([]catalog.Category{{ID: 1}}, nil).
		Run(func(mock.Arguments) { order = append(order, "categories") })

	NewController(api, nil).Start(ctx)
	assert.Equal(t, []string{"products", "categories"}, order)
}

func TestLoadProduct(t *testing.T) {
	api := new(mockCatalog)
	api.On("GetProduct", ctx, 1).Return(&catan, nil).Once()
	api.On("GetProduct", ctx, 9).Return(nil, nil).Once()

	c := NewController(api, nil)
	c.LoadProduct(ctx, 1)
	assert.Equal(t, &catan, c.Selected.Get())

	c.LoadProduct(ctx, 9)
	assert.Nil(t, c.Selected.Get())
	assert.Empty(t, c.Err.Get())
}
