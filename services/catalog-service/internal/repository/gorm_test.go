package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		dup  bool
	}{
		{"translated by gorm", gorm.ErrDuplicatedKey, true},
		{"raw unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"other", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate("create product", tt.err)
			if tt.dup {
				assert.ErrorIs(t, err, ErrDuplicate)
				return
			}
			assert.NotErrorIs(t, err, ErrDuplicate)
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), "create product: ")
		})
	}
}

func TestUniqueNameIndexes(t *testing.T) {
	cache := &sync.Map{}

	product, err := schema.Parse(&model.Product{}, cache, schema.NamingStrategy{})
	require.NoError(t, err)
	idx := findIndex(product.ParseIndexes(), "idx_products_name_live")
	require.NotNil(t, idx)
	assert.Equal(t, "UNIQUE", idx.Class)
	assert.Equal(t, "deleted_at IS NULL", idx.Where)
	require.Len(t, idx.Fields, 1)
	assert.Equal(t, "name", idx.Fields[0].DBName)

	category, err := schema.Parse(&model.Category{}, cache, schema.NamingStrategy{})
	require.NoError(t, err)
	idx = findIndex(category.ParseIndexes(), "idx_categories_name")
	require.NotNil(t, idx)
	assert.Equal(t, "UNIQUE", idx.Class)
}

func findIndex(indexes []*schema.Index, name string) *schema.Index {
	for _, idx := range indexes {
		if idx.Name == name {
			return idx
		}
	}
	return nil
}
