package model

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products in the storefront. JSON names follow the
// storefront wire contract (nombre/descripcion).
type Category struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"nombre" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"descripcion" gorm:"type:text"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Product represents the product master data
type Product struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_products_name_live,where:deleted_at IS NULL"`
	Description string         `json:"description" gorm:"type:text"`
	Price       int            `json:"price" gorm:"not null"`
	Stock       int            `json:"stock" gorm:"default:0"`
	Img         string         `json:"img" gorm:"type:text"`
	CategoryID  uint           `json:"-" gorm:"index;not null"`
	Category    Category       `json:"categoria" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
