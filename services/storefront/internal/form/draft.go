// Package form holds the product draft and its validation rules. Every
// function here is pure: drafts are values and edits return new drafts.
package form

import (
	"fmt"
	"strconv"

	"github.com/keamoral/ouijagames/services/storefront/internal/catalog"
)

// Draft is the in-progress product form. An empty error string means the
// field has no error.
type Draft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       string `json:"stock"`
	ImageURL    string `json:"img"`
	CategoryID  string `json:"categoriaId"`

	NameError        string `json:"-"`
	DescriptionError string `json:"-"`
	PriceError       string `json:"-"`
	StockError       string `json:"-"`
	ImageError       string `json:"-"`
}

// New returns an empty draft whose category defaults to the first of
// categories, or "" when there are none
func New(categories []catalog.Category) Draft {
	if len(categories) == 0 {
		return Draft{}
	}
	return Draft{CategoryID: strconv.Itoa(categories[0].ID)}
}

func (d Draft) WithName(v string) Draft {
	d.Name = v
	d.NameError = ""
	return d
}

func (d Draft) WithDescription(v string) Draft {
	d.Description = v
	d.DescriptionError = ""
	return d
}

func (d Draft) WithPrice(v string) Draft {
	d.Price = v
	d.PriceError = ""
	return d
}

func (d Draft) WithStock(v string) Draft {
	d.Stock = v
	d.StockError = ""
	return d
}

func (d Draft) WithImageURL(v string) Draft {
	d.ImageURL = v
	d.ImageError = ""
	return d
}

// WithCategoryID has no error field to clear; see Validate
func (d Draft) WithCategoryID(v string) Draft {
	d.CategoryID = v
	return d
}

// ClearImageError is applied when a local image gets selected
func (d Draft) ClearImageError() Draft {
	d.ImageError = ""
	return d
}

// HasErrors reports whether any field carries a message
func (d Draft) HasErrors() bool {
	return d.NameError != "" || d.DescriptionError != "" || d.PriceError != "" ||
		d.StockError != "" || d.ImageError != ""
}

// Request builds the create body from a validated draft. imageRef is the
// already resolved image reference.
func (d Draft) Request(imageRef string) (catalog.ProductRequest, error) {
	price, err := strconv.Atoi(d.Price)
	if err != nil {
		return catalog.ProductRequest{}, fmt.Errorf("invalid price %q: %w", d.Price, err)
	}
	stock, err := strconv.Atoi(d.Stock)
	if err != nil {
		return catalog.ProductRequest{}, fmt.Errorf("invalid stock %q: %w", d.Stock, err)
	}
	categoryID, err := strconv.Atoi(d.CategoryID)
	if err != nil {
		return catalog.ProductRequest{}, fmt.Errorf("invalid category %q: %w", d.CategoryID, err)
	}

	return catalog.ProductRequest{
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Stock:       stock,
		Img:         imageRef,
		CategoryID:  categoryID,
	}, nil
}
