package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDraft() Draft {
	return Draft{Name: "Catan", Description: "Colonos", Price: "1", Stock: "0", ImageURL: "https://img", CategoryID: "1"}
}

func TestValidate_Valid(t *testing.T) {
	d, ok := Validate(validDraft(), false)
	assert.True(t, ok)
	assert.False(t, d.HasErrors())
}

func TestValidate_Price(t *testing.T) {
	for _, price := range []string{"0", "-5", "", "abc", "1.5"} {
		d, ok := Validate(validDraft().WithPrice(price), false)
		assert.False(t, ok, price)
		assert.Equal(t, ErrPriceInvalid.Message(), d.PriceError, price)
	}
	for _, price := range []string{"1", "100000"} {
		d, ok := Validate(validDraft().WithPrice(price), false)
		assert.True(t, ok, price)
		assert.Empty(t, d.PriceError)
	}
}

func TestValidate_Stock(t *testing.T) {
	for _, stock := range []string{"-1", "", "x"} {
		d, ok := Validate(validDraft().WithStock(stock), false)
		assert.False(t, ok, stock)
		assert.Equal(t, ErrStockInvalid.Message(), d.StockError, stock)
	}
	d, ok := Validate(validDraft().WithStock("0"), false)
	assert.True(t, ok)
	assert.Empty(t, d.StockError)
}

func TestValidate_Image(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		selected bool
		valid    bool
	}{
		{"blank url no selection", "", false, false},
		{"whitespace url no selection", "  ", false, false},
		{"blank url with selection", "", true, true},
		{"url without selection", "https://img", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Validate(validDraft().WithImageURL(tt.url), tt.selected)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Empty(t, d.ImageError)
			} else {
				assert.Equal(t, ErrImageRequired.Message(), d.ImageError)
			}
		})
	}
}

func TestValidate_BlankText(t *testing.T) {
	d, ok := Validate(validDraft().WithName("   ").WithDescription(""), false)
	assert.False(t, ok)
	assert.Equal(t, ErrNameRequired.Message(), d.NameError)
	assert.Equal(t, ErrDescriptionRequired.Message(), d.DescriptionError)
	assert.Empty(t, d.PriceError)
}

// A blank category blocks submission but has no message to show.
func TestValidate_BlankCategoryHasNoMessage(t *testing.T) {
	d, ok := Validate(validDraft().WithCategoryID(""), false)
	assert.False(t, ok)
	assert.False(t, d.HasErrors())
}

func TestValidate_RecomputesAllErrors(t *testing.T) {
	d := Draft{Price: "0", Stock: "-1"}
	d, ok := Validate(d, false)
	assert.False(t, ok)
	assert.NotEmpty(t, d.NameError)
	assert.NotEmpty(t, d.DescriptionError)
	assert.NotEmpty(t, d.PriceError)
	assert.NotEmpty(t, d.StockError)
	assert.NotEmpty(t, d.ImageError)

	// fixing the fields and validating again clears stale messages
	d.Name, d.Description, d.Price, d.Stock, d.ImageURL, d.CategoryID = "a", "b", "2", "3", "u", "1"
	d, ok = Validate(d, false)
	assert.True(t, ok)
	assert.False(t, d.HasErrors())
}

func TestValidate_Idempotent(t *testing.T) {
	drafts := []Draft{
		validDraft(),
		{},
		validDraft().WithPrice("0").WithCategoryID(""),
		{Name: " ", Stock: "5", ImageURL: "x"},
	}
	for _, d := range drafts {
		for _, selected := range []bool{false, true} {
			once, ok1 := Validate(d, selected)
			twice, ok2 := Validate(once, selected)
			assert.Equal(t, once, twice)
			assert.Equal(t, ok1, ok2)
		}
	}
}
