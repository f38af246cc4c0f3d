package form

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrNameRequired        = validation.NewError("validation_name_required", "name is required")
	ErrDescriptionRequired = validation.NewError("validation_description_required", "description is required")
	ErrPriceInvalid        = validation.NewError("validation_price_invalid", "enter a valid price greater than 0")
	ErrStockInvalid        = validation.NewError("validation_stock_invalid", "enter a valid stock of 0 or more")
	ErrImageRequired       = validation.NewError("validation_image_required", "add an image or an image URL")

	// The category rule blocks submission without showing a message.
	errCategoryRequired = validation.NewError("validation_category_required", "")
)

// Validate recomputes every field error of d and reports whether the draft
// can be submitted. A blank category makes the draft invalid but attaches
// no message.
func Validate(d Draft, hasSelectedImage bool) (Draft, bool) {
	d.NameError, d.DescriptionError, d.PriceError, d.StockError, d.ImageError = "", "", "", "", ""

	err := validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.By(notBlank(ErrNameRequired))),
		validation.Field(&d.Description, validation.By(notBlank(ErrDescriptionRequired))),
		validation.Field(&d.Price, validation.By(intAtLeast(1, ErrPriceInvalid))),
		validation.Field(&d.Stock, validation.By(intAtLeast(0, ErrStockInvalid))),
		validation.Field(&d.ImageURL, validation.By(imagePresent(hasSelectedImage))),
		validation.Field(&d.CategoryID, validation.By(notBlank(errCategoryRequired))),
	)
	if err == nil {
		return d, true
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		// internal rule error; treat as not submittable
		return d, false
	}

	d.NameError = message(errs, "name")
	d.DescriptionError = message(errs, "description")
	d.PriceError = message(errs, "price")
	d.StockError = message(errs, "stock")
	d.ImageError = message(errs, "img")
	return d, false
}

func message(errs validation.Errors, key string) string {
	if err, ok := errs[key]; ok && err != nil {
		return err.Error()
	}
	return ""
}

func notBlank(fail validation.Error) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return fail
		}
		return nil
	}
}

// intAtLeast accepts only text that parses as a whole number >= min
func intAtLeast(min int, fail validation.Error) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		n, err := strconv.Atoi(s)
		if err != nil || n < min {
			return fail
		}
		return nil
	}
}

// a selected local image satisfies the image requirement on its own
func imagePresent(hasSelectedImage bool) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" && !hasSelectedImage {
			return ErrImageRequired
		}
		return nil
	}
}
