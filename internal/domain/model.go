package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	Id          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProduct is the payload for product creation. All fields are required:
// string fields must be non-empty, quantity and price strictly positive.
type NewProduct struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

func (p NewProduct) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	case p.Description == "":
		return fmt.Errorf("%w: product description is required", ErrInvalidInput)
	case p.Category == "":
		return fmt.Errorf("%w: product category is required", ErrInvalidInput)
	case p.Quantity <= 0:
		return fmt.Errorf("%w: product quantity must be greater than zero", ErrInvalidInput)
	case !p.Price.IsPositive():
		return fmt.Errorf("%w: product price must be greater than zero", ErrInvalidInput)
	}
	return nil
}

// ProductPatch is a partial update: nil fields are left untouched by the
// store. An all-nil patch is invalid, not a no-op.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Quantity == nil &&
		p.Price == nil && p.Category == nil
}

func (p ProductPatch) Validate() error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: at least one field must be provided", ErrInvalidInput)
	}
	switch {
	case p.Name != nil && *p.Name == "":
		return fmt.Errorf("%w: product name must not be empty", ErrInvalidInput)
	case p.Description != nil && *p.Description == "":
		return fmt.Errorf("%w: product description must not be empty", ErrInvalidInput)
	case p.Category != nil && *p.Category == "":
		return fmt.Errorf("%w: product category must not be empty", ErrInvalidInput)
	case p.Quantity != nil && *p.Quantity <= 0:
		return fmt.Errorf("%w: product quantity must be greater than zero", ErrInvalidInput)
	case p.Price != nil && !p.Price.IsPositive():
		return fmt.Errorf("%w: product price must be greater than zero", ErrInvalidInput)
	}
	return nil
}
