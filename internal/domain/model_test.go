package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validNewProduct() NewProduct {
	return NewProduct{
		Name:        "Pen",
		Description: "Blue ink",
		Quantity:    100,
		Price:       decimal.NewFromFloat(1.50),
		Category:    "Office",
	}
}

func TestNewProductValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*NewProduct)
		wantErr bool
	}{
		{name: "valid product", mutate: func(p *NewProduct) {}},
		{name: "empty name", mutate: func(p *NewProduct) { p.Name = "" }, wantErr: true},
		{name: "empty description", mutate: func(p *NewProduct) { p.Description = "" }, wantErr: true},
		{name: "empty category", mutate: func(p *NewProduct) { p.Category = "" }, wantErr: true},
		{name: "zero quantity", mutate: func(p *NewProduct) { p.Quantity = 0 }, wantErr: true},
		{name: "negative quantity", mutate: func(p *NewProduct) { p.Quantity = -5 }, wantErr: true},
		{name: "zero price", mutate: func(p *NewProduct) { p.Price = decimal.Zero }, wantErr: true},
		{name: "negative price", mutate: func(p *NewProduct) { p.Price = decimal.NewFromInt(-1) }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			product := validNewProduct()
			tc.mutate(&product)
			err := product.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProductPatchValidate(t *testing.T) {
	name := "Gel pen"
	empty := ""
	quantity := 25
	negative := -5
	price := decimal.NewFromFloat(2.25)

	testCases := []struct {
		name    string
		patch   ProductPatch
		wantErr bool
	}{
		{name: "single field", patch: ProductPatch{Name: &name}},
		{name: "several fields", patch: ProductPatch{Name: &name, Quantity: &quantity, Price: &price}},
		{name: "empty patch", patch: ProductPatch{}, wantErr: true},
		{name: "empty name", patch: ProductPatch{Name: &empty}, wantErr: true},
		{name: "negative quantity", patch: ProductPatch{Quantity: &negative}, wantErr: true},
		{name: "zero price", patch: ProductPatch{Price: &decimal.Zero}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.patch.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProductPatchIsEmpty(t *testing.T) {
	name := "Gel pen"
	assert.True(t, ProductPatch{}.IsEmpty())
	assert.False(t, ProductPatch{Name: &name}.IsEmpty())
}
