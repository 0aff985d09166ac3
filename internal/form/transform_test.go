package form

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestEffectivePriceAndSale(t *testing.T) {
	if got := EffectivePrice(dec(0), dec(25000)); !got.Equal(dec(25000)) {
		t.Fatalf("zero price should use original, got %s", got)
	}
	if got := EffectivePrice(dec(20000), dec(25000)); !got.Equal(dec(20000)) {
		t.Fatalf("discount price should be kept, got %s", got)
	}
	if IsOnSale(dec(0), dec(25000)) {
		t.Fatalf("zero price is not a sale")
	}
	if !IsOnSale(dec(20000), dec(25000)) {
		t.Fatalf("price below original is a sale")
	}
	if IsOnSale(dec(25000), dec(25000)) || IsOnSale(dec(30000), dec(25000)) {
		t.Fatalf("price at or above original is not a sale")
	}
}

func TestResolveInStock(t *testing.T) {
	managed := VariantDraft{ManageStock: true, StockQuantity: 0, InStock: true}
	if ResolveInStock(managed) {
		t.Fatalf("managed stock with zero quantity must be out of stock")
	}
	managed.StockQuantity = 3
	managed.InStock = false
	if !ResolveInStock(managed) {
		t.Fatalf("managed stock with quantity must be in stock")
	}
	manual := VariantDraft{ManageStock: false, StockQuantity: 10, InStock: false}
	if ResolveInStock(manual) {
		t.Fatalf("unmanaged stock must keep the manual flag")
	}
}

func TestBuildPayloadStripsClientOnlyFields(t *testing.T) {
	draft := NewProductDraft()
	draft.Name = "  Ayam Kampung Segar "
	draft.TagIDs = []string{"t1", "t2", "t1"}
	draft.Variants[0] = VariantDraft{
		UnitID:        "u1",
		Weight:        "500",
		Price:         dec(20000),
		OriginalPrice: decimal.NewNullDecimal(dec(25000)),
		ManageStock:   true,
		StockQuantity: 0,
		InStock:       true,
		IsActive:      true,
	}

	payload := BuildPayload(draft)
	if payload.Name != "Ayam Kampung Segar" {
		t.Fatalf("expected trimmed name, got %q", payload.Name)
	}
	if len(payload.TagIDs) != 2 {
		t.Fatalf("expected de-duplicated tags, got %v", payload.TagIDs)
	}
	v := payload.Variants[0]
	if !v.Price.Equal(dec(20000)) || !v.OriginalPrice.Equal(dec(25000)) || !v.IsOnSale {
		t.Fatalf("unexpected price fields: %+v", v)
	}
	if v.InStock {
		t.Fatalf("managed stock with zero quantity must submit inStock=false")
	}
}
