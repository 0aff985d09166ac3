package form

import (
	"strings"

	"github.com/pasarantar/admin-console/internal/catalog"

	"github.com/shopspring/decimal"
)

// EffectivePrice 提交给后端的售价：price 为 0 表示无折扣，使用原价
func EffectivePrice(price, original decimal.Decimal) decimal.Decimal {
	if price.IsZero() {
		return original
	}
	return price
}

// IsOnSale price > 0 且原价高于 price 时视为促销
func IsOnSale(price, original decimal.Decimal) bool {
	return price.IsPositive() && original.GreaterThan(price)
}

// ResolveInStock 启用库存管理时由数量推导，否则沿用手动设置的值
func ResolveInStock(v VariantDraft) bool {
	if v.ManageStock {
		return v.StockQuantity > 0
	}
	return v.InStock
}

// BuildVariantPayload 规格草稿转请求体，丢弃库存数量与库存管理开关
func BuildVariantPayload(v VariantDraft) catalog.VariantPayload {
	original := decimal.Zero
	if v.OriginalPrice.Valid {
		original = v.OriginalPrice.Decimal
	}
	return catalog.VariantPayload{
		ID:            v.ID,
		UnitID:        strings.TrimSpace(v.UnitID),
		SKU:           strings.TrimSpace(v.SKU),
		Weight:        strings.TrimSpace(v.Weight),
		Price:         catalog.NewAmount(EffectivePrice(v.Price, original)),
		OriginalPrice: catalog.NewAmount(original),
		IsOnSale:      IsOnSale(v.Price, original),
		InStock:       ResolveInStock(v),
		Barcode:       strings.TrimSpace(v.Barcode),
		VariantCode:   strings.TrimSpace(v.VariantCode),
		IsActive:      v.IsActive,
	}
}

// BuildPayload 商品草稿转请求体
func BuildPayload(d ProductDraft) catalog.ProductPayload {
	payload := catalog.ProductPayload{
		Name:        strings.TrimSpace(d.Name),
		Slug:        strings.TrimSpace(d.Slug),
		CategoryID:  strings.TrimSpace(d.CategoryID),
		Description: strings.TrimSpace(d.Description),
		BasePrice:   catalog.NewAmount(d.BasePrice),
		Rating:      d.Rating,
		ReviewCount: d.ReviewCount,
		TagIDs:      uniqueStrings(d.TagIDs),
		Variants:    make([]catalog.VariantPayload, 0, len(d.Variants)),
	}
	if d.ImageURL != nil {
		if url := strings.TrimSpace(*d.ImageURL); url != "" {
			payload.ImageURL = &url
		}
	}
	for _, v := range d.Variants {
		payload.Variants = append(payload.Variants, BuildVariantPayload(v))
	}
	return payload
}
