package form

import (
	"github.com/pasarantar/admin-console/internal/catalog"

	"github.com/shopspring/decimal"
)

// VariantDraft 编辑中的规格
// StockQuantity 与 ManageStock 只在控制台使用，不会提交给后端
type VariantDraft struct {
	ID            string              `json:"id,omitempty"`
	UnitID        string              `json:"unitId"`
	SKU           string              `json:"sku" validate:"max=64"`
	Weight        string              `json:"weight" validate:"max=32"`
	Price         decimal.Decimal     `json:"price" validate:"gte=0"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice" validate:"gte=0"`
	InStock       bool                `json:"inStock"`
	Barcode       string              `json:"barcode" validate:"max=64"`
	VariantCode   string              `json:"variantCode" validate:"max=64"`
	IsActive      bool                `json:"isActive"`
	StockQuantity int                 `json:"stockQuantity" validate:"gte=0"`
	ManageStock   bool                `json:"manageStock"`
}

// ProductDraft 编辑中的商品
type ProductDraft struct {
	Name        string          `json:"name" validate:"max=200"`
	Slug        string          `json:"slug" validate:"max=220"`
	CategoryID  string          `json:"categoryId"`
	Description string          `json:"description" validate:"max=5000"`
	ImageURL    *string         `json:"imageUrl" validate:"omitempty,url"`
	BasePrice   decimal.Decimal `json:"basePrice" validate:"gte=0"`
	Rating      float64         `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int             `json:"reviewCount" validate:"gte=0"`
	TagIDs      []string        `json:"tagIds"`
	Variants    []VariantDraft  `json:"variants" validate:"-"`
}

// NewVariantDraft 规格默认值
func NewVariantDraft(unitID string) VariantDraft {
	return VariantDraft{
		UnitID:   unitID,
		Price:    decimal.Zero,
		InStock:  true,
		IsActive: true,
	}
}

// NewProductDraft 新建商品的默认草稿，恰好包含一个空规格
func NewProductDraft() ProductDraft {
	return ProductDraft{
		BasePrice: decimal.Zero,
		TagIDs:    []string{},
		Variants:  []VariantDraft{NewVariantDraft("")},
	}
}

// DraftFromProduct 由后端商品生成编辑草稿
func DraftFromProduct(p *catalog.Product) ProductDraft {
	if p == nil {
		return NewProductDraft()
	}
	draft := ProductDraft{
		Name:        p.Name,
		Slug:        p.Slug,
		CategoryID:  p.CategoryID,
		Description: p.Description,
		BasePrice:   p.BasePrice.Decimal,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		TagIDs:      uniqueStrings(p.TagIDs),
	}
	if draft.CategoryID == "" && p.Category != nil {
		draft.CategoryID = p.Category.ID
	}
	if len(draft.TagIDs) == 0 && len(p.Tags) > 0 {
		ids := make([]string, 0, len(p.Tags))
		for _, tag := range p.Tags {
			ids = append(ids, tag.ID)
		}
		draft.TagIDs = uniqueStrings(ids)
	}
	if p.ImageURL != nil {
		url := *p.ImageURL
		draft.ImageURL = &url
	}
	for _, v := range p.Variants {
		variant := VariantDraft{
			ID:          v.ID,
			UnitID:      v.UnitID,
			SKU:         v.SKU,
			Weight:      v.Weight,
			Price:       v.Price.Decimal,
			InStock:     v.InStock,
			Barcode:     v.Barcode,
			VariantCode: v.VariantCode,
			IsActive:    v.IsActive,
		}
		if variant.UnitID == "" && v.Unit != nil {
			variant.UnitID = v.Unit.ID
		}
		if v.OriginalPrice != nil {
			variant.OriginalPrice = decimal.NewNullDecimal(v.OriginalPrice.Decimal)
		}
		// 后端只保存显示价与是否促销：非促销时显示价即原价，回填为“无折扣”
		if variant.OriginalPrice.Valid && !IsOnSale(variant.Price, variant.OriginalPrice.Decimal) {
			variant.Price = decimal.Zero
		}
		draft.Variants = append(draft.Variants, variant)
	}
	if len(draft.Variants) == 0 {
		draft.Variants = []VariantDraft{NewVariantDraft("")}
	}
	return draft
}

func (d ProductDraft) clone() ProductDraft {
	out := d
	if d.ImageURL != nil {
		url := *d.ImageURL
		out.ImageURL = &url
	}
	out.TagIDs = append([]string(nil), d.TagIDs...)
	if out.TagIDs == nil {
		out.TagIDs = []string{}
	}
	out.Variants = append([]VariantDraft(nil), d.Variants...)
	return out
}

func uniqueStrings(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
