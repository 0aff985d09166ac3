package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Key 可编辑字段名
type Key string

// 商品字段
const (
	KeyName        Key = "name"
	KeySlug        Key = "slug"
	KeyCategoryID  Key = "categoryId"
	KeyDescription Key = "description"
	KeyImageURL    Key = "imageUrl"
	KeyBasePrice   Key = "basePrice"
	KeyRating      Key = "rating"
	KeyReviewCount Key = "reviewCount"
	KeyTagIDs      Key = "tagIds"
)

// 规格字段
const (
	KeyUnitID        Key = "unitId"
	KeySKU           Key = "sku"
	KeyWeight        Key = "weight"
	KeyPrice         Key = "price"
	KeyOriginalPrice Key = "originalPrice"
	KeyInStock       Key = "inStock"
	KeyBarcode       Key = "barcode"
	KeyVariantCode   Key = "variantCode"
	KeyIsActive      Key = "isActive"
	KeyStockQuantity Key = "stockQuantity"
	KeyManageStock   Key = "manageStock"
)

var productKeys = map[Key]struct{}{
	KeyName: {}, KeySlug: {}, KeyCategoryID: {}, KeyDescription: {}, KeyImageURL: {},
	KeyBasePrice: {}, KeyRating: {}, KeyReviewCount: {}, KeyTagIDs: {},
}

var variantKeys = map[Key]struct{}{
	KeyUnitID: {}, KeySKU: {}, KeyWeight: {}, KeyPrice: {}, KeyOriginalPrice: {}, KeyInStock: {},
	KeyBarcode: {}, KeyVariantCode: {}, KeyIsActive: {}, KeyStockQuantity: {}, KeyManageStock: {},
}

var ErrUnknownField = errors.New("unknown form field")

// Path 字段路径；Variant < 0 表示商品级字段
type Path struct {
	Variant int
	Key     Key
}

// Field 商品级字段路径
func Field(key Key) Path {
	return Path{Variant: -1, Key: key}
}

// VariantField 规格字段路径
func VariantField(index int, key Key) Path {
	return Path{Variant: index, Key: key}
}

// IsVariant 是否为规格字段
func (p Path) IsVariant() bool {
	return p.Variant >= 0
}

func (p Path) String() string {
	if p.IsVariant() {
		return fmt.Sprintf("variants.%d.%s", p.Variant, p.Key)
	}
	return string(p.Key)
}

// ParsePath 解析 name 或 variants.0.price 形式的路径
func ParsePath(raw string) (Path, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ".")
	switch len(parts) {
	case 1:
		key := Key(parts[0])
		if _, ok := productKeys[key]; !ok {
			return Path{}, fmt.Errorf("%w: %s", ErrUnknownField, raw)
		}
		return Field(key), nil
	case 3:
		if parts[0] != "variants" {
			return Path{}, fmt.Errorf("%w: %s", ErrUnknownField, raw)
		}
		index, err := strconv.Atoi(parts[1])
		if err != nil || index < 0 {
			return Path{}, fmt.Errorf("%w: %s", ErrVariantIndex, raw)
		}
		key := Key(parts[2])
		if _, ok := variantKeys[key]; !ok {
			return Path{}, fmt.Errorf("%w: %s", ErrUnknownField, raw)
		}
		return VariantField(index, key), nil
	default:
		return Path{}, fmt.Errorf("%w: %s", ErrUnknownField, raw)
	}
}
