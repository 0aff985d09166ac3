package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/pasarantar/admin-console/internal/catalog"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError 单个字段的校验错误，Path 形如 name / variants.0.unitId
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationResult 校验结果；阻断性错误按固定优先级排在最前
type ValidationResult struct {
	Errors []FieldError `json:"errors"`
}

// Valid 是否无错误
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// First 第一个需要提示的错误
func (r ValidationResult) First() (FieldError, bool) {
	if len(r.Errors) == 0 {
		return FieldError{}, false
	}
	return r.Errors[0], true
}

// FieldErrors 按路径索引，每个字段只保留第一条
func (r ValidationResult) FieldErrors() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, fe := range r.Errors {
		if _, ok := out[fe.Path]; !ok {
			out[fe.Path] = fe.Message
		}
	}
	return out
}

// Err 无错误时返回 nil
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Result: r}
}

func (r *ValidationResult) add(path, message string) {
	r.Errors = append(r.Errors, FieldError{Path: path, Message: message})
}

// ValidationError 提交前校验失败
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	first, _ := e.Result.First()
	return fmt.Sprintf("validation failed: %s: %s", first.Path, first.Message)
}

// Message 第一条错误文案
func (e *ValidationError) Message() string {
	first, _ := e.Result.First()
	return first.Message
}

// ErrValidation 用于 errors.Is 判断
var ErrValidation = errors.New("form validation failed")

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

var fieldLabels = map[string]string{
	"name":           "Nama",
	"slug":           "Slug",
	"categoryId":     "Kategori",
	"description":    "Deskripsi",
	"imageUrl":       "URL gambar",
	"basePrice":      "Harga dasar",
	"rating":         "Rating",
	"reviewCount":    "Jumlah ulasan",
	"unitId":         "Satuan",
	"sku":            "SKU",
	"weight":         "Berat",
	"price":          "Harga diskon",
	"originalPrice":  "Harga normal",
	"barcode":        "Barcode",
	"variantCode":    "Kode varian",
	"stockQuantity":  "Jumlah stok",
	"abbreviation":   "Singkatan",
	"color":          "Warna",
	"email":          "Email",
	"phone":          "Telepon",
	"address":        "Alamat",
	"storeName":      "Nama toko",
	"storeEmail":     "Email toko",
	"storePhone":     "Telepon toko",
	"storeAddress":   "Alamat toko",
	"currency":       "Mata uang",
	"logoUrl":        "URL logo",
	"freeShippingAt": "Batas gratis ongkir",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator 共享的结构体校验器：字段名取 json 标签，金额按数值比较
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{}, catalog.Amount{})
		validate = v
	})
	return validate
}

func decimalValue(field reflect.Value) interface{} {
	switch value := field.Interface().(type) {
	case decimal.Decimal:
		f, _ := value.Float64()
		return f
	case decimal.NullDecimal:
		if !value.Valid {
			return float64(0)
		}
		f, _ := value.Decimal.Float64()
		return f
	case catalog.Amount:
		f, _ := value.Decimal.Float64()
		return f
	}
	return nil
}

// ValidateStruct 按 validate 标签校验，prefix 非空时拼接为路径前缀
func ValidateStruct(value any, prefix string) ValidationResult {
	var result ValidationResult
	appendStructErrors(&result, value, prefix)
	return result
}

func appendStructErrors(result *ValidationResult, value any, prefix string) {
	err := Validator().Struct(value)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result.add(strings.TrimSuffix(prefix, "."), "Data tidak valid")
		return
	}
	for _, fe := range verrs {
		path := structPath(fe.Namespace())
		result.add(prefix+path, tagMessage(fe))
	}
}

// structPath 去掉根结构体名
func structPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func tagMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " wajib diisi"
	case "gte":
		return fmt.Sprintf("%s tidak boleh kurang dari %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s tidak boleh lebih dari %s", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s maksimal %s karakter", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s harus %s karakter", label, fe.Param())
	case "email":
		return "Format email tidak valid"
	case "url":
		return label + " harus berupa URL yang valid"
	case "hexcolor":
		return label + " harus berupa kode warna heksadesimal"
	default:
		return label + " tidak valid"
	}
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// ValidateProduct 校验商品草稿
// 阻断性检查的优先级：名称 → 分类 → 描述 → 规格列表 → 各规格的单位、重量、原价；
// 其余字段约束随后追加，用于逐字段展示
func ValidateProduct(d ProductDraft) ValidationResult {
	var result ValidationResult

	if strings.TrimSpace(d.Name) == "" {
		result.add("name", "Nama produk wajib diisi")
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		result.add("categoryId", "Kategori wajib dipilih")
	}
	if strings.TrimSpace(d.Description) == "" {
		result.add("description", "Deskripsi wajib diisi")
	}
	if len(d.Variants) == 0 {
		result.add("variants", "Minimal harus ada satu varian")
	}
	for i, v := range d.Variants {
		prefix := variantPrefix(i)
		if strings.TrimSpace(v.UnitID) == "" {
			result.add(prefix+"unitId", fmt.Sprintf("Satuan untuk varian %d wajib dipilih", i+1))
		}
		if strings.TrimSpace(v.Weight) == "" {
			result.add(prefix+"weight", fmt.Sprintf("Berat untuk varian %d wajib diisi", i+1))
		}
		if !v.OriginalPrice.Valid {
			result.add(prefix+"originalPrice", fmt.Sprintf("Harga normal untuk varian %d wajib diisi", i+1))
		}
	}

	slug := strings.TrimSpace(d.Slug)
	switch {
	case slug == "":
		result.add("slug", "Slug wajib diisi")
	case !IsSlug(slug):
		result.add("slug", "Slug hanya boleh berisi huruf kecil, angka, dan tanda hubung")
	}
	appendStructErrors(&result, d, "")
	for i, v := range d.Variants {
		appendStructErrors(&result, v, variantPrefix(i))
	}
	return result
}

func variantPrefix(i int) string {
	return fmt.Sprintf("variants.%d.", i)
}
