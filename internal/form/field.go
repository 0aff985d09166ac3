package form

import (
	"github.com/pasarantar/admin-console/internal/catalog"
)

// FieldKind 输入控件类型
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
	FieldCheckbox FieldKind = "checkbox"
	FieldSelect   FieldKind = "select"
	FieldColor    FieldKind = "color"
	FieldNumber   FieldKind = "number"
)

// SelectOption 下拉选项
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldView 带标签的输入控件描述，错误统一放在 Error
type FieldView struct {
	Path        string         `json:"path"`
	Label       string         `json:"label"`
	Kind        FieldKind      `json:"kind"`
	Value       any            `json:"value"`
	Required    bool           `json:"required,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Options     []SelectOption `json:"options,omitempty"`
	Multiple    bool           `json:"multiple,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// FieldOption 控件配置项
type FieldOption func(*FieldView)

// Required 标记必填
func Required() FieldOption {
	return func(f *FieldView) { f.Required = true }
}

// Placeholder 占位提示
func Placeholder(text string) FieldOption {
	return func(f *FieldView) { f.Placeholder = text }
}

// Multiple 多选
func Multiple() FieldOption {
	return func(f *FieldView) { f.Multiple = true }
}

func newField(kind FieldKind, path, label string, value any, errs map[string]string, opts []FieldOption) FieldView {
	f := FieldView{Path: path, Label: label, Kind: kind, Value: value, Error: errs[path]}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// TextField 单行文本
func TextField(path, label string, value string, errs map[string]string, opts ...FieldOption) FieldView {
	return newField(FieldText, path, label, value, errs, opts)
}

// TextareaField 多行文本
func TextareaField(path, label string, value string, errs map[string]string, opts ...FieldOption) FieldView {
	return newField(FieldTextarea, path, label, value, errs, opts)
}

// CheckboxField 复选框
func CheckboxField(path, label string, value bool, errs map[string]string, opts ...FieldOption) FieldView {
	return newField(FieldCheckbox, path, label, value, errs, opts)
}

// NumberField 数字
func NumberField(path, label string, value any, errs map[string]string, opts ...FieldOption) FieldView {
	return newField(FieldNumber, path, label, value, errs, opts)
}

// ColorField 颜色选择
func ColorField(path, label string, value string, errs map[string]string, opts ...FieldOption) FieldView {
	return newField(FieldColor, path, label, value, errs, opts)
}

// SelectField 下拉选择
func SelectField(path, label string, value any, options []SelectOption, errs map[string]string, opts ...FieldOption) FieldView {
	f := newField(FieldSelect, path, label, value, errs, opts)
	f.Options = options
	return f
}

// References 表单下拉所需的参考数据
type References struct {
	Categories []catalog.Category `json:"categories"`
	Units      []catalog.Unit     `json:"units"`
	Tags       []catalog.Tag      `json:"tags"`
}

// CategoryOptions 分类选项
func (r References) CategoryOptions() []SelectOption {
	out := make([]SelectOption, 0, len(r.Categories))
	for _, c := range r.Categories {
		out = append(out, SelectOption{Value: c.ID, Label: c.Name})
	}
	return out
}

// UnitOptions 单位选项
func (r References) UnitOptions() []SelectOption {
	out := make([]SelectOption, 0, len(r.Units))
	for _, u := range r.Units {
		label := u.Name
		if u.Abbreviation != "" {
			label = u.Name + " (" + u.Abbreviation + ")"
		}
		out = append(out, SelectOption{Value: u.ID, Label: label})
	}
	return out
}

// TagOptions 标签选项
func (r References) TagOptions() []SelectOption {
	out := make([]SelectOption, 0, len(r.Tags))
	for _, t := range r.Tags {
		out = append(out, SelectOption{Value: t.ID, Label: t.Name})
	}
	return out
}

// FirstUnitID 新增规格时默认使用的单位
func (r References) FirstUnitID() string {
	if len(r.Units) == 0 {
		return ""
	}
	return r.Units[0].ID
}

// ProductFields 商品级控件
func ProductFields(d ProductDraft, refs References, errs map[string]string) []FieldView {
	imageURL := ""
	if d.ImageURL != nil {
		imageURL = *d.ImageURL
	}
	return []FieldView{
		TextField("name", "Nama Produk", d.Name, errs, Required(), Placeholder("Contoh: Ayam Kampung Segar")),
		TextField("slug", "Slug", d.Slug, errs, Required()),
		SelectField("categoryId", "Kategori", d.CategoryID, refs.CategoryOptions(), errs, Required()),
		TextareaField("description", "Deskripsi", d.Description, errs, Required()),
		TextField("imageUrl", "URL Gambar", imageURL, errs),
		NumberField("basePrice", "Harga Dasar", d.BasePrice.String(), errs),
		NumberField("rating", "Rating", d.Rating, errs),
		NumberField("reviewCount", "Jumlah Ulasan", d.ReviewCount, errs),
		SelectField("tagIds", "Tag", d.TagIDs, refs.TagOptions(), errs, Multiple()),
	}
}

// VariantFields 单个规格的控件；启用库存管理时显示数量，否则显示手动库存开关
func VariantFields(index int, v VariantDraft, refs References, errs map[string]string) []FieldView {
	p := func(key Key) string { return VariantField(index, key).String() }
	originalPrice := ""
	if v.OriginalPrice.Valid {
		originalPrice = v.OriginalPrice.Decimal.String()
	}
	fields := []FieldView{
		SelectField(p(KeyUnitID), "Satuan", v.UnitID, refs.UnitOptions(), errs, Required()),
		TextField(p(KeyWeight), "Berat", v.Weight, errs, Required(), Placeholder("500")),
		NumberField(p(KeyOriginalPrice), "Harga Normal", originalPrice, errs, Required()),
		NumberField(p(KeyPrice), "Harga Diskon", v.Price.String(), errs, Placeholder("0 = tanpa diskon")),
		TextField(p(KeySKU), "SKU", v.SKU, errs),
		TextField(p(KeyBarcode), "Barcode", v.Barcode, errs),
		TextField(p(KeyVariantCode), "Kode Varian", v.VariantCode, errs),
		CheckboxField(p(KeyIsActive), "Aktif", v.IsActive, errs),
		CheckboxField(p(KeyManageStock), "Kelola Stok", v.ManageStock, errs),
	}
	if v.ManageStock {
		fields = append(fields, NumberField(p(KeyStockQuantity), "Jumlah Stok", v.StockQuantity, errs))
	} else {
		fields = append(fields, CheckboxField(p(KeyInStock), "Tersedia", v.InStock, errs))
	}
	return fields
}
