package form

import (
	"strings"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/notify"
)

// NewCategoryForm 分类表单；slug 为空时由名称生成
func NewCategoryForm(api EntityAPI[catalog.Category], n notify.Notifier, rec Recorder) *EntityForm[catalog.Category] {
	return NewEntityForm(EntityFormConfig[catalog.Category]{
		Entity:   notify.EntityCategory,
		API:      api,
		Notifier: n,
		Recorder: rec,
		Normalize: func(c *catalog.Category) {
			trimmed(&c.Name)
			trimmed(&c.Slug)
			trimmed(&c.Description)
			if c.Slug == "" {
				c.Slug = Slugify(c.Name)
			}
			if c.ImageURL != nil && strings.TrimSpace(*c.ImageURL) == "" {
				c.ImageURL = nil
			}
		},
		Validate: validateSlugField,
		Fields: func(c catalog.Category, errs map[string]string) []FieldView {
			imageURL := ""
			if c.ImageURL != nil {
				imageURL = *c.ImageURL
			}
			return []FieldView{
				TextField("name", "Nama Kategori", c.Name, errs, Required()),
				TextField("slug", "Slug", c.Slug, errs),
				TextareaField("description", "Deskripsi", c.Description, errs),
				TextField("imageUrl", "URL Gambar", imageURL, errs),
			}
		},
	})
}

// NewUnitForm 单位表单
func NewUnitForm(api EntityAPI[catalog.Unit], n notify.Notifier, rec Recorder) *EntityForm[catalog.Unit] {
	return NewEntityForm(EntityFormConfig[catalog.Unit]{
		Entity:   notify.EntityUnit,
		API:      api,
		Notifier: n,
		Recorder: rec,
		Normalize: func(u *catalog.Unit) {
			trimmed(&u.Name)
			trimmed(&u.Abbreviation)
		},
		Fields: func(u catalog.Unit, errs map[string]string) []FieldView {
			return []FieldView{
				TextField("name", "Nama Satuan", u.Name, errs, Required(), Placeholder("Gram")),
				TextField("abbreviation", "Singkatan", u.Abbreviation, errs, Required(), Placeholder("g")),
			}
		},
	})
}

// NewTagForm 标签表单
func NewTagForm(api EntityAPI[catalog.Tag], n notify.Notifier, rec Recorder) *EntityForm[catalog.Tag] {
	return NewEntityForm(EntityFormConfig[catalog.Tag]{
		Entity:   notify.EntityTag,
		API:      api,
		Notifier: n,
		Recorder: rec,
		Normalize: func(t *catalog.Tag) {
			trimmed(&t.Name)
			trimmed(&t.Slug)
			trimmed(&t.Color)
			if t.Slug == "" {
				t.Slug = Slugify(t.Name)
			}
		},
		Validate: func(t catalog.Tag) ValidationResult {
			return validateSlugField(catalog.Category{Slug: t.Slug})
		},
		Fields: func(t catalog.Tag, errs map[string]string) []FieldView {
			return []FieldView{
				TextField("name", "Nama Tag", t.Name, errs, Required()),
				TextField("slug", "Slug", t.Slug, errs),
				ColorField("color", "Warna", t.Color, errs, Placeholder("#22c55e")),
			}
		},
	})
}

// NewCustomerForm 客户表单
func NewCustomerForm(api EntityAPI[catalog.Customer], n notify.Notifier, rec Recorder) *EntityForm[catalog.Customer] {
	return NewEntityForm(EntityFormConfig[catalog.Customer]{
		Entity:   notify.EntityCustomer,
		API:      api,
		Notifier: n,
		Recorder: rec,
		Normalize: func(c *catalog.Customer) {
			trimmed(&c.Name)
			c.Email = strings.ToLower(strings.TrimSpace(c.Email))
			trimmed(&c.Phone)
			trimmed(&c.Address)
		},
		Fields: func(c catalog.Customer, errs map[string]string) []FieldView {
			return []FieldView{
				TextField("name", "Nama", c.Name, errs, Required()),
				TextField("email", "Email", c.Email, errs, Required()),
				TextField("phone", "Telepon", c.Phone, errs),
				TextareaField("address", "Alamat", c.Address, errs),
			}
		},
	})
}

// NewSettingsForm 站点设置表单，始终为编辑模式
func NewSettingsForm(api EntityAPI[catalog.Settings], n notify.Notifier, rec Recorder) *EntityForm[catalog.Settings] {
	f := NewEntityForm(EntityFormConfig[catalog.Settings]{
		Entity:   notify.EntitySettings,
		API:      api,
		Notifier: n,
		Recorder: rec,
		Normalize: func(s *catalog.Settings) {
			trimmed(&s.StoreName)
			s.StoreEmail = strings.ToLower(strings.TrimSpace(s.StoreEmail))
			trimmed(&s.StorePhone)
			trimmed(&s.StoreAddress)
			s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
			if s.LogoURL != nil && strings.TrimSpace(*s.LogoURL) == "" {
				s.LogoURL = nil
			}
		},
		Fields: func(s catalog.Settings, errs map[string]string) []FieldView {
			logoURL := ""
			if s.LogoURL != nil {
				logoURL = *s.LogoURL
			}
			return []FieldView{
				TextField("storeName", "Nama Toko", s.StoreName, errs, Required()),
				TextField("storeEmail", "Email Toko", s.StoreEmail, errs),
				TextField("storePhone", "Telepon Toko", s.StorePhone, errs),
				TextareaField("storeAddress", "Alamat Toko", s.StoreAddress, errs),
				TextField("currency", "Mata Uang", s.Currency, errs, Placeholder("IDR")),
				TextField("logoUrl", "URL Logo", logoURL, errs),
				NumberField("freeShippingAt", "Batas Gratis Ongkir", s.FreeShippingAt.String(), errs),
			}
		},
	})
	f.mode = ModeEdit
	return f
}

func validateSlugField(c catalog.Category) ValidationResult {
	var result ValidationResult
	if c.Slug != "" && !IsSlug(c.Slug) {
		result.add("slug", "Slug hanya boleh berisi huruf kecil, angka, dan tanda hubung")
	}
	return result
}
