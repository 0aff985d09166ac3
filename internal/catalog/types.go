package catalog

// Envelope 后端统一响应 {success, data, message}
type Envelope[T any] struct {
	Success bool      `json:"success"`
	Data    *T        `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   ErrorText `json:"error,omitempty"`
	Status  int       `json:"-"`
}

// Err 逻辑失败时返回 *APIError
func (e *Envelope[T]) Err() error {
	if e == nil {
		return &APIError{}
	}
	if e.Success {
		return nil
	}
	return &APIError{Status: e.Status, Message: e.Message, Detail: string(e.Error)}
}

// Value 返回数据；逻辑失败或缺少数据时返回错误
func (e *Envelope[T]) Value() (*T, error) {
	if err := e.Err(); err != nil {
		return nil, err
	}
	if e.Data == nil {
		return nil, &APIError{Status: e.Status, Message: e.Message, Cause: ErrNoData}
	}
	return e.Data, nil
}

// Product 商品
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	CategoryID  string    `json:"categoryId"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	BasePrice   Amount    `json:"basePrice"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
	TagIDs      []string  `json:"tagIds"`
	Variants    []Variant `json:"variants"`
	Category    *Category `json:"category,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
}

// Variant 商品规格
type Variant struct {
	ID            string  `json:"id"`
	UnitID        string  `json:"unitId"`
	SKU           string  `json:"sku"`
	Weight        string  `json:"weight"`
	Price         Amount  `json:"price"`
	OriginalPrice *Amount `json:"originalPrice"`
	IsOnSale      bool    `json:"isOnSale"`
	InStock       bool    `json:"inStock"`
	Barcode       string  `json:"barcode"`
	VariantCode   string  `json:"variantCode"`
	IsActive      bool    `json:"isActive"`
	Unit          *Unit   `json:"unit,omitempty"`
}

// ProductPayload 创建/更新商品请求体
type ProductPayload struct {
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	CategoryID  string           `json:"categoryId"`
	Description string           `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
	BasePrice   Amount           `json:"basePrice"`
	Rating      float64          `json:"rating"`
	ReviewCount int              `json:"reviewCount"`
	TagIDs      []string         `json:"tagIds"`
	Variants    []VariantPayload `json:"variants"`
}

// VariantPayload 规格请求体，不含库存数量与库存管理开关
type VariantPayload struct {
	ID            string `json:"id,omitempty"`
	UnitID        string `json:"unitId"`
	SKU           string `json:"sku,omitempty"`
	Weight        string `json:"weight"`
	Price         Amount `json:"price"`
	OriginalPrice Amount `json:"originalPrice"`
	IsOnSale      bool   `json:"isOnSale"`
	InStock       bool   `json:"inStock"`
	Barcode       string `json:"barcode,omitempty"`
	VariantCode   string `json:"variantCode,omitempty"`
	IsActive      bool   `json:"isActive"`
}

// Category 分类
type Category struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"omitempty,max=120"`
	Description string  `json:"description" validate:"max=1000"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
}

// Unit 计量单位
type Unit struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name" validate:"required,max=50"`
	Abbreviation string `json:"abbreviation" validate:"required,max=10"`
}

// Tag 标签
type Tag struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name" validate:"required,max=50"`
	Slug  string `json:"slug" validate:"omitempty,max=60"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// Customer 客户
type Customer struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"max=500"`
}

// Settings 站点设置
type Settings struct {
	ID             string  `json:"id,omitempty"`
	StoreName      string  `json:"storeName" validate:"required,max=100"`
	StoreEmail     string  `json:"storeEmail" validate:"omitempty,email"`
	StorePhone     string  `json:"storePhone" validate:"omitempty,max=20"`
	StoreAddress   string  `json:"storeAddress" validate:"max=500"`
	Currency       string  `json:"currency" validate:"omitempty,len=3"`
	LogoURL        *string `json:"logoUrl" validate:"omitempty,url"`
	FreeShippingAt Amount  `json:"freeShippingAt"`
}

// UploadResult 图片上传结果
type UploadResult struct {
	URL string `json:"url"`
}

// ListQuery 列表查询参数
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Category string
}

// EntityID 实体 ID
func (c Category) EntityID() string { return c.ID }

func (u Unit) EntityID() string { return u.ID }

func (t Tag) EntityID() string { return t.ID }

func (c Customer) EntityID() string { return c.ID }

func (s Settings) EntityID() string { return s.ID }

func (p Product) EntityID() string { return p.ID }
