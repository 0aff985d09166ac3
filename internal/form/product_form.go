package form

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/notify"

	"github.com/google/uuid"
)

// ProductAPI 商品表单依赖的后端接口
type ProductAPI interface {
	CreateProduct(ctx context.Context, payload catalog.ProductPayload) (*catalog.Envelope[catalog.Product], error)
	UpdateProduct(ctx context.Context, id string, payload catalog.ProductPayload) (*catalog.Envelope[catalog.Product], error)
}

// ProductForm 商品新建/编辑表单状态机
// 提交期间拒绝所有修改，网络调用在锁外进行；关闭后迟到的响应被丢弃
type ProductForm struct {
	mu sync.Mutex

	id       string
	api      ProductAPI
	notifier notify.Notifier
	refs     References
	recorder Recorder

	mode       Mode
	productID  string
	loadedSlug string
	draft      ProductDraft
	state      State
	last       Outcome
	validation ValidationResult
	closed     bool
}

// ProductFormOption 商品表单配置项
type ProductFormOption func(*ProductForm)

// WithReferences 下拉参考数据，新增规格时默认使用第一个单位
func WithReferences(refs References) ProductFormOption {
	return func(f *ProductForm) { f.refs = refs }
}

// WithRecorder 提交结果记录器
func WithRecorder(r Recorder) ProductFormOption {
	return func(f *ProductForm) { f.recorder = r }
}

// NewProductForm 创建处于新建模式的商品表单
func NewProductForm(api ProductAPI, notifier notify.Notifier, opts ...ProductFormOption) *ProductForm {
	f := &ProductForm{
		id:       uuid.NewString(),
		api:      api,
		notifier: notifier,
		mode:     ModeCreate,
		draft:    NewProductDraft(),
		state:    StateIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// ID 表单 ID
func (f *ProductForm) ID() string {
	return f.id
}

// Initialize p 为空时重置为新建草稿，否则载入已有商品进入编辑模式
func (f *ProductForm) Initialize(p *catalog.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writableLocked(); err != nil {
		return err
	}
	if p == nil {
		f.mode = ModeCreate
		f.productID = ""
		f.loadedSlug = ""
		f.draft = NewProductDraft()
	} else {
		f.mode = ModeEdit
		f.productID = p.ID
		f.loadedSlug = strings.TrimSpace(p.Slug)
		f.draft = DraftFromProduct(p)
	}
	f.validation = ValidationResult{}
	f.last = ""
	return nil
}

// SetReferences 更新参考数据，下拉选项随之刷新
func (f *ProductForm) SetReferences(refs References) {
	f.mu.Lock()
	f.refs = refs
	f.mu.Unlock()
}

// SetField 修改单个字段并重新计算派生字段
func (f *ProductForm) SetField(path Path, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writableLocked(); err != nil {
		return err
	}
	if path.IsVariant() {
		if path.Variant >= len(f.draft.Variants) {
			return fmt.Errorf("%w: %d", ErrVariantIndex, path.Variant)
		}
		return f.setVariantFieldLocked(path.Variant, path.Key, value)
	}
	return f.setProductFieldLocked(path.Key, value)
}

// SetFieldPath 以字符串路径修改字段
func (f *ProductForm) SetFieldPath(raw string, value any) error {
	path, err := ParsePath(raw)
	if err != nil {
		return err
	}
	return f.SetField(path, value)
}

func (f *ProductForm) setProductFieldLocked(key Key, value any) error {
	d := &f.draft
	switch key {
	case KeyName:
		s, err := toText(value)
		if err != nil {
			return err
		}
		d.Name = s
		if f.autoSlugLocked() {
			d.Slug = Slugify(s)
		}
	case KeySlug:
		s, err := toText(value)
		if err != nil {
			return err
		}
		d.Slug = s
	case KeyCategoryID:
		s, err := toText(value)
		if err != nil {
			return err
		}
		d.CategoryID = s
	case KeyDescription:
		s, err := toText(value)
		if err != nil {
			return err
		}
		d.Description = s
	case KeyImageURL:
		s, err := toText(value)
		if err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			d.ImageURL = nil
		} else {
			d.ImageURL = &s
		}
	case KeyBasePrice:
		v, err := toDecimal(value)
		if err != nil {
			return err
		}
		d.BasePrice = v
	case KeyRating:
		v, err := toFloat(value)
		if err != nil {
			return err
		}
		d.Rating = v
	case KeyReviewCount:
		v, err := toInt(value)
		if err != nil {
			return err
		}
		d.ReviewCount = v
	case KeyTagIDs:
		v, err := toStringSlice(value)
		if err != nil {
			return err
		}
		d.TagIDs = v
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return nil
}

func (f *ProductForm) setVariantFieldLocked(index int, key Key, value any) error {
	v := &f.draft.Variants[index]
	switch key {
	case KeyUnitID, KeySKU, KeyWeight, KeyBarcode, KeyVariantCode:
		s, err := toText(value)
		if err != nil {
			return err
		}
		switch key {
		case KeyUnitID:
			v.UnitID = s
		case KeySKU:
			v.SKU = s
		case KeyWeight:
			v.Weight = s
		case KeyBarcode:
			v.Barcode = s
		case KeyVariantCode:
			v.VariantCode = s
		}
	case KeyPrice:
		d, err := toDecimal(value)
		if err != nil {
			return err
		}
		v.Price = d
	case KeyOriginalPrice:
		d, present, err := toNullDecimal(value)
		if err != nil {
			return err
		}
		v.OriginalPrice.Decimal = d
		v.OriginalPrice.Valid = present
	case KeyInStock:
		b, err := toBool(value)
		if err != nil {
			return err
		}
		v.InStock = b
	case KeyIsActive:
		b, err := toBool(value)
		if err != nil {
			return err
		}
		v.IsActive = b
	case KeyStockQuantity:
		n, err := toInt(value)
		if err != nil {
			return err
		}
		v.StockQuantity = n
		if v.ManageStock {
			v.InStock = n > 0
		}
	case KeyManageStock:
		b, err := toBool(value)
		if err != nil {
			return err
		}
		if b != v.ManageStock {
			f.toggleStockLocked(index)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return nil
}

// autoSlugLocked 新建模式或载入的商品没有 slug 时，名称变化会覆盖 slug
func (f *ProductForm) autoSlugLocked() bool {
	return f.mode == ModeCreate || f.loadedSlug == ""
}

// AddVariant 追加规格，单位默认取第一个可用单位，返回新规格下标
func (f *ProductForm) AddVariant() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writableLocked(); err != nil {
		return -1, err
	}
	f.draft.Variants = append(f.draft.Variants, NewVariantDraft(f.refs.FirstUnitID()))
	return len(f.draft.Variants) - 1, nil
}

// RemoveVariant 删除规格，至少保留一个
func (f *ProductForm) RemoveVariant(index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writableLocked(); err != nil {
		return err
	}
	if index < 0 || index >= len(f.draft.Variants) {
		return fmt.Errorf("%w: %d", ErrVariantIndex, index)
	}
	if len(f.draft.Variants) <= 1 {
		return ErrLastVariant
	}
	f.draft.Variants = append(f.draft.Variants[:index], f.draft.Variants[index+1:]...)
	return nil
}

// CanRemoveVariant 界面据此隐藏删除按钮
func (f *ProductForm) CanRemoveVariant() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.draft.Variants) > 1
}

// ToggleStockManagement 切换库存管理；关闭时强制为有货
func (f *ProductForm) ToggleStockManagement(index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writableLocked(); err != nil {
		return err
	}
	if index < 0 || index >= len(f.draft.Variants) {
		return fmt.Errorf("%w: %d", ErrVariantIndex, index)
	}
	f.toggleStockLocked(index)
	return nil
}

func (f *ProductForm) toggleStockLocked(index int) {
	v := &f.draft.Variants[index]
	v.ManageStock = !v.ManageStock
	if v.ManageStock {
		v.InStock = v.StockQuantity > 0
	} else {
		v.InStock = true
	}
}

// Validate 校验当前草稿并保存逐字段错误
func (f *ProductForm) Validate() ValidationResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validation = ValidateProduct(f.draft)
	return f.validation
}

// ProductSubmitResult 提交结果
type ProductSubmitResult struct {
	Outcome        Outcome          `json:"outcome"`
	Action         notify.Action    `json:"action"`
	Product        *catalog.Product `json:"product,omitempty"`
	Message        string           `json:"message,omitempty"`
	NotificationID string           `json:"notification_id,omitempty"`
	Validation     ValidationResult `json:"validation"`
}

// Submit 校验 → 转换 → 调用后端 → 通知
// 校验失败不发请求；失败时保留草稿以便重试。返回的 error 只表示调用方误用
func (f *ProductForm) Submit(ctx context.Context) (ProductSubmitResult, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ProductSubmitResult{}, ErrFormClosed
	}
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return ProductSubmitResult{}, ErrSubmitInProgress
	}
	mode := f.mode
	productID := f.productID
	action := actionFor(mode)

	f.setStateLocked(StateValidating)
	validation := ValidateProduct(f.draft)
	f.validation = validation
	if !validation.Valid() {
		f.last = OutcomeInvalid
		f.setStateLocked(StateIdle)
		f.mu.Unlock()

		notificationID, message := warnInvalid(f.notifier, action, notify.EntityProduct, validation)
		f.record(ctx, action, productID, OutcomeInvalid, message)
		return ProductSubmitResult{
			Outcome:        OutcomeInvalid,
			Action:         action,
			Message:        message,
			NotificationID: notificationID,
			Validation:     validation,
		}, nil
	}

	payload := BuildPayload(f.draft)
	f.setStateLocked(StateSubmitting)
	f.mu.Unlock()

	var (
		env *catalog.Envelope[catalog.Product]
		err error
	)
	if mode == ModeEdit {
		env, err = f.api.UpdateProduct(ctx, productID, payload)
	} else {
		env, err = f.api.CreateProduct(ctx, payload)
	}
	var product *catalog.Product
	if err == nil {
		product, err = env.Value()
	}

	f.mu.Lock()
	if f.closed {
		f.state = StateIdle
		f.mu.Unlock()
		logger.Debugw("product_form_response_dropped", "form_id", f.id, "product_id", productID)
		return ProductSubmitResult{Outcome: OutcomeDropped, Action: action}, nil
	}
	if err != nil {
		f.last = OutcomeFailed
		f.setStateLocked(StateFailed)
		f.setStateLocked(StateIdle)
		f.mu.Unlock()

		message := notify.ErrorMessage(err)
		logger.Warnw("product_form_submit_failed",
			"form_id", f.id,
			"action", action,
			"product_id", productID,
			"error", err,
		)
		formatted := notify.Format(notify.KindError, action, notify.EntityProduct, message)
		notificationID := ""
		if f.notifier != nil {
			notificationID = f.notifier.Error(formatted.Title, formatted.Message)
		}
		f.record(ctx, action, productID, OutcomeFailed, message)
		return ProductSubmitResult{
			Outcome:        OutcomeFailed,
			Action:         action,
			Message:        message,
			NotificationID: notificationID,
			Validation:     validation,
		}, nil
	}

	if mode == ModeCreate {
		f.mode = ModeEdit
		f.productID = product.ID
		f.loadedSlug = strings.TrimSpace(product.Slug)
		if f.loadedSlug == "" {
			f.loadedSlug = strings.TrimSpace(payload.Slug)
		}
	}
	for i := range f.draft.Variants {
		if i < len(product.Variants) && f.draft.Variants[i].ID == "" {
			f.draft.Variants[i].ID = product.Variants[i].ID
		}
	}
	entityID := f.productID
	f.last = OutcomeSucceeded
	f.setStateLocked(StateSucceeded)
	f.setStateLocked(StateIdle)
	f.mu.Unlock()

	formatted := notify.Format(notify.KindSuccess, action, notify.EntityProduct, "")
	notificationID := ""
	if f.notifier != nil {
		notificationID = f.notifier.Success(formatted.Title, formatted.Message)
	}
	logger.Infow("product_form_submitted", "form_id", f.id, "action", action, "product_id", entityID)
	f.record(ctx, action, entityID, OutcomeSucceeded, formatted.Message)
	return ProductSubmitResult{
		Outcome:        OutcomeSucceeded,
		Action:         action,
		Product:        product,
		Message:        formatted.Message,
		NotificationID: notificationID,
		Validation:     validation,
	}, nil
}

func (f *ProductForm) record(ctx context.Context, action notify.Action, entityID string, outcome Outcome, message string) {
	if f.recorder == nil {
		return
	}
	f.recorder.RecordSubmission(ctx, SubmissionRecord{
		FormID:   f.id,
		Entity:   notify.EntityProduct,
		Action:   action,
		EntityID: entityID,
		Outcome:  outcome,
		Message:  message,
	})
}

func (f *ProductForm) setStateLocked(state State) {
	f.state = state
}

func (f *ProductForm) writableLocked() error {
	if f.closed {
		return ErrFormClosed
	}
	if f.state == StateSubmitting {
		return ErrSubmitInProgress
	}
	return nil
}

// Close 关闭表单，之后的响应与修改都会被忽略
func (f *ProductForm) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

// Closed 是否已关闭
func (f *ProductForm) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Draft 草稿快照
func (f *ProductForm) Draft() ProductDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.clone()
}

// State 当前状态
func (f *ProductForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Mode 当前模式
func (f *ProductForm) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// ProductID 编辑中的商品 ID，新建模式为空
func (f *ProductForm) ProductID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productID
}

// ProductFormView 渲染层使用的表单快照
type ProductFormView struct {
	ID               string            `json:"id"`
	Mode             Mode              `json:"mode"`
	ProductID        string            `json:"product_id,omitempty"`
	State            State             `json:"state"`
	LastOutcome      Outcome           `json:"last_outcome,omitempty"`
	Submitting       bool              `json:"submitting"`
	CanRemoveVariant bool              `json:"can_remove_variant"`
	Draft            ProductDraft      `json:"draft"`
	Fields           []FieldView       `json:"fields"`
	Variants         [][]FieldView     `json:"variants"`
	Errors           map[string]string `json:"errors"`
}

// View 表单快照
func (f *ProductForm) View() ProductFormView {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := f.validation.FieldErrors()
	view := ProductFormView{
		ID:               f.id,
		Mode:             f.mode,
		ProductID:        f.productID,
		State:            f.state,
		LastOutcome:      f.last,
		Submitting:       f.state == StateSubmitting,
		CanRemoveVariant: len(f.draft.Variants) > 1,
		Draft:            f.draft.clone(),
		Fields:           ProductFields(f.draft, f.refs, errs),
		Variants:         make([][]FieldView, 0, len(f.draft.Variants)),
		Errors:           errs,
	}
	for i, v := range f.draft.Variants {
		view.Variants = append(view.Variants, VariantFields(i, v, f.refs, errs))
	}
	return view
}
