package console

import (
	"context"
	"errors"
	"sort"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/form"
	"github.com/pasarantar/admin-console/internal/loader"
	"github.com/pasarantar/admin-console/internal/notify"
)

var (
	// ErrNotProductForm 变体操作只适用于商品表单
	ErrNotProductForm = errors.New("form is not a product form")
	// ErrNotLoaded 编辑表单的数据还在加载或加载失败，不能修改和提交
	ErrNotLoaded = errors.New("form data not loaded")
)

// FieldChange 一次字段修改
type FieldChange struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// SubmitResult 提交结果（与表单类型无关）
type SubmitResult struct {
	Outcome        form.Outcome          `json:"outcome"`
	Action         notify.Action         `json:"action"`
	EntityID       string                `json:"entity_id,omitempty"`
	Message        string                `json:"message,omitempty"`
	NotificationID string                `json:"notification_id,omitempty"`
	Validation     form.ValidationResult `json:"validation"`
	Redirect       string                `json:"redirect,omitempty"`
}

// Form 工作区中打开的表单
type Form interface {
	ID() string
	Entity() notify.Entity
	View() any
	Apply(changes []FieldChange) error
	Validate() form.ValidationResult
	Submit(ctx context.Context) (SubmitResult, error)
	Close()
	Closed() bool
}

// productHandle 商品表单及其编辑加载器
type productHandle struct {
	form   *form.ProductForm
	loader *loader.Loader[catalog.Product, catalog.Product]
}

func (h *productHandle) ID() string { return h.form.ID() }

func (h *productHandle) Entity() notify.Entity { return notify.EntityProduct }

func (h *productHandle) View() any {
	load := h.loadState()
	if loadGate(load) != nil {
		return FormView{Load: load}
	}
	return FormView{Form: h.form.View(), Load: load}
}

func (h *productHandle) loadState() *LoadState {
	if h.loader == nil {
		return nil
	}
	s := h.loader.State()
	return &LoadState{ID: s.ID, Loading: s.Loading, Error: s.Error, Redirect: s.Redirect, Loaded: s.Data != nil}
}

// Apply 依次写入；名称排在 slug 之前，避免手填的 slug 被派生值覆盖
func (h *productHandle) Apply(changes []FieldChange) error {
	if err := loadGate(h.loadState()); err != nil {
		return err
	}
	for _, change := range orderChanges(changes) {
		if err := h.form.SetFieldPath(change.Path, change.Value); err != nil {
			return err
		}
	}
	return nil
}

func (h *productHandle) Validate() form.ValidationResult { return h.form.Validate() }

func (h *productHandle) Submit(ctx context.Context) (SubmitResult, error) {
	if err := loadGate(h.loadState()); err != nil {
		return SubmitResult{}, err
	}
	res, err := h.form.Submit(ctx)
	if err != nil {
		return SubmitResult{}, err
	}
	out := SubmitResult{
		Outcome:        res.Outcome,
		Action:         res.Action,
		Message:        res.Message,
		NotificationID: res.NotificationID,
		Validation:     res.Validation,
	}
	if res.Product != nil {
		out.EntityID = res.Product.ID
	}
	return out, nil
}

func (h *productHandle) Close() {
	h.form.Close()
	if h.loader != nil {
		h.loader.Close()
	}
}

func (h *productHandle) Closed() bool { return h.form.Closed() }

// entityHandle 简单实体表单及其编辑加载器
type entityHandle[T form.Entity] struct {
	form   *form.EntityForm[T]
	loader *loader.Loader[T, T]
}

func (h *entityHandle[T]) ID() string { return h.form.ID() }

func (h *entityHandle[T]) Entity() notify.Entity { return h.form.Entity() }

func (h *entityHandle[T]) View() any {
	load := h.loadState()
	if loadGate(load) != nil {
		return FormView{Load: load}
	}
	return FormView{Form: h.form.View(), Load: load}
}

func (h *entityHandle[T]) loadState() *LoadState {
	if h.loader == nil {
		return nil
	}
	s := h.loader.State()
	return &LoadState{ID: s.ID, Loading: s.Loading, Error: s.Error, Redirect: s.Redirect, Loaded: s.Data != nil}
}

func (h *entityHandle[T]) Apply(changes []FieldChange) error {
	if err := loadGate(h.loadState()); err != nil {
		return err
	}
	values := make(map[string]any, len(changes))
	for _, change := range changes {
		values[change.Path] = change.Value
	}
	return h.form.Patch(values)
}

func (h *entityHandle[T]) Validate() form.ValidationResult { return h.form.Validate() }

func (h *entityHandle[T]) Submit(ctx context.Context) (SubmitResult, error) {
	if err := loadGate(h.loadState()); err != nil {
		return SubmitResult{}, err
	}
	res, err := h.form.Submit(ctx)
	if err != nil {
		return SubmitResult{}, err
	}
	out := SubmitResult{
		Outcome:        res.Outcome,
		Action:         res.Action,
		Message:        res.Message,
		NotificationID: res.NotificationID,
		Validation:     res.Validation,
	}
	if res.Entity != nil {
		out.EntityID = (*res.Entity).EntityID()
	}
	return out, nil
}

func (h *entityHandle[T]) Close() {
	h.form.Close()
	if h.loader != nil {
		h.loader.Close()
	}
}

func (h *entityHandle[T]) Closed() bool { return h.form.Closed() }

// FormView 表单快照加上编辑加载状态
type FormView struct {
	Form any        `json:"form,omitempty"`
	Load *LoadState `json:"load,omitempty"`
}

// LoadState 编辑表单的加载状态
type LoadState struct {
	ID       string `json:"id"`
	Loading  bool   `json:"loading"`
	Loaded   bool   `json:"loaded"`
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// loadGate 新建表单没有加载器，直接放行；编辑表单要等数据加载成功
func loadGate(load *LoadState) error {
	if load != nil && !load.Loaded {
		return ErrNotLoaded
	}
	return nil
}

func orderChanges(changes []FieldChange) []FieldChange {
	ordered := append([]FieldChange(nil), changes...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Path == string(form.KeyName) && ordered[j].Path != string(form.KeyName)
	})
	return ordered
}
