package form

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/notify"

	"github.com/google/uuid"
)

// Entity 可编辑实体
type Entity interface {
	EntityID() string
}

// EntityAPI 简单实体表单依赖的后端接口，*catalog.Resource 满足该接口
type EntityAPI[T any] interface {
	Create(ctx context.Context, payload T) (*catalog.Envelope[T], error)
	Update(ctx context.Context, id string, payload T) (*catalog.Envelope[T], error)
}

// EntityFormConfig 简单实体表单配置
type EntityFormConfig[T Entity] struct {
	Entity   notify.Entity
	API      EntityAPI[T]
	Notifier notify.Notifier
	Recorder Recorder
	// Normalize 提交前整理草稿（去空格、派生 slug 等）
	Normalize func(*T)
	// Validate 追加在 validate 标签之后的检查
	Validate func(T) ValidationResult
	Fields   func(T, map[string]string) []FieldView
}

// EntityForm 分类、单位、标签、客户、站点设置共用的提交流程
type EntityForm[T Entity] struct {
	mu  sync.Mutex
	id  string
	cfg EntityFormConfig[T]

	mode       Mode
	entityID   string
	draft      T
	state      State
	last       Outcome
	validation ValidationResult
	closed     bool
}

// NewEntityForm 创建新建模式的实体表单
func NewEntityForm[T Entity](cfg EntityFormConfig[T]) *EntityForm[T] {
	return &EntityForm[T]{
		id:    uuid.NewString(),
		cfg:   cfg,
		mode:  ModeCreate,
		state: StateIdle,
	}
}

// ID 表单 ID
func (f *EntityForm[T]) ID() string {
	return f.id
}

// Entity 实体类型
func (f *EntityForm[T]) Entity() notify.Entity {
	return f.cfg.Entity
}

// Initialize value 为空时进入新建模式
func (f *EntityForm[T]) Initialize(value *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writableLocked(); err != nil {
		return err
	}
	var zero T
	if value == nil {
		f.mode = ModeCreate
		f.entityID = ""
		f.draft = zero
	} else {
		f.mode = ModeEdit
		f.entityID = (*value).EntityID()
		f.draft = *value
	}
	f.validation = ValidationResult{}
	f.last = ""
	return nil
}

// Patch 按 json 字段名合并修改
func (f *EntityForm[T]) Patch(values map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writableLocked(); err != nil {
		return err
	}
	raw, err := json.Marshal(f.draft)
	if err != nil {
		return err
	}
	merged := map[string]any{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return err
	}
	for key, value := range values {
		if key == "id" {
			continue
		}
		merged[key] = value
	}
	raw, err = json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFieldValue, err)
	}
	var next T
	if err := json.Unmarshal(raw, &next); err != nil {
		return fmt.Errorf("%w: %v", ErrFieldValue, err)
	}
	f.draft = next
	return nil
}

func (f *EntityForm[T]) validateLocked() ValidationResult {
	draft := f.draft
	if f.cfg.Normalize != nil {
		f.cfg.Normalize(&draft)
	}
	result := ValidateStruct(draft, "")
	if f.cfg.Validate != nil {
		result.Errors = append(result.Errors, f.cfg.Validate(draft).Errors...)
	}
	return result
}

// Validate 校验当前草稿
func (f *EntityForm[T]) Validate() ValidationResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validation = f.validateLocked()
	return f.validation
}

// EntitySubmitResult 提交结果
type EntitySubmitResult[T any] struct {
	Outcome        Outcome          `json:"outcome"`
	Action         notify.Action    `json:"action"`
	Entity         *T               `json:"entity,omitempty"`
	Message        string           `json:"message,omitempty"`
	NotificationID string           `json:"notification_id,omitempty"`
	Validation     ValidationResult `json:"validation"`
}

// Submit 与商品表单相同的流程：校验失败只发一条警告，失败保留草稿
func (f *EntityForm[T]) Submit(ctx context.Context) (EntitySubmitResult[T], error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return EntitySubmitResult[T]{}, ErrFormClosed
	}
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return EntitySubmitResult[T]{}, ErrSubmitInProgress
	}
	mode := f.mode
	entityID := f.entityID
	action := actionFor(mode)

	f.state = StateValidating
	validation := f.validateLocked()
	f.validation = validation
	if !validation.Valid() {
		f.last = OutcomeInvalid
		f.state = StateIdle
		f.mu.Unlock()

		notificationID, message := warnInvalid(f.cfg.Notifier, action, f.cfg.Entity, validation)
		f.record(ctx, action, entityID, OutcomeInvalid, message)
		return EntitySubmitResult[T]{
			Outcome:        OutcomeInvalid,
			Action:         action,
			Message:        message,
			NotificationID: notificationID,
			Validation:     validation,
		}, nil
	}
	payload := f.draft
	if f.cfg.Normalize != nil {
		f.cfg.Normalize(&payload)
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	var (
		env *catalog.Envelope[T]
		err error
	)
	if mode == ModeEdit {
		env, err = f.cfg.API.Update(ctx, entityID, payload)
	} else {
		env, err = f.cfg.API.Create(ctx, payload)
	}
	var saved *T
	if err == nil {
		saved, err = env.Value()
	}

	f.mu.Lock()
	if f.closed {
		f.state = StateIdle
		f.mu.Unlock()
		return EntitySubmitResult[T]{Outcome: OutcomeDropped, Action: action}, nil
	}
	if err != nil {
		f.last = OutcomeFailed
		f.state = StateIdle
		f.mu.Unlock()

		message := notify.ErrorMessage(err)
		logger.Warnw("entity_form_submit_failed",
			"form_id", f.id,
			"entity", f.cfg.Entity,
			"action", action,
			"entity_id", entityID,
			"error", err,
		)
		formatted := notify.Format(notify.KindError, action, f.cfg.Entity, message)
		notificationID := ""
		if f.cfg.Notifier != nil {
			notificationID = f.cfg.Notifier.Error(formatted.Title, formatted.Message)
		}
		f.record(ctx, action, entityID, OutcomeFailed, message)
		return EntitySubmitResult[T]{
			Outcome:        OutcomeFailed,
			Action:         action,
			Message:        message,
			NotificationID: notificationID,
			Validation:     validation,
		}, nil
	}

	f.draft = *saved
	f.mode = ModeEdit
	if id := (*saved).EntityID(); id != "" {
		f.entityID = id
	}
	entityID = f.entityID
	f.last = OutcomeSucceeded
	f.state = StateIdle
	f.mu.Unlock()

	formatted := notify.Format(notify.KindSuccess, action, f.cfg.Entity, "")
	notificationID := ""
	if f.cfg.Notifier != nil {
		notificationID = f.cfg.Notifier.Success(formatted.Title, formatted.Message)
	}
	f.record(ctx, action, entityID, OutcomeSucceeded, formatted.Message)
	return EntitySubmitResult[T]{
		Outcome:        OutcomeSucceeded,
		Action:         action,
		Entity:         saved,
		Message:        formatted.Message,
		NotificationID: notificationID,
		Validation:     validation,
	}, nil
}

func (f *EntityForm[T]) record(ctx context.Context, action notify.Action, entityID string, outcome Outcome, message string) {
	if f.cfg.Recorder == nil {
		return
	}
	f.cfg.Recorder.RecordSubmission(ctx, SubmissionRecord{
		FormID:   f.id,
		Entity:   f.cfg.Entity,
		Action:   action,
		EntityID: entityID,
		Outcome:  outcome,
		Message:  message,
	})
}

func (f *EntityForm[T]) writableLocked() error {
	if f.closed {
		return ErrFormClosed
	}
	if f.state == StateSubmitting {
		return ErrSubmitInProgress
	}
	return nil
}

// Close 关闭表单
func (f *EntityForm[T]) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

// Closed 是否已关闭
func (f *EntityForm[T]) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Draft 草稿
func (f *EntityForm[T]) Draft() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// State 当前状态
func (f *EntityForm[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Mode 当前模式
func (f *EntityForm[T]) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// EntityFormView 渲染快照
type EntityFormView[T any] struct {
	ID          string            `json:"id"`
	Entity      notify.Entity     `json:"entity"`
	Mode        Mode              `json:"mode"`
	EntityID    string            `json:"entity_id,omitempty"`
	State       State             `json:"state"`
	LastOutcome Outcome           `json:"last_outcome,omitempty"`
	Submitting  bool              `json:"submitting"`
	Draft       T                 `json:"draft"`
	Fields      []FieldView       `json:"fields"`
	Errors      map[string]string `json:"errors"`
}

// View 表单快照
func (f *EntityForm[T]) View() EntityFormView[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := f.validation.FieldErrors()
	view := EntityFormView[T]{
		ID:          f.id,
		Entity:      f.cfg.Entity,
		Mode:        f.mode,
		EntityID:    f.entityID,
		State:       f.state,
		LastOutcome: f.last,
		Submitting:  f.state == StateSubmitting,
		Draft:       f.draft,
		Errors:      errs,
	}
	if f.cfg.Fields != nil {
		view.Fields = f.cfg.Fields(f.draft, errs)
	}
	return view
}

func trimmed(s *string) {
	*s = strings.TrimSpace(*s)
}
