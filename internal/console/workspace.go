package console

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/config"
	"github.com/pasarantar/admin-console/internal/form"
	"github.com/pasarantar/admin-console/internal/loader"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/notify"
	"github.com/pasarantar/admin-console/internal/reference"
	"github.com/pasarantar/admin-console/internal/session"
	"github.com/pasarantar/admin-console/internal/timer"
)

var (
	ErrWorkspaceClosed = errors.New("workspace closed")
	ErrFormNotFound    = errors.New("form not found")
	ErrUnknownEntity   = errors.New("unknown entity")
)

// References 参考数据来源
type References interface {
	Load(ctx context.Context, src reference.Source) (form.References, error)
	Refresh(ctx context.Context, src reference.Source) (form.References, error)
	Invalidate(ctx context.Context, entity notify.Entity, reason string)
}

// Deps 工作区共享依赖
type Deps struct {
	Catalog    *catalog.Client
	References References
	// Recorder 为会话生成提交记录器，可为空
	Recorder  func(s *session.Session) form.Recorder
	Config    config.ConsoleConfig
	Scheduler timer.Scheduler
}

// Workspace 一个控制台会话的全部状态：通知、跳转、打开的表单
type Workspace struct {
	session  *session.Session
	center   *notify.Center
	nav      *PendingNavigator
	client   *catalog.Client
	deps     Deps
	recorder form.Recorder

	mu     sync.Mutex
	forms  map[string]Form
	closed bool
}

func newWorkspace(sess *session.Session, deps Deps) *Workspace {
	ws := &Workspace{
		session: sess,
		nav:     &PendingNavigator{},
		client:  deps.Catalog.WithTokens(sess),
		deps:    deps,
		forms:   make(map[string]Form),
	}
	ws.center = notify.NewCenter(
		notify.WithScheduler(deps.Scheduler),
		notify.WithDefaultDuration(deps.Config.NotificationDuration()),
		notify.WithHideGrace(deps.Config.HideGrace()),
	)
	if deps.Recorder != nil {
		ws.recorder = deps.Recorder(sess)
	}
	sess.OnInvalidate(func(reason string) {
		ws.nav.Navigate(LoginPath)
		logger.Session(sess.ID()).Infow("console_session_invalidated", "reason", reason)
	})
	return ws
}

// ID 工作区 ID，与会话 ID 相同
func (w *Workspace) ID() string { return w.session.ID() }

// Session 会话
func (w *Workspace) Session() *session.Session { return w.session }

// Notifications 通知中心
func (w *Workspace) Notifications() *notify.Center { return w.center }

// Navigator 待执行跳转
func (w *Workspace) Navigator() *PendingNavigator { return w.nav }

// Catalog 绑定本会话令牌的目录客户端
func (w *Workspace) Catalog() *catalog.Client { return w.client }

// References 加载下拉参考数据，失败时提示并返回空数据
func (w *Workspace) References(ctx context.Context, refresh bool) (form.References, error) {
	if w.deps.References == nil {
		return form.References{}, nil
	}
	var refs form.References
	var err error
	if refresh {
		refs, err = w.deps.References.Refresh(ctx, w.client)
	} else {
		refs, err = w.deps.References.Load(ctx, w.client)
	}
	if err != nil {
		logger.Session(w.ID()).Warnw("console_references_load_failed", "error", err)
		notify.Notify(w.center, notify.KindError, notify.ActionFetch, notify.EntityCategory, notify.ErrorMessage(err))
		return form.References{}, err
	}
	if refresh {
		w.pushReferences(refs)
	}
	return refs, nil
}

// pushReferences 把刷新后的参考数据同步给已打开的商品表单
func (w *Workspace) pushReferences(refs form.References) {
	for _, f := range w.Forms() {
		if h, ok := f.(*productHandle); ok {
			h.form.SetReferences(refs)
		}
	}
}

// OpenProductForm 打开商品表单；productID 非空时进入编辑并异步加载商品
func (w *Workspace) OpenProductForm(ctx context.Context, productID string) (Form, error) {
	if err := w.alive(); err != nil {
		return nil, err
	}
	refs, _ := w.References(ctx, false)
	pf := form.NewProductForm(w.client, w.center,
		form.WithReferences(refs),
		form.WithRecorder(w.recorder),
	)
	handle := &productHandle{form: pf}
	productID = strings.TrimSpace(productID)
	if productID != "" {
		handle.loader = loader.New(loader.Config[catalog.Product, catalog.Product]{
			Fetch:         w.client.GetProduct,
			RedirectTo:    w.deps.Config.ListPath(string(notify.EntityProduct)),
			Navigator:     w.nav,
			RedirectDelay: w.deps.Config.RedirectDelay(),
			Scheduler:     w.deps.Scheduler,
			OnLoaded: func(_ string, p catalog.Product) {
				if err := pf.Initialize(&p); err != nil {
					logger.Session(w.ID()).Warnw("console_product_form_init_failed", "product_id", p.ID, "error", err)
				}
			},
		})
	}
	if err := w.register(handle); err != nil {
		handle.Close()
		return nil, err
	}
	if handle.loader != nil {
		w.load(ctx, notify.EntityProduct, func(ctx context.Context) string {
			return handle.loader.Load(ctx, productID).Error
		})
	}
	return handle, nil
}

// OpenEntityForm 打开分类/单位/标签/客户/站点设置表单；id 非空时进入编辑
func (w *Workspace) OpenEntityForm(ctx context.Context, entity notify.Entity, id string) (Form, error) {
	if err := w.alive(); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	var handle Form
	var load func(ctx context.Context) string
	switch entity {
	case notify.EntityCategory:
		h := &entityHandle[catalog.Category]{form: form.NewCategoryForm(w.client.Categories(), w.center, w.recorder)}
		h.loader = newEntityLoader(w, entity, id, w.client.Categories().Get, h.form.Initialize)
		handle, load = h, loadFunc(h.loader, id)
	case notify.EntityUnit:
		h := &entityHandle[catalog.Unit]{form: form.NewUnitForm(w.client.Units(), w.center, w.recorder)}
		h.loader = newEntityLoader(w, entity, id, w.client.Units().Get, h.form.Initialize)
		handle, load = h, loadFunc(h.loader, id)
	case notify.EntityTag:
		h := &entityHandle[catalog.Tag]{form: form.NewTagForm(w.client.Tags(), w.center, w.recorder)}
		h.loader = newEntityLoader(w, entity, id, w.client.Tags().Get, h.form.Initialize)
		handle, load = h, loadFunc(h.loader, id)
	case notify.EntityCustomer:
		h := &entityHandle[catalog.Customer]{form: form.NewCustomerForm(w.client.Customers(), w.center, w.recorder)}
		h.loader = newEntityLoader(w, entity, id, w.client.Customers().Get, h.form.Initialize)
		handle, load = h, loadFunc(h.loader, id)
	case notify.EntitySettings:
		// 站点设置只有一份，总是以编辑模式加载
		settings := w.client.Settings()
		id = "current"
		fetch := func(ctx context.Context, _ string) (*catalog.Envelope[catalog.Settings], error) {
			return settings.Get(ctx)
		}
		h := &entityHandle[catalog.Settings]{form: form.NewSettingsForm(settings, w.center, w.recorder)}
		h.loader = newEntityLoader(w, entity, id, fetch, h.form.Initialize)
		handle, load = h, loadFunc(h.loader, id)
	default:
		return nil, ErrUnknownEntity
	}
	if err := w.register(handle); err != nil {
		handle.Close()
		return nil, err
	}
	if load != nil {
		w.load(ctx, entity, load)
	}
	return handle, nil
}

// newEntityLoader id 为空（新建）时返回 nil
func newEntityLoader[T any](w *Workspace, entity notify.Entity, id string, fetch func(context.Context, string) (*catalog.Envelope[T], error), init func(*T) error) *loader.Loader[T, T] {
	if id == "" {
		return nil
	}
	redirect := ""
	if entity != notify.EntitySettings {
		redirect = w.deps.Config.ListPath(string(entity))
	}
	return loader.New(loader.Config[T, T]{
		Fetch:         fetch,
		RedirectTo:    redirect,
		Navigator:     w.nav,
		RedirectDelay: w.deps.Config.RedirectDelay(),
		Scheduler:     w.deps.Scheduler,
		OnLoaded: func(loadedID string, value T) {
			if err := init(&value); err != nil {
				logger.Session(w.ID()).Warnw("console_entity_form_init_failed", "entity", entity, "id", loadedID, "error", err)
			}
		},
	})
}

func loadFunc[T any](l *loader.Loader[T, T], id string) func(ctx context.Context) string {
	if l == nil {
		return nil
	}
	return func(ctx context.Context) string { return l.Load(ctx, id).Error }
}

// load 执行编辑加载；失败时提示错误，跳转由加载器延时触发
func (w *Workspace) load(ctx context.Context, entity notify.Entity, run func(ctx context.Context) string) {
	if msg := run(ctx); msg != "" {
		notify.Notify(w.center, notify.KindError, notify.ActionFetch, entity, msg)
	}
}

// Form 查找打开的表单
func (w *Workspace) Form(id string) (Form, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrWorkspaceClosed
	}
	f, ok := w.forms[id]
	if !ok {
		return nil, ErrFormNotFound
	}
	return f, nil
}

// Forms 打开的表单列表
func (w *Workspace) Forms() []Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Form, 0, len(w.forms))
	for _, f := range w.forms {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// CloseForm 关闭并移除表单，迟到的提交响应被丢弃
func (w *Workspace) CloseForm(id string) bool {
	w.mu.Lock()
	f, ok := w.forms[id]
	delete(w.forms, id)
	w.mu.Unlock()
	if ok {
		f.Close()
	}
	return ok
}

// ProductForm 查找商品表单
func (w *Workspace) ProductForm(id string) (*form.ProductForm, error) {
	f, err := w.Form(id)
	if err != nil {
		return nil, err
	}
	h, ok := f.(*productHandle)
	if !ok {
		return nil, ErrNotProductForm
	}
	if err := loadGate(h.loadState()); err != nil {
		return nil, err
	}
	return h.form, nil
}

// Submit 提交表单；成功且 redirect 为真时跳转到列表页
func (w *Workspace) Submit(ctx context.Context, id string, redirect bool) (SubmitResult, error) {
	f, err := w.Form(id)
	if err != nil {
		return SubmitResult{}, err
	}
	res, err := f.Submit(ctx)
	if err != nil {
		return res, err
	}
	if res.Outcome != form.OutcomeSucceeded {
		return res, nil
	}
	if w.deps.References != nil && reference.Affects(f.Entity()) {
		w.deps.References.Invalidate(ctx, f.Entity(), "saved")
	}
	if redirect && f.Entity() != notify.EntitySettings {
		res.Redirect = w.deps.Config.ListPath(string(f.Entity()))
		w.nav.Navigate(res.Redirect)
	}
	return res, nil
}

// ProductPage 商品列表
type ProductPage struct {
	Items []catalog.Product `json:"items"`
	Error string            `json:"error,omitempty"`
}

// ListProducts 查询商品列表，失败时提示并返回错误文案
func (w *Workspace) ListProducts(ctx context.Context, q catalog.ListQuery) ProductPage {
	env, err := w.client.Products().List(ctx, q)
	if err == nil {
		var items *[]catalog.Product
		if items, err = env.Value(); err == nil {
			return ProductPage{Items: *items}
		}
		if errors.Is(err, catalog.ErrNoData) {
			return ProductPage{Items: []catalog.Product{}}
		}
	}
	msg := notify.ErrorMessage(err)
	notify.Notify(w.center, notify.KindError, notify.ActionFetch, notify.EntityProduct, msg)
	return ProductPage{Items: []catalog.Product{}, Error: msg}
}

// ActionResult 删除、上传等一次性操作的结果
type ActionResult struct {
	OK             bool   `json:"ok"`
	Message        string `json:"message"`
	NotificationID string `json:"notification_id,omitempty"`
	URL            string `json:"url,omitempty"`
}

// Delete 删除实体并提示结果
func (w *Workspace) Delete(ctx context.Context, entity notify.Entity, id string) (ActionResult, error) {
	if err := w.alive(); err != nil {
		return ActionResult{}, err
	}
	var env *catalog.Envelope[json.RawMessage]
	var err error
	switch entity {
	case notify.EntityProduct:
		env, err = w.client.DeleteProduct(ctx, id)
	case notify.EntityCategory:
		env, err = w.client.Categories().Delete(ctx, id)
	case notify.EntityUnit:
		env, err = w.client.Units().Delete(ctx, id)
	case notify.EntityTag:
		env, err = w.client.Tags().Delete(ctx, id)
	case notify.EntityCustomer:
		env, err = w.client.Customers().Delete(ctx, id)
	default:
		return ActionResult{}, ErrUnknownEntity
	}
	if err == nil {
		err = env.Err()
	}
	res := w.finish(ctx, entity, notify.ActionDelete, id, err, "")
	if res.OK && reference.Affects(entity) && w.deps.References != nil {
		w.deps.References.Invalidate(ctx, entity, "deleted")
	}
	return res, nil
}

// UploadImage 上传图片并提示结果
func (w *Workspace) UploadImage(ctx context.Context, filename string, r io.Reader) (ActionResult, error) {
	if err := w.alive(); err != nil {
		return ActionResult{}, err
	}
	env, err := w.client.UploadImage(ctx, filename, r)
	url := ""
	if err == nil {
		var data *catalog.UploadResult
		if data, err = env.Value(); err == nil {
			url = data.URL
		}
	}
	res := w.finish(ctx, notify.EntityImage, notify.ActionUpload, "", err, uploadMessage(err))
	res.URL = url
	return res, nil
}

func (w *Workspace) finish(ctx context.Context, entity notify.Entity, action notify.Action, id string, err error, custom string) ActionResult {
	kind := notify.KindSuccess
	outcome := form.OutcomeSucceeded
	if err != nil {
		kind = notify.KindError
		outcome = form.OutcomeFailed
		if custom == "" {
			custom = notify.ErrorMessage(err)
		}
		logger.Session(w.ID()).Warnw("console_action_failed", "entity", entity, "action", action, "id", id, "error", err)
	}
	msg := notify.Format(kind, action, entity, custom)
	nid := notify.Notify(w.center, kind, action, entity, custom)
	if w.recorder != nil {
		w.recorder.RecordSubmission(ctx, form.SubmissionRecord{
			Entity:   entity,
			Action:   action,
			EntityID: id,
			Outcome:  outcome,
			Message:  msg.Message,
		})
	}
	return ActionResult{OK: err == nil, Message: msg.Message, NotificationID: nid}
}

func uploadMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, catalog.ErrImageTooLarge):
		return "Ukuran gambar maksimal 5MB."
	case errors.Is(err, catalog.ErrImageType):
		return "Format gambar harus JPG, PNG, WEBP, atau GIF."
	case errors.Is(err, catalog.ErrImageEmpty):
		return "File gambar kosong."
	}
	return ""
}

func (w *Workspace) register(f Form) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkspaceClosed
	}
	w.forms[f.ID()] = f
	return nil
}

func (w *Workspace) alive() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkspaceClosed
	}
	return nil
}

// Closed 是否已关闭
func (w *Workspace) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Close 关闭全部表单与通知计时器
func (w *Workspace) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	forms := w.forms
	w.forms = make(map[string]Form)
	w.mu.Unlock()

	for _, f := range forms {
		f.Close()
	}
	w.center.Close()
}

// ParseEntity 解析路由中的实体名
func ParseEntity(raw string) (notify.Entity, error) {
	entity := notify.Entity(strings.ToLower(strings.TrimSpace(raw)))
	switch entity {
	case notify.EntityProduct, notify.EntityCategory, notify.EntityUnit,
		notify.EntityTag, notify.EntityCustomer, notify.EntitySettings:
		return entity, nil
	}
	return "", ErrUnknownEntity
}
