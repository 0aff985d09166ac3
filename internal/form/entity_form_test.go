package form

import (
	"context"
	"errors"
	"testing"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/notify"
)

type fakeEntityAPI[T any] struct {
	created []T
	updated []T
	ids     []string
	env     *catalog.Envelope[T]
	err     error
}

func (a *fakeEntityAPI[T]) Create(_ context.Context, payload T) (*catalog.Envelope[T], error) {
	a.created = append(a.created, payload)
	return a.env, a.err
}

func (a *fakeEntityAPI[T]) Update(_ context.Context, id string, payload T) (*catalog.Envelope[T], error) {
	a.updated = append(a.updated, payload)
	a.ids = append(a.ids, id)
	return a.env, a.err
}

func TestCustomerFormRejectsInvalidEmail(t *testing.T) {
	api := &fakeEntityAPI[catalog.Customer]{}
	notifier := &recordingNotifier{}
	f := NewCustomerForm(api, notifier, nil)
	if err := f.Patch(map[string]any{"name": "Budi", "email": "bukan-email"}); err != nil {
		t.Fatalf("patch failed: %v", err)
	}

	result, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Outcome != OutcomeInvalid || len(api.created) != 0 {
		t.Fatalf("expected invalid without network, got %+v", result)
	}
	sent := notifier.all()
	if len(sent) != 1 || sent[0].kind != notify.KindWarning || sent[0].message != "Format email tidak valid" {
		t.Fatalf("unexpected notifications: %+v", sent)
	}
	if f.View().Errors["email"] == "" {
		t.Fatalf("expected email field error")
	}
}

func TestCategoryFormDerivesSlugAndSwitchesToEdit(t *testing.T) {
	api := &fakeEntityAPI[catalog.Category]{env: &catalog.Envelope[catalog.Category]{
		Success: true,
		Data:    &catalog.Category{ID: "c9", Name: "Sayur Segar", Slug: "sayur-segar"},
	}}
	notifier := &recordingNotifier{}
	var records []SubmissionRecord
	f := NewCategoryForm(api, notifier, RecorderFunc(func(_ context.Context, r SubmissionRecord) {
		records = append(records, r)
	}))
	if err := f.Patch(map[string]any{"name": "  Sayur Segar "}); err != nil {
		t.Fatalf("patch failed: %v", err)
	}

	result, err := f.Submit(context.Background())
	if err != nil || result.Outcome != OutcomeSucceeded {
		t.Fatalf("submit failed: result=%+v err=%v", result, err)
	}
	if api.created[0].Slug != "sayur-segar" || api.created[0].Name != "Sayur Segar" {
		t.Fatalf("unexpected payload: %+v", api.created[0])
	}
	sent := notifier.all()
	if len(sent) != 1 || sent[0].message != "Kategori berhasil ditambahkan." {
		t.Fatalf("unexpected notifications: %+v", sent)
	}
	if f.Mode() != ModeEdit || f.View().EntityID != "c9" {
		t.Fatalf("expected edit mode for c9")
	}
	if len(records) != 1 || records[0].Entity != notify.EntityCategory {
		t.Fatalf("unexpected records: %+v", records)
	}

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if len(api.updated) != 1 || api.ids[0] != "c9" {
		t.Fatalf("expected update of c9")
	}
}

func TestTagFormFailureKeepsDraft(t *testing.T) {
	api := &fakeEntityAPI[catalog.Tag]{err: &catalog.APIError{Status: 409, Message: "Tag sudah ada"}}
	notifier := &recordingNotifier{}
	f := NewTagForm(api, notifier, nil)
	_ = f.Initialize(&catalog.Tag{ID: "t1", Name: "Organik", Slug: "organik", Color: "#22c55e"})
	_ = f.Patch(map[string]any{"name": "Organik Lokal"})

	result, _ := f.Submit(context.Background())
	if result.Outcome != OutcomeFailed || result.Message != "Tag sudah ada" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if f.Draft().Name != "Organik Lokal" || f.Draft().ID != "t1" {
		t.Fatalf("draft must be kept on failure: %+v", f.Draft())
	}
	sent := notifier.all()
	if len(sent) != 1 || sent[0].kind != notify.KindError {
		t.Fatalf("unexpected notifications: %+v", sent)
	}
}

func TestTagFormRejectsBadColor(t *testing.T) {
	f := NewTagForm(&fakeEntityAPI[catalog.Tag]{}, nil, nil)
	_ = f.Patch(map[string]any{"name": "Promo", "color": "merah"})
	if errs := f.Validate().FieldErrors(); errs["color"] == "" {
		t.Fatalf("expected color error, got %v", errs)
	}
}

func TestSettingsFormUpdates(t *testing.T) {
	api := &fakeEntityAPI[catalog.Settings]{env: &catalog.Envelope[catalog.Settings]{
		Success: true,
		Data:    &catalog.Settings{StoreName: "PasarAntar"},
	}}
	notifier := &recordingNotifier{}
	f := NewSettingsForm(api, notifier, nil)
	if err := f.Patch(map[string]any{"storeName": "PasarAntar", "currency": "idr", "freeShippingAt": "100000"}); err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	result, err := f.Submit(context.Background())
	if err != nil || result.Outcome != OutcomeSucceeded || result.Action != notify.ActionUpdate {
		t.Fatalf("unexpected result: %+v err=%v", result, err)
	}
	if len(api.updated) != 1 || api.updated[0].Currency != "IDR" {
		t.Fatalf("expected normalized update payload, got %+v", api.updated)
	}
	if sent := notifier.all(); sent[0].message != "Pengaturan berhasil disimpan." {
		t.Fatalf("unexpected message: %+v", sent)
	}
}

func TestEntityFormPatchRejectsWrongTypes(t *testing.T) {
	f := NewUnitForm(&fakeEntityAPI[catalog.Unit]{}, nil, nil)
	if err := f.Patch(map[string]any{"name": 12}); !errors.Is(err, ErrFieldValue) {
		t.Fatalf("expected ErrFieldValue, got %v", err)
	}
}
