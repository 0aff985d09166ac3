package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/notify"

	"github.com/shopspring/decimal"
)

func fillValidProduct(t *testing.T, f *ProductForm) {
	t.Helper()
	steps := []struct {
		path  string
		value any
	}{
		{"name", "Ayam Kampung Segar"},
		{"categoryId", "c1"},
		{"description", "Ayam kampung potong segar"},
		{"variants.0.unitId", "u1"},
		{"variants.0.weight", "500"},
		{"variants.0.price", 0},
		{"variants.0.originalPrice", 25000},
	}
	for _, step := range steps {
		if err := f.SetFieldPath(step.path, step.value); err != nil {
			t.Fatalf("set %s failed: %v", step.path, err)
		}
	}
}

func TestCreateScenarioTransformsPayload(t *testing.T) {
	api := &fakeProductAPI{env: &catalog.Envelope[catalog.Product]{
		Success: true,
		Data:    &catalog.Product{ID: "p1", Slug: "ayam-kampung-segar", Variants: []catalog.Variant{{ID: "v1"}}},
	}}
	notifier := &recordingNotifier{}
	var records []SubmissionRecord
	f := NewProductForm(api, notifier, WithRecorder(RecorderFunc(func(_ context.Context, r SubmissionRecord) {
		records = append(records, r)
	})))
	fillValidProduct(t, f)

	if got := f.Draft().Slug; got != "ayam-kampung-segar" {
		t.Fatalf("expected derived slug, got %q", got)
	}

	result, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Outcome != OutcomeSucceeded || result.Action != notify.ActionCreate {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(api.creates) != 1 {
		t.Fatalf("expected one create call, got %d", len(api.creates))
	}
	variant := api.creates[0].Variants[0]
	if !variant.Price.Equal(decimal.NewFromInt(25000)) || variant.IsOnSale {
		t.Fatalf("expected price=25000 isOnSale=false, got price=%s isOnSale=%v", variant.Price, variant.IsOnSale)
	}

	sent := notifier.all()
	if len(sent) != 1 || sent[0].kind != notify.KindSuccess || sent[0].message != "Produk berhasil ditambahkan." {
		t.Fatalf("unexpected notifications: %+v", sent)
	}
	if f.Mode() != ModeEdit || f.ProductID() != "p1" {
		t.Fatalf("expected edit mode for p1, got mode=%s id=%s", f.Mode(), f.ProductID())
	}
	if f.Draft().Variants[0].ID != "v1" {
		t.Fatalf("expected variant id copied from response")
	}
	if len(records) != 1 || records[0].Outcome != OutcomeSucceeded || records[0].EntityID != "p1" {
		t.Fatalf("unexpected records: %+v", records)
	}

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if len(api.updates) != 1 || api.ids[0] != "p1" {
		t.Fatalf("expected second submit to update p1, creates=%d updates=%d", len(api.creates), len(api.updates))
	}
}

func TestInvalidSubmitWarnsOnceWithoutNetwork(t *testing.T) {
	api := &fakeProductAPI{}
	notifier := &recordingNotifier{}
	f := NewProductForm(api, notifier)
	if err := f.SetField(Field(KeyName), "Ayam"); err != nil {
		t.Fatalf("set name failed: %v", err)
	}

	result, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Outcome != OutcomeInvalid || api.calls() != 0 {
		t.Fatalf("expected invalid without network, outcome=%s calls=%d", result.Outcome, api.calls())
	}
	sent := notifier.all()
	if len(sent) != 1 || sent[0].kind != notify.KindWarning || sent[0].message != "Kategori wajib dipilih" {
		t.Fatalf("expected single warning about category, got %+v", sent)
	}
	if f.State() != StateIdle {
		t.Fatalf("expected idle after invalid submit, got %s", f.State())
	}
}

func TestValidationPrecedence(t *testing.T) {
	d := NewProductDraft()
	d.Variants = append(d.Variants, NewVariantDraft(""))
	result := ValidateProduct(d)
	want := []string{
		"name", "categoryId", "description",
		"variants.0.unitId", "variants.0.weight", "variants.0.originalPrice",
		"variants.1.unitId", "variants.1.weight", "variants.1.originalPrice",
	}
	if len(result.Errors) < len(want) {
		t.Fatalf("expected at least %d errors, got %+v", len(want), result.Errors)
	}
	for i, path := range want {
		if result.Errors[i].Path != path {
			t.Fatalf("error %d: got %s want %s", i, result.Errors[i].Path, path)
		}
	}

	d.Variants = nil
	d.Name, d.CategoryID, d.Description = "A", "c", "d"
	first, _ := ValidateProduct(d).First()
	if first.Path != "variants" {
		t.Fatalf("expected variants error first, got %+v", first)
	}
}

func TestValidationRangesAreReportedPerField(t *testing.T) {
	d := NewProductDraft()
	d.Name, d.Slug, d.CategoryID, d.Description = "A", "a", "c", "d"
	d.Rating = 7
	d.Variants[0] = VariantDraft{UnitID: "u1", Weight: "1", OriginalPrice: decimal.NewNullDecimal(dec(10)), StockQuantity: -1}
	errs := ValidateProduct(d).FieldErrors()
	if errs["rating"] == "" {
		t.Fatalf("expected rating range error, got %v", errs)
	}
	if errs["variants.0.stockQuantity"] == "" {
		t.Fatalf("expected stock quantity error, got %v", errs)
	}
}

func TestNetworkErrorShowsFallbackAndKeepsDraft(t *testing.T) {
	api := &fakeProductAPI{err: &catalog.TransportError{Method: "POST", Path: "/products", Err: errors.New("connection reset")}}
	notifier := &recordingNotifier{}
	f := NewProductForm(api, notifier)
	fillValidProduct(t, f)
	before := f.Draft()

	result, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Outcome != OutcomeFailed || result.Message != notify.FallbackErrorMessage {
		t.Fatalf("unexpected result: %+v", result)
	}
	sent := notifier.all()
	if len(sent) != 1 || sent[0].kind != notify.KindError || sent[0].message != notify.FallbackErrorMessage {
		t.Fatalf("expected fallback error toast, got %+v", sent)
	}
	after := f.Draft()
	if after.Name != before.Name || len(after.Variants) != len(before.Variants) || f.Mode() != ModeCreate {
		t.Fatalf("draft must be preserved after failure")
	}
}

func TestLogicalFailureShowsBackendMessage(t *testing.T) {
	api := &fakeProductAPI{env: &catalog.Envelope[catalog.Product]{Success: false, Message: "Slug sudah digunakan"}}
	notifier := &recordingNotifier{}
	f := NewProductForm(api, notifier)
	fillValidProduct(t, f)

	result, _ := f.Submit(context.Background())
	if result.Outcome != OutcomeFailed || result.Message != "Slug sudah digunakan" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSubmitReentrancyGuard(t *testing.T) {
	api := &fakeProductAPI{
		env:     &catalog.Envelope[catalog.Product]{Success: true, Data: &catalog.Product{ID: "p1"}},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	f := NewProductForm(api, &recordingNotifier{})
	fillValidProduct(t, f)

	done := make(chan ProductSubmitResult, 1)
	go func() {
		result, _ := f.Submit(context.Background())
		done <- result
	}()
	<-api.entered

	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrSubmitInProgress) {
		t.Fatalf("expected ErrSubmitInProgress, got %v", err)
	}
	if err := f.SetField(Field(KeyName), "x"); !errors.Is(err, ErrSubmitInProgress) {
		t.Fatalf("expected mutation to be rejected while submitting, got %v", err)
	}
	if f.State() != StateSubmitting {
		t.Fatalf("expected submitting state, got %s", f.State())
	}
	close(api.block)
	if result := <-done; result.Outcome != OutcomeSucceeded {
		t.Fatalf("unexpected outcome: %s", result.Outcome)
	}
	if api.calls() != 1 {
		t.Fatalf("expected exactly one network call, got %d", api.calls())
	}
}

func TestClosedFormDropsLateResponse(t *testing.T) {
	api := &fakeProductAPI{
		env:     &catalog.Envelope[catalog.Product]{Success: true, Data: &catalog.Product{ID: "p1"}},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	notifier := &recordingNotifier{}
	f := NewProductForm(api, notifier)
	fillValidProduct(t, f)

	done := make(chan ProductSubmitResult, 1)
	go func() {
		result, _ := f.Submit(context.Background())
		done <- result
	}()
	<-api.entered
	f.Close()
	close(api.block)

	if result := <-done; result.Outcome != OutcomeDropped {
		t.Fatalf("expected dropped outcome, got %s", result.Outcome)
	}
	if len(notifier.all()) != 0 {
		t.Fatalf("expected no notification for a closed form")
	}
	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed, got %v", err)
	}
}

func TestVariantOperations(t *testing.T) {
	f := NewProductForm(&fakeProductAPI{}, nil, WithReferences(References{
		Units: []catalog.Unit{{ID: "u-gram", Name: "Gram"}, {ID: "u-kg", Name: "Kilogram"}},
	}))

	if err := f.RemoveVariant(0); !errors.Is(err, ErrLastVariant) {
		t.Fatalf("expected ErrLastVariant, got %v", err)
	}
	index, err := f.AddVariant()
	if err != nil || index != 1 {
		t.Fatalf("add variant failed: index=%d err=%v", index, err)
	}
	added := f.Draft().Variants[1]
	if added.UnitID != "u-gram" || !added.IsActive || !added.InStock || added.ManageStock {
		t.Fatalf("unexpected defaults: %+v", added)
	}
	if !f.CanRemoveVariant() {
		t.Fatalf("expected removal allowed with two variants")
	}
	if err := f.RemoveVariant(5); !errors.Is(err, ErrVariantIndex) {
		t.Fatalf("expected ErrVariantIndex, got %v", err)
	}
	if err := f.RemoveVariant(0); err != nil {
		t.Fatalf("remove variant failed: %v", err)
	}
	if len(f.Draft().Variants) != 1 || f.Draft().Variants[0].UnitID != "u-gram" {
		t.Fatalf("unexpected variants after removal: %+v", f.Draft().Variants)
	}
}

func TestToggleStockManagement(t *testing.T) {
	f := NewProductForm(&fakeProductAPI{}, nil)
	path := func(key Key) Path { return VariantField(0, key) }

	if err := f.SetField(path(KeyInStock), false); err != nil {
		t.Fatalf("set inStock failed: %v", err)
	}
	if err := f.ToggleStockManagement(0); err != nil {
		t.Fatalf("toggle on failed: %v", err)
	}
	if v := f.Draft().Variants[0]; !v.ManageStock || v.InStock {
		t.Fatalf("managed stock with zero quantity should be out of stock: %+v", v)
	}
	if err := f.SetField(path(KeyStockQuantity), "12"); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if v := f.Draft().Variants[0]; !v.InStock || v.StockQuantity != 12 {
		t.Fatalf("quantity should drive inStock: %+v", v)
	}
	if err := f.ToggleStockManagement(0); err != nil {
		t.Fatalf("toggle off failed: %v", err)
	}
	if v := f.Draft().Variants[0]; v.ManageStock || !v.InStock {
		t.Fatalf("turning management off must force inStock=true: %+v", v)
	}
	if err := f.ToggleStockManagement(3); !errors.Is(err, ErrVariantIndex) {
		t.Fatalf("expected ErrVariantIndex, got %v", err)
	}
}

func TestUnmanagedStockKeepsManualValueOnSubmit(t *testing.T) {
	api := &fakeProductAPI{env: &catalog.Envelope[catalog.Product]{Success: true, Data: &catalog.Product{ID: "p1"}}}
	f := NewProductForm(api, nil)
	fillValidProduct(t, f)
	if err := f.SetFieldPath("variants.0.stockQuantity", 50); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if err := f.SetFieldPath("variants.0.inStock", false); err != nil {
		t.Fatalf("set inStock failed: %v", err)
	}
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if api.creates[0].Variants[0].InStock {
		t.Fatalf("unmanaged variant must submit the manual inStock value")
	}
}

func TestSlugDerivationRules(t *testing.T) {
	create := NewProductForm(&fakeProductAPI{}, nil)
	_ = create.SetField(Field(KeySlug), "custom")
	_ = create.SetField(Field(KeyName), "Beras Merah")
	if got := create.Draft().Slug; got != "beras-merah" {
		t.Fatalf("create mode should keep deriving slug, got %q", got)
	}

	edit := NewProductForm(&fakeProductAPI{}, nil)
	if err := edit.Initialize(&catalog.Product{ID: "p1", Name: "Lama", Slug: "lama"}); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	_ = edit.SetField(Field(KeyName), "Baru Sekali")
	if got := edit.Draft().Slug; got != "lama" {
		t.Fatalf("loaded slug must be preserved, got %q", got)
	}

	empty := NewProductForm(&fakeProductAPI{}, nil)
	_ = empty.Initialize(&catalog.Product{ID: "p2", Name: "Lama"})
	_ = empty.SetField(Field(KeyName), "Gula Aren")
	if got := empty.Draft().Slug; got != "gula-aren" {
		t.Fatalf("empty loaded slug should be derived, got %q", got)
	}
}

func TestInitializeFromProduct(t *testing.T) {
	original := catalog.AmountFromInt(25000)
	f := NewProductForm(&fakeProductAPI{}, nil)
	err := f.Initialize(&catalog.Product{
		ID:   "p1",
		Name: "Ayam",
		Variants: []catalog.Variant{
			{ID: "v1", UnitID: "u1", Weight: "500", Price: catalog.AmountFromInt(25000), OriginalPrice: &original, InStock: true, IsActive: true},
			{ID: "v2", UnitID: "u1", Weight: "1000", Price: catalog.AmountFromInt(20000), OriginalPrice: &original, IsOnSale: true, IsActive: true},
		},
	})
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	d := f.Draft()
	if len(d.Variants) != 2 || !d.Variants[0].Price.IsZero() || !d.Variants[1].Price.Equal(dec(20000)) {
		t.Fatalf("unexpected variant prices: %+v", d.Variants)
	}
	if f.Mode() != ModeEdit || f.ProductID() != "p1" {
		t.Fatalf("expected edit mode")
	}
}

func TestSetFieldRejectsBadValues(t *testing.T) {
	f := NewProductForm(&fakeProductAPI{}, nil)
	if err := f.SetFieldPath("variants.0.price", "abc"); !errors.Is(err, ErrFieldValue) {
		t.Fatalf("expected ErrFieldValue, got %v", err)
	}
	if err := f.SetFieldPath("variants.4.price", 1); !errors.Is(err, ErrVariantIndex) {
		t.Fatalf("expected ErrVariantIndex, got %v", err)
	}
	if err := f.SetFieldPath("variants.0.color", 1); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := f.SetFieldPath("variants.0.stockQuantity", 2.5); !errors.Is(err, ErrFieldValue) {
		t.Fatalf("fractional stock should be rejected, got %v", err)
	}
	if err := f.SetFieldPath("variants.0.stockQuantity", json.Number("3.5")); !errors.Is(err, ErrFieldValue) {
		t.Fatalf("fractional json number should be rejected, got %v", err)
	}
	if err := f.SetFieldPath("variants.0.stockQuantity", float64(4)); err != nil {
		t.Fatalf("integral float should be accepted: %v", err)
	}
	if got := f.Draft().Variants[0].StockQuantity; got != 4 {
		t.Fatalf("stock quantity want 4 got %d", got)
	}
	if err := f.SetFieldPath("variants.0.originalPrice", ""); err != nil {
		t.Fatalf("clearing original price failed: %v", err)
	}
	if f.Draft().Variants[0].OriginalPrice.Valid {
		t.Fatalf("empty original price must be absent")
	}
}

func TestViewExposesFieldErrors(t *testing.T) {
	f := NewProductForm(&fakeProductAPI{}, nil)
	f.Validate()
	view := f.View()
	if view.CanRemoveVariant || view.Errors["name"] == "" {
		t.Fatalf("unexpected view: %+v", view)
	}
	var nameField FieldView
	for _, field := range view.Fields {
		if field.Path == "name" {
			nameField = field
		}
	}
	if nameField.Error == "" || !nameField.Required {
		t.Fatalf("expected name field error, got %+v", nameField)
	}
	if len(view.Variants) != 1 {
		t.Fatalf("expected one variant field group")
	}
	for _, field := range view.Variants[0] {
		if field.Path == fmt.Sprintf("variants.0.%s", KeyStockQuantity) {
			t.Fatalf("stock quantity field must be hidden when stock is unmanaged")
		}
	}
}
