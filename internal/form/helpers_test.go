package form

import (
	"context"
	"sync"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/notify"
)

type sentNotification struct {
	kind    notify.Kind
	title   string
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) push(kind notify.Kind, title, message string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{kind: kind, title: title, message: message})
	return string(kind)
}

func (n *recordingNotifier) Success(title, message string, _ ...notify.Position) string {
	return n.push(notify.KindSuccess, title, message)
}

func (n *recordingNotifier) Error(title, message string, _ ...notify.Position) string {
	return n.push(notify.KindError, title, message)
}

func (n *recordingNotifier) Warning(title, message string, _ ...notify.Position) string {
	return n.push(notify.KindWarning, title, message)
}

func (n *recordingNotifier) Info(title, message string, _ ...notify.Position) string {
	return n.push(notify.KindInfo, title, message)
}

func (n *recordingNotifier) all() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNotification(nil), n.sent...)
}

type fakeProductAPI struct {
	mu      sync.Mutex
	creates []catalog.ProductPayload
	updates []catalog.ProductPayload
	ids     []string
	env     *catalog.Envelope[catalog.Product]
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (a *fakeProductAPI) respond() (*catalog.Envelope[catalog.Product], error) {
	if a.entered != nil {
		a.entered <- struct{}{}
	}
	if a.block != nil {
		<-a.block
	}
	return a.env, a.err
}

func (a *fakeProductAPI) CreateProduct(ctx context.Context, payload catalog.ProductPayload) (*catalog.Envelope[catalog.Product], error) {
	a.mu.Lock()
	a.creates = append(a.creates, payload)
	a.mu.Unlock()
	return a.respond()
}

func (a *fakeProductAPI) UpdateProduct(ctx context.Context, id string, payload catalog.ProductPayload) (*catalog.Envelope[catalog.Product], error) {
	a.mu.Lock()
	a.updates = append(a.updates, payload)
	a.ids = append(a.ids, id)
	a.mu.Unlock()
	return a.respond()
}

func (a *fakeProductAPI) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.creates) + len(a.updates)
}
