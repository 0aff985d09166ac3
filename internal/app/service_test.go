package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingService struct {
	name    string
	startFn func(ctx context.Context) error
	stopErr error

	mu    *sync.Mutex
	order *[]string
}

func (s *recordingService) Name() string { return s.name }

func (s *recordingService) Start(ctx context.Context) error {
	if s.startFn != nil {
		return s.startFn(ctx)
	}
	<-ctx.Done()
	return nil
}

func (s *recordingService) Stop(context.Context) error {
	s.mu.Lock()
	*s.order = append(*s.order, s.name)
	s.mu.Unlock()
	return s.stopErr
}

func TestRunnerStopsInReverseOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	failing := errors.New("listen failed")
	runner := NewRunner(
		&recordingService{name: "http", mu: &mu, order: &order, startFn: func(context.Context) error {
			time.Sleep(10 * time.Millisecond)
			return failing
		}},
		nil,
		&recordingService{name: "console-reaper", mu: &mu, order: &order},
	)
	if got := runner.Services(); len(got) != 2 {
		t.Fatalf("nil services should be ignored, got %v", got)
	}

	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, failing) {
		t.Fatalf("want start error, got %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "console-reaper" || order[1] != "http" {
		t.Fatalf("unexpected stop order %v", order)
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	var mu sync.Mutex
	var order []string
	runner := NewRunner(&recordingService{name: "worker", mu: &mu, order: &order})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancel should not be an error, got %v", err)
	}
}

func TestRunnerReportsStopErrors(t *testing.T) {
	var mu sync.Mutex
	var order []string
	stopErr := errors.New("shutdown timeout")
	runner := NewRunner(&recordingService{name: "http", mu: &mu, order: &order, stopErr: stopErr})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, time.Second, nil); !errors.Is(err, stopErr) {
		t.Fatalf("want stop error, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	if mode, err := ParseMode(""); err != nil || mode != ModeAll {
		t.Fatalf("empty mode should default to all, got %q %v", mode, err)
	}
	if mode, err := ParseMode(" API "); err != nil || mode != ModeAPI {
		t.Fatalf("mode should be normalized, got %q %v", mode, err)
	}
	if _, err := ParseMode("cron"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}
