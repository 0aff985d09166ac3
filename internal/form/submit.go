package form

import (
	"context"
	"errors"

	"github.com/pasarantar/admin-console/internal/notify"
)

// State 表单提交状态
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Mode 新建或编辑
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Outcome 一次提交的结果
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeDropped   Outcome = "dropped"
)

var (
	ErrSubmitInProgress = errors.New("form submit in progress")
	ErrFormClosed       = errors.New("form closed")
	ErrLastVariant      = errors.New("product must keep at least one variant")
	ErrVariantIndex     = errors.New("variant index out of range")
)

// SubmissionRecord 提交结果的审计记录
type SubmissionRecord struct {
	FormID   string
	Entity   notify.Entity
	Action   notify.Action
	EntityID string
	Outcome  Outcome
	Message  string
}

// Recorder 记录提交结果
type Recorder interface {
	RecordSubmission(ctx context.Context, record SubmissionRecord)
}

// RecorderFunc 函数适配
type RecorderFunc func(ctx context.Context, record SubmissionRecord)

func (f RecorderFunc) RecordSubmission(ctx context.Context, record SubmissionRecord) {
	f(ctx, record)
}

func actionFor(mode Mode) notify.Action {
	if mode == ModeEdit {
		return notify.ActionUpdate
	}
	return notify.ActionCreate
}

// warnInvalid 只把第一条错误升级为全局提示
func warnInvalid(n notify.Notifier, action notify.Action, entity notify.Entity, result ValidationResult) (string, string) {
	first, _ := result.First()
	msg := notify.Format(notify.KindWarning, action, entity, first.Message)
	if n == nil {
		return "", msg.Message
	}
	return n.Warning(msg.Title, msg.Message), msg.Message
}
