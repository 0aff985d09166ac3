package shared

import (
	"errors"

	"github.com/pasarantar/admin-console/internal/authz"
	"github.com/pasarantar/admin-console/internal/console"
	"github.com/pasarantar/admin-console/internal/form"
	"github.com/pasarantar/admin-console/internal/http/response"
	"github.com/pasarantar/admin-console/internal/logger"
	"github.com/pasarantar/admin-console/internal/notify"
	"github.com/pasarantar/admin-console/internal/service"
	"github.com/pasarantar/admin-console/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MappedError 业务错误到接口响应的映射
type MappedError struct {
	Target error
	Code   int
	Msg    string
}

// ConsoleErrorRules 控制台通用错误映射
var ConsoleErrorRules = []MappedError{
	{Target: console.ErrWorkspaceNotFound, Code: response.CodeUnauthorized, Msg: MsgSessionMissing},
	{Target: console.ErrWorkspaceClosed, Code: response.CodeUnauthorized, Msg: MsgSessionMissing},
	{Target: console.ErrFormNotFound, Code: response.CodeNotFound, Msg: MsgFormNotFound},
	{Target: console.ErrUnknownEntity, Code: response.CodeBadRequest, Msg: MsgUnknownEntity},
	{Target: console.ErrNotProductForm, Code: response.CodeBadRequest, Msg: MsgNotProductForm},
	{Target: console.ErrNotLoaded, Code: response.CodeConflict, Msg: MsgFormNotLoaded},
	{Target: form.ErrFormClosed, Code: response.CodeConflict, Msg: MsgFormClosed},
	{Target: form.ErrSubmitInProgress, Code: response.CodeConflict, Msg: MsgSubmitInProgress},
	{Target: form.ErrUnknownField, Code: response.CodeBadRequest, Msg: MsgUnknownField},
	{Target: form.ErrFieldValue, Code: response.CodeUnprocessable, Msg: MsgFieldValue},
	{Target: form.ErrLastVariant, Code: response.CodeUnprocessable, Msg: MsgLastVariant},
	{Target: form.ErrVariantIndex, Code: response.CodeNotFound, Msg: MsgVariantIndex},
	{Target: service.ErrJournalUnavailable, Code: response.CodeInternal, Msg: MsgJournalUnavailable},
	{Target: authz.ErrUnavailable, Code: response.CodeInternal, Msg: MsgAuthzUnavailable},
}

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	log := logger.S()
	if id := c.GetString("request_id"); id != "" {
		log = log.With("request_id", id)
	}
	if ws, ok := Workspace(c); ok {
		log = log.With("session_id", ws.ID())
	}
	return log
}

// ResolveError 将错误转换为接口错误，未命中规则时使用通用文案
func ResolveError(err error, rules ...MappedError) *response.AppError {
	if appErr, ok := response.AsAppError(err); ok {
		return appErr
	}
	var sessErr *session.Error
	if errors.As(err, &sessErr) {
		return response.WrapError(response.CodeUnauthorized, sessErr.Message(), err).
			WithData(gin.H{"redirect": console.LoginPath})
	}
	if len(rules) == 0 {
		rules = ConsoleErrorRules
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			return response.WrapError(rule.Code, rule.Msg, err)
		}
	}
	return response.WrapError(response.CodeInternal, notify.FallbackErrorMessage, err)
}

// RespondError 返回映射后的错误响应，并记录原始错误。
func RespondError(c *gin.Context, err error, rules ...MappedError) {
	appErr := ResolveError(err, rules...)
	if appErr.Code >= response.CodeInternal {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	} else {
		RequestLog(c).Debugw("handler_rejected",
			"code", appErr.Code,
			"error", err,
		)
	}
	response.Fail(c, appErr)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Warnw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Fail(c, appErr)
}
