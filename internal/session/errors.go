package session

// Error 会话错误，Message 为可展示文案
type Error struct {
	Code string
	Msg  string
}

func (e *Error) Error() string {
	return "session " + e.Code
}

// Message 用户可见文案
func (e *Error) Message() string {
	return e.Msg
}

var (
	ErrTokenMissing = &Error{Code: "token_missing", Msg: "Token masuk tidak ditemukan."}
	ErrTokenInvalid = &Error{Code: "token_invalid", Msg: "Token masuk tidak valid."}
	ErrExpired      = &Error{Code: "expired", Msg: "Sesi Anda telah berakhir. Silakan masuk kembali."}
	ErrInvalidated  = &Error{Code: "invalidated", Msg: "Sesi Anda tidak lagi berlaku. Silakan masuk kembali."}
)
