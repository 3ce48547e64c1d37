package errs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ===== 错误码 =====
//
// 1xxx 业务前置校验；2xxx 外部资源（存储/身份）。
const (
	CodeEmptyText        = 1001
	CodeUnknownIdentity  = 1002
	CodeTokenInvalid     = 1003
	CodeStoreUnavailable = 2001
)

var (
	ErrEmptyText        = NewCodeError(CodeEmptyText, "message text is empty")
	ErrUnknownIdentity  = NewCodeError(CodeUnknownIdentity, "identity not found")
	ErrTokenInvalid     = NewCodeError(CodeTokenInvalid, "token invalid or expired")
	ErrStoreUnavailable = NewCodeError(CodeStoreUnavailable, "message store unavailable")
)

type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

func (e *CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

// WithDetail 返回追加细节后的副本，原错误保持可比。
func (e *CodeError) WithDetail(detail string) *CodeError {
	d := detail
	if e.Detail != "" {
		d = e.Detail + ", " + detail
	}
	return &CodeError{Code: e.Code, Msg: e.Msg, Detail: d}
}

func (e *CodeError) WithDetailf(format string, args ...any) *CodeError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// Is 按 Code 比较，WithDetail 的副本仍命中原 sentinel。
func (e *CodeError) Is(err error) bool {
	var ce *CodeError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Code == e.Code
}

// IsCode 判断任意 error 链上是否有指定错误码。
func IsCode(err error, code int) bool {
	var ce *CodeError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Code == code
}

func New(msg string) error { return errors.New(msg) }
