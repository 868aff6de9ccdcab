package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 业务错误分类，handler 层统一映射到 HTTP 状态码
type Kind int

const (
	KindValidation Kind = iota + 1
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
	KindUpstream
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validation(msg string) *Error  { return New(KindValidation, msg) }
func Forbidden(msg string) *Error   { return New(KindForbidden, msg) }
func NotFound(msg string) *Error    { return New(KindNotFound, msg) }
func Conflict(msg string) *Error    { return New(KindConflict, msg) }
func RateLimited(msg string) *Error { return New(KindRateLimited, msg) }
func Upstream(msg string, err error) *Error {
	return Wrap(KindUpstream, msg, err)
}

// KindOf 返回错误分类，非业务错误返回 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

// HTTPStatus 未分类错误一律按 500 处理，不向外泄露内部细节
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUpstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Message 对外展示的文案；内部错误收敛为固定提示
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}
