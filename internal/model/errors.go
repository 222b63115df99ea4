package model

import (
	"errors"
	"fmt"
)

// ErrorKind 错误分类，同时作为 GraphQL 错误的 extensions.code
type ErrorKind string

const (
	KindAuthenticationRequired ErrorKind = "UNAUTHENTICATED"
	KindNotFound               ErrorKind = "NOT_FOUND"
	KindInvalidCredentials     ErrorKind = "INVALID_CREDENTIALS"
	KindValidation             ErrorKind = "VALIDATION_FAILED"
	KindTooManyAttempts        ErrorKind = "TOO_MANY_ATTEMPTS"
)

// Error 业务错误
// errors.Is 按 Kind 比较；目标错误带 Message 时还要求消息一致
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is 支持 errors.Is(err, ErrNotFound) 这类按分类的判断
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Extensions 供 graphql-go 写入响应的 errors[].extensions
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Kind)}
}

var (
	// 分类哨兵，只比较 Kind
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrValidation         = &Error{Kind: KindValidation}

	ErrAuthenticationRequired = &Error{Kind: KindAuthenticationRequired, Message: "You need to be logged in!"}
	ErrEmailNotFound          = &Error{Kind: KindInvalidCredentials, Message: "Email address not found"}
	ErrIncorrectPassword      = &Error{Kind: KindInvalidCredentials, Message: "Incorrect email/password"}
	ErrTooManyAttempts        = &Error{Kind: KindTooManyAttempts, Message: "Too many login attempts, try again later"}
	ErrEmailTaken             = &Error{Kind: KindValidation, Message: "Email address already registered"}
)

// NotFound 构造资源不存在错误
func NotFound(entity, id string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// Validation 构造参数校验错误
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
