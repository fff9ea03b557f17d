package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type AppError struct {
	Code    string
	Message string
	// Fields заполняется только для CONSTRAINT_VIOLATION: поле -> описание ошибки
	Fields map[string]string
	Err    error
}

func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s [%s]", msg, e.fieldList())
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) fieldList() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return strings.Join(parts, "; ")
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation возвращает ошибку валидации с описанием по каждому полю
func Validation(fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrCodeConstraintViolation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// CodeOf возвращает код первой AppError в цепочке, либо пустую строку
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

const (
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeEdgeNotFound        = "EDGE_NOT_FOUND"
	ErrCodeConstraintViolation = "CONSTRAINT_VIOLATION"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
)
