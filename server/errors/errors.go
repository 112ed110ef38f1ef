// Package errors определяет типизированные ошибки приложения с привязкой
// к HTTP статусам. Сетевые и структурные сбои внешних источников
// (санкционный список, реестр) конвертируются в ошибки с видом kind,
// по которому обработчики выбирают статус ответа.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind вид ошибки приложения
type Kind string

const (
	KindFetch        Kind = "fetch"        // сетевой/HTTP сбой внешнего источника
	KindFormat       Kind = "format"       // полезная нагрузка не прошла структурную проверку
	KindParse        Kind = "parse"        // документ не удалось разобрать
	KindValidation   Kind = "validation"   // некорректный запрос
	KindUnauthorized Kind = "unauthorized" // нет или невалидный токен
	KindNotFound     Kind = "not_found"
	KindInternal     Kind = "internal"
)

// AppError представляет ошибку приложения с HTTP статусом и контекстом
type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"status_code"` // HTTP статус код
	Message string `json:"message"`     // Сообщение для пользователя
	Err     error  `json:"-"`           // Внутренняя ошибка для логов, не сериализуется
	Context string `json:"-"`           // Дополнительный контекст (функция, параметры)
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap возвращает вложенную ошибку для errors.Is и errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode возвращает HTTP статус код ошибки
func (e *AppError) StatusCode() int {
	return e.Code
}

// WithContext добавляет контекст к ошибке
func (e *AppError) WithContext(context string) *AppError {
	e.Context = context
	return e
}

// IsKind сообщает, имеет ли ошибка (или любая из обёрнутых) заданный вид
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// NewFetchError создает ошибку загрузки внешнего источника (502)
func NewFetchError(message string, err error) *AppError {
	return &AppError{Kind: KindFetch, Code: http.StatusBadGateway, Message: message, Err: err}
}

// NewFormatError создает ошибку формата полезной нагрузки (502).
// Предыдущий корректный снапшот при этом остаётся действующим.
func NewFormatError(message string, err error) *AppError {
	return &AppError{Kind: KindFormat, Code: http.StatusBadGateway, Message: message, Err: err}
}

// NewParseError создает ошибку разбора документа. Компоненты гасят её
// на своей границе, превращая в пустой результат, наружу она не выходит.
func NewParseError(message string, err error) *AppError {
	return &AppError{Kind: KindParse, Code: http.StatusInternalServerError, Message: message, Err: err}
}

// NewValidationError создает ошибку 400 Bad Request
func NewValidationError(message string, err error) *AppError {
	return &AppError{Kind: KindValidation, Code: http.StatusBadRequest, Message: message, Err: err}
}

// NewUnauthorizedError создает ошибку 401 Unauthorized
func NewUnauthorizedError(message string, err error) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: http.StatusUnauthorized, Message: message, Err: err}
}

// NewNotFoundError создает ошибку 404 Not Found
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Kind: KindNotFound, Code: http.StatusNotFound, Message: message, Err: err}
}

// NewInternalError создает ошибку 500 Internal Server Error.
// Для пользователя возвращается общее сообщение, детали только в логах.
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
		Err:     errors.Join(errors.New(message), err),
	}
}
