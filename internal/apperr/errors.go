// Package apperr — единая таксономия ошибок приложения.
// Каждая ошибка несёт HTTP-статус; хендлеры транслируют её в ответ один раз.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind — класс ошибки.
type Kind int

const (
	// KindAuthentication — токен отсутствует/просрочен/указывает на
	// несуществующего или неактивного пользователя. HTTP 401.
	KindAuthentication Kind = iota
	// KindAuthorization — отказ политики доступа. HTTP 403.
	KindAuthorization
	// KindNotFound — идентификатор не разрешился в сущность. HTTP 404.
	KindNotFound
	// KindValidation — некорректный payload или значение enum. HTTP 400.
	KindValidation
	// KindConflict — дубликат уникального поля (например, email). HTTP 409.
	KindConflict
	// KindUpload — сбой сохранения файла. HTTP 400.
	KindUpload
	// KindTooLarge — превышен лимит размера загрузки. HTTP 413.
	KindTooLarge
)

// Error — ошибка приложения с классом и сообщением для клиента.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// HTTPStatus возвращает статус-код для класса ошибки.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

// Конструкторы по классам.

func Authentication(msg string) *Error { return &Error{Kind: KindAuthentication, Msg: msg} }
func Authorization(msg string) *Error  { return &Error{Kind: KindAuthorization, Msg: msg} }
func NotFound(msg string) *Error       { return &Error{Kind: KindNotFound, Msg: msg} }
func Validation(msg string) *Error     { return &Error{Kind: KindValidation, Msg: msg} }
func Conflict(msg string) *Error       { return &Error{Kind: KindConflict, Msg: msg} }
func TooLarge(msg string) *Error       { return &Error{Kind: KindTooLarge, Msg: msg} }

// Upload оборачивает причину сбоя загрузки.
func Upload(err error) *Error {
	return &Error{Kind: KindUpload, Msg: fmt.Sprintf("error uploading file: %v", err)}
}

// As извлекает *Error из цепочки err.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind сообщает, относится ли err к заданному классу.
func IsKind(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}
