// Package forms проверяет данные, присланные пользователем, и описывает ошибки полей.
package forms

import (
	"errors"
	"strings"
)

const (
	// BannedWarning — сообщение при запрещённых словах в комментарии.
	BannedWarning = "Не ругайтесь!"
	// SlugWarning дописывается к занятому slug.
	SlugWarning = " - такой slug уже существует, придумайте уникальное значение!"

	RequiredMessage    = "Обязательное поле."
	InvalidSlugMessage = "Значение должно состоять только из латинских букв, цифр, знаков подчеркивания или дефиса."
)

var (
	ErrBannedContent = errors.New("banned content")
	ErrDuplicateSlug = errors.New("duplicate slug")
	ErrInvalid       = errors.New("invalid value")
)

// FieldError — ошибка конкретного поля формы.
// Error возвращает текст для пользователя, Unwrap — вид ошибки.
type FieldError struct {
	Field   string
	Message string
	Kind    error
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Unwrap() error { return e.Kind }

// Invalid — ошибка поля общего вида.
func Invalid(field, msg string) *FieldError {
	return &FieldError{Field: field, Message: msg, Kind: ErrInvalid}
}

// BannedContent — комментарий содержит запрещённое слово.
func BannedContent() *FieldError {
	return &FieldError{Field: "text", Message: BannedWarning, Kind: ErrBannedContent}
}

// DuplicateSlug — slug уже занят другой заметкой.
func DuplicateSlug(slug string) *FieldError {
	return &FieldError{Field: "slug", Message: slug + SlugWarning, Kind: ErrDuplicateSlug}
}

// ValidationErrors — все ошибки одной формы.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, e := range v {
		errs = append(errs, e)
	}
	return errs
}

// orNil возвращает nil для пустого списка, чтобы не получить ненулевой интерфейс.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Errors — ошибки, сгруппированные по полям, как их видит страница.
type Errors map[string][]string

// ErrorsOf извлекает ошибки полей из err. ok=false, если err не ошибка валидации.
func ErrorsOf(err error) (Errors, bool) {
	if err == nil {
		return nil, false
	}
	out := Errors{}
	var collect func(error)
	collect = func(e error) {
		switch v := e.(type) {
		case *FieldError:
			out[v.Field] = append(out[v.Field], v.Message)
		case interface{ Unwrap() []error }:
			for _, inner := range v.Unwrap() {
				collect(inner)
			}
		default:
			if inner := errors.Unwrap(e); inner != nil {
				collect(inner)
			}
		}
	}
	collect(err)
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
