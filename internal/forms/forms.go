package forms

import (
	"errors"
	"strings"
	"unicode/utf8"

	"news_notes/internal/censor"
	"news_notes/internal/slug"
)

const (
	TitleMaxLength    = 100
	UsernameMaxLength = 150
	PasswordMinLength = 8
)

// CommentForm — текст комментария.
type CommentForm struct {
	Text string `form:"text" json:"text"`
}

// Validate проверяет обязательность и запрещённые слова. Текст не изменяется.
func (f *CommentForm) Validate(filter *censor.Filter) error {
	if strings.TrimSpace(f.Text) == "" {
		return ValidationErrors{Invalid("text", RequiredMessage)}
	}
	if errors.Is(filter.Check(f.Text), censor.ErrBannedWord) {
		return ValidationErrors{BannedContent()}
	}
	return nil
}

// NoteForm — поля заметки. Slug необязателен.
type NoteForm struct {
	Title string `form:"title" json:"title"`
	Text  string `form:"text" json:"text"`
	Slug  string `form:"slug" json:"slug"`
}

// Clean проверяет поля и возвращает slug для сохранения:
// явно заданный (нормализованный) или построенный из заголовка.
// Уникальность проверяет хранилище.
func (f *NoteForm) Clean(slugMaxLen int) (string, error) {
	var errs ValidationErrors

	title := strings.TrimSpace(f.Title)
	switch {
	case title == "":
		errs = append(errs, Invalid("title", RequiredMessage))
	case utf8.RuneCountInString(title) > TitleMaxLength:
		errs = append(errs, Invalid("title", "Заголовок не может быть длиннее 100 символов."))
	}
	if strings.TrimSpace(f.Text) == "" {
		errs = append(errs, Invalid("text", RequiredMessage))
	}

	s := slug.Normalize(f.Slug)
	if s == "" {
		s = slug.Make(title, slugMaxLen)
		if s == "" && title != "" {
			errs = append(errs, Invalid("slug", "Не удалось построить slug из заголовка, задайте его вручную."))
		}
	} else if !slug.Valid(s) {
		errs = append(errs, Invalid("slug", InvalidSlugMessage))
	} else if len(s) > slugMaxLen {
		errs = append(errs, Invalid("slug", "Slug слишком длинный."))
	}

	if len(errs) > 0 {
		return "", errs
	}
	return s, nil
}

// SignupForm — регистрация пользователя.
type SignupForm struct {
	Username  string `form:"username" json:"username"`
	Password1 string `form:"password1" json:"password1"`
	Password2 string `form:"password2" json:"password2"`
}

func (f *SignupForm) Validate() error {
	var errs ValidationErrors

	name := strings.TrimSpace(f.Username)
	switch {
	case name == "":
		errs = append(errs, Invalid("username", RequiredMessage))
	case utf8.RuneCountInString(name) > UsernameMaxLength:
		errs = append(errs, Invalid("username", "Имя пользователя слишком длинное."))
	}
	if utf8.RuneCountInString(f.Password1) < PasswordMinLength {
		errs = append(errs, Invalid("password1", "Пароль должен содержать не менее 8 символов."))
	}
	if f.Password1 != f.Password2 {
		errs = append(errs, Invalid("password2", "Введённые пароли не совпадают."))
	}
	return errs.orNil()
}

// LoginForm — вход по имени и паролю.
type LoginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (f *LoginForm) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(f.Username) == "" {
		errs = append(errs, Invalid("username", RequiredMessage))
	}
	if f.Password == "" {
		errs = append(errs, Invalid("password", RequiredMessage))
	}
	return errs.orNil()
}
