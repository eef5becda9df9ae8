// Package policy решает, может ли вызывающий просматривать или изменять запись.
//
// Личность вызывающего всегда передаётся явно. Не-автору возвращается NotFound,
// а не «запрещено», чтобы по ответу нельзя было узнать о существовании чужой записи.
package policy

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated — действие требует входа; отдаётся редиректом на страницу входа.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotOwner — вызывающий не автор записи; отдаётся как 404.
	ErrNotOwner = errors.New("not owner")
)

// Identity — вызывающий: аноним или пользователь с постоянным id.
type Identity struct {
	UserID        int64
	Authenticated bool
}

// Anonymous — неаутентифицированный вызывающий.
var Anonymous = Identity{}

// User возвращает личность аутентифицированного пользователя.
func User(id int64) Identity {
	return Identity{UserID: id, Authenticated: true}
}

func (i Identity) String() string {
	if !i.Authenticated {
		return "anonymous"
	}
	return fmt.Sprintf("user:%d", i.UserID)
}

// Outcome — результат проверки доступа.
type Outcome int

const (
	Allowed Outcome = iota
	RedirectToLogin
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case RedirectToLogin:
		return "redirect_to_login"
	case NotFound:
		return "not_found"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Err переводит исход в ошибку; для Allowed возвращает nil.
func (o Outcome) Err() error {
	switch o {
	case Allowed:
		return nil
	case RedirectToLogin:
		return ErrNotAuthenticated
	default:
		return ErrNotOwner
	}
}

// RequireAuthenticated пропускает любого вошедшего пользователя.
func RequireAuthenticated(caller Identity) Outcome {
	if !caller.Authenticated {
		return RedirectToLogin
	}
	return Allowed
}

// Authorize разрешает действие над записью только её автору.
func Authorize(caller Identity, authorID int64) Outcome {
	if !caller.Authenticated {
		return RedirectToLogin
	}
	if caller.UserID != authorID {
		return NotFound
	}
	return Allowed
}
