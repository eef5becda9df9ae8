// Package service — прикладная логика news и notes: политика доступа,
// проверка форм и обращения к хранилищу.
//
// Личность вызывающего передаётся каждым методом явно. Ошибки доступа
// возвращаются как policy.ErrNotAuthenticated и policy.ErrNotOwner,
// ошибки форм как forms.ValidationErrors.
package service

import (
	"errors"
	"fmt"

	"news_notes/internal/policy"
	"news_notes/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrInvalidCredentials — неверное имя пользователя или пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

func authorize(op string, caller policy.Identity, authorID int64) error {
	if err := policy.Authorize(caller, authorID).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func requireLogin(op string, caller policy.Identity) error {
	if err := policy.RequireAuthenticated(caller).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsNotFound — запись отсутствует или принадлежит другому пользователю.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, policy.ErrNotOwner)
}

func inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}
