package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"news_notes/internal/auth"
	"news_notes/internal/forms"
	"news_notes/internal/logger"
	"news_notes/internal/models"
	"news_notes/internal/storage"
)

const (
	usernameTakenMessage      = "Пользователь с таким именем уже существует."
	invalidCredentialsMessage = "Пожалуйста, введите правильные имя пользователя и пароль."
)

// Users — регистрация и вход.
type Users struct {
	storage storage.UserStorage
	tokens  *auth.TokenManager
}

func NewUsers(st storage.UserStorage, tokens *auth.TokenManager) *Users {
	return &Users{storage: st, tokens: tokens}
}

// Session — выданный при входе токен.
type Session struct {
	User    *models.User
	Token   string
	Expires time.Time
}

// Signup создаёт пользователя.
func (s *Users) Signup(ctx context.Context, form forms.SignupForm) (*models.User, error) {
	const op = "service.users.Signup"

	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	hash, err := auth.HashPassword(form.Password1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u := &models.User{Username: strings.TrimSpace(form.Username), PasswordHash: hash}
	if err := s.storage.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, forms.ValidationErrors{forms.Invalid("username", usernameTakenMessage)})
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.FromContext(ctx).WithField("user_id", u.ID).Info("user signed up")
	return u, nil
}

// Login проверяет пароль и выпускает токен сессии.
func (s *Users) Login(ctx context.Context, form forms.LoginForm) (*Session, error) {
	const op = "service.users.Login"

	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u, err := s.storage.UserByUsername(ctx, strings.TrimSpace(form.Username))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, invalidCredentials())
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := auth.CheckPassword(u.PasswordHash, form.Password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, invalidCredentials())
	}

	token, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{User: u, Token: token, Expires: exp}, nil
}

func invalidCredentials() error {
	return forms.ValidationErrors{{
		Field:   "__all__",
		Message: invalidCredentialsMessage,
		Kind:    ErrInvalidCredentials,
	}}
}
