// Package auth выпускает и проверяет сессионные токены, хранит пароли
// и определяет личность вызывающего по HTTP-запросу.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"news_notes/internal/logger"
	"news_notes/internal/policy"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrInvalidPassword = errors.New("invalid password")
)

// LoginPath — страница входа, куда отправляются анонимы.
const LoginPath = "/auth/login/"

type claims struct {
	jwt.RegisteredClaims
}

// TokenManager подписывает токены HS256.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration, issuer string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// TTL — время жизни токена.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue выпускает токен для пользователя и возвращает момент его истечения.
func (m *TokenManager) Issue(userID int64) (string, time.Time, error) {
	const op = "auth.Issue"

	now := m.now().UTC()
	exp := now.Add(m.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return signed, exp, nil
}

// Parse проверяет подпись, срок и издателя и возвращает id пользователя.
func (m *TokenManager) Parse(tokenStr string) (int64, error) {
	const op = "auth.Parse"

	token, err := jwt.ParseWithClaims(tokenStr, &claims{},
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return id, nil
}

// HashPassword возвращает bcrypt-хэш пароля.
func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth.HashPassword: %w", err)
	}
	return hash, nil
}

// CheckPassword сравнивает пароль с хэшем.
func CheckPassword(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

type ctxKey struct{}

// WithIdentity кладёт личность вызывающего в контекст.
func WithIdentity(ctx context.Context, id policy.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom возвращает личность из контекста; без неё вызывающий анонимен.
func IdentityFrom(ctx context.Context) policy.Identity {
	if id, ok := ctx.Value(ctxKey{}).(policy.Identity); ok {
		return id
	}
	return policy.Anonymous
}

// Middleware определяет вызывающего по cookie или заголовку Authorization: Bearer.
// Неверный или просроченный токен делает запрос анонимным.
func Middleware(tm *TokenManager, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := policy.Anonymous
			if raw := tokenFromRequest(r, cookieName); raw != "" {
				if userID, err := tm.Parse(raw); err == nil {
					id = policy.User(userID)
				} else {
					logger.FromContext(r.Context()).WithError(err).Debug("session token rejected")
				}
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// LoginURL строит адрес страницы входа с возвратом на path.
// Слэши в next не экранируются: /auth/login/?next=/edit/slug/.
func LoginURL(path string) string {
	next := strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
	return LoginPath + "?next=" + next
}

// SafeNext возвращает next, только если это локальный путь.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}

// SetSession записывает токен в HttpOnly-cookie.
func SetSession(w http.ResponseWriter, cookieName, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession удаляет cookie сессии.
func ClearSession(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
