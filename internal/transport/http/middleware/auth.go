package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apierrors "github.com/pribylovaa/newsletter-service/internal/errors"
)

type ctxKeyIdentity struct{}

// Identity — аутентифицированный вызывающий: ID пользователя и роль
// из claims access-токена.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

// IdentityFrom возвращает личность вызывающего из контекста, если она там есть.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity{}).(Identity)
	return id, ok
}

// AccessTokenValidator проверяет access-токен и возвращает ID и роль пользователя.
// Реализуется сервисным слоем.
type AccessTokenValidator interface {
	ValidateAccessToken(token string) (uuid.UUID, string, error)
}

// Authenticate извлекает Bearer access-токен из Authorization, валидирует его
// и кладёт Identity в контекст. Отсутствующий или невалидный токен — 401.
func Authenticate(v AccessTokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				apierrors.WriteError(w, r, apierrors.Unauthorized("not authorized"))
				return
			}

			uid, role, err := v.ValidateAccessToken(token)
			if err != nil {
				apierrors.WriteError(w, r, apierrors.Unauthorized("not authorized"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity{}, Identity{UserID: uid, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole пропускает запрос дальше только если роль вызывающего равна
// требуемой. Политика бинарная: ни иерархии ролей, ни наборов ролей нет.
// Несовпадение — 401 (исторический контракт API).
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok || id.Role != role {
				apierrors.WriteError(w, r, apierrors.Unauthorized("you are not authorised"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken достаёт токен из заголовка Authorization.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) || len(auth) == len(prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}
