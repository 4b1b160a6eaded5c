package handlers

import (
	"errors"
	"fmt"
	"net/http"

	apierrors "github.com/pribylovaa/newsletter-service/internal/errors"
	"github.com/pribylovaa/newsletter-service/internal/service"
)

// refreshCookieName — имя cookie с refresh-токеном. Исторический контракт:
// клиенты читают/шлют именно его.
const refreshCookieName = "refreshToken"

type registerRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser — POST /auth/register.
//
// Успех: 200, конверт с {user, accessToken, refreshToken} и refresh-cookie.
// Конфликт email наружу отдаётся как 500 с нейтральным сообщением —
// исторический контракт API (см. DESIGN.md).
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.Validation("invalid request body"))
		return
	}

	user, pair, err := h.svc.RegisterUser(r.Context(), service.RegisterInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequiredFields):
			apierrors.WriteError(w, r, apierrors.Validation("all fields are required"))
		default:
			apierrors.WriteError(w, r, apierrors.Internal("user not registered, try again", err))
		}
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeSuccess(w, http.StatusOK, "user registered successfully", map[string]any{
		"user":         toUserPayload(user),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// LoginUser — POST /auth/login.
//
// Неизвестный email и неверный пароль дают одинаковый ответ 404:
// по коду и сообщению нельзя понять, существует ли аккаунт.
// В теле, в отличие от регистрации, нет access-токена — исторический
// контракт API.
func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.Validation("invalid request body"))
		return
	}

	user, pair, err := h.svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			apierrors.WriteError(w, r, apierrors.NotFound("invalid email or password"))
		default:
			apierrors.WriteError(w, r, apierrors.Internal("user not logged in", err))
		}
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeSuccess(w, http.StatusOK, "user logged in successfully", map[string]any{
		"user":         toUserPayload(user),
		"refreshToken": pair.RefreshToken,
	})
}

// LogoutUser — POST /auth/logout.
//
// Без cookie — 401; невалидный/просроченный refresh-токен — 404
// (у Refresh та же ситуация даёт 403 — исторический контракт API).
// Отзыв токена невозможен: logout лишь стирает cookie, валидный
// refresh-токен в чужих руках продолжит работать до истечения срока.
func (h *Handlers) LogoutUser(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		apierrors.WriteError(w, r, apierrors.Unauthorized("no token"))
		return
	}

	uid, err := h.svc.ParseRefreshToken(cookie.Value)
	if err != nil {
		apierrors.WriteError(w, r, apierrors.NotFound("invalid token or token has expired"))
		return
	}

	h.clearRefreshCookie(w)
	writeSuccess(w, http.StatusOK, fmt.Sprintf("user %s logged out successfully", uid), nil)
}

// RefreshToken — POST /auth/refresh.
//
// Без cookie — 401; любая ошибка проверки/разрешения личности — 403.
// Тело ответа содержит только новый access-токен; новый refresh-токен
// уходит исключительно в cookie.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		apierrors.WriteError(w, r, apierrors.Unauthorized("not authorized"))
		return
	}

	_, pair, err := h.svc.RefreshTokens(r.Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apierrors.WriteError(w, r, apierrors.Forbidden("user not found"))
		default:
			apierrors.WriteError(w, r, apierrors.Forbidden("invalid or expired refresh token").WithCause(err))
		}
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, map[string]string{
		"accessToken": pair.AccessToken,
	})
}

// setRefreshCookie выставляет refresh-cookie: httpOnly, SameSite=Strict,
// Secure в prod, срок жизни равен TTL refresh-токена.
func (h *Handlers) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie стирает refresh-cookie с теми же атрибутами.
func (h *Handlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
