package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/newsletter-service/internal/config"
	"github.com/pribylovaa/newsletter-service/internal/models"
	"github.com/pribylovaa/newsletter-service/internal/service"
	"github.com/pribylovaa/newsletter-service/internal/storage"
	"github.com/pribylovaa/newsletter-service/internal/transport/http/handlers"
	"github.com/pribylovaa/newsletter-service/mocks"
)

func routerCfg() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:    "router-access-secret",
		RefreshSecret:   "router-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		Issuer:          "newsletter-service",
		Audience:        []string{"newsletter-web"},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	svc := service.New(st, routerCfg())
	router := NewRouter(svc, Options{
		Cookie: handlers.CookieConfig{MaxAge: routerCfg().RefreshTokenTTL},
	})
	return router, st, ctrl
}

// signAccessToken подписывает access-токен с нужной ролью напрямую,
// в обход сервиса: маршрутам важны только claims и подпись.
func signAccessToken(t *testing.T, role string) string {
	t.Helper()

	cfg := routerCfg()
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"uid":  uuid.New().String(),
		"role": role,
		"iss":  cfg.Issuer,
		"aud":  cfg.Audience,
		"exp":  now.Add(cfg.AccessTokenTTL).Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
	require.NoError(t, err)
	return signed
}

func TestRouter_ServiceEndpoints(t *testing.T) {
	t.Parallel()

	router, _, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	for _, path := range []string{"/livez", "/healthz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Equal(t, "ok", rec.Body.String(), path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SubscribeIsOpen(t *testing.T) {
	t.Parallel()

	router, st, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	st.EXPECT().SubscriberByEmail(gomock.Any(), "user@example.com").
		Return(nil, storage.ErrNotFound)
	st.EXPECT().SaveSubscriber(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sub *models.Subscriber) (*models.Subscriber, error) {
			return sub, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/subscribers", strings.NewReader(`{"email":"user@example.com"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_AdminGate(t *testing.T) {
	t.Parallel()

	router, st, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subscribers", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user role rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/subscribers", nil)
		req.Header.Set("Authorization", "Bearer "+signAccessToken(t, models.RoleUser))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "you are not authorised")
	})

	t.Run("admin allowed", func(t *testing.T) {
		st.EXPECT().ListSubscribers(gomock.Any()).Return([]models.Subscriber{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/subscribers", nil)
		req.Header.Set("Authorization", "Bearer "+signAccessToken(t, models.RoleAdmin))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin delete", func(t *testing.T) {
		st.EXPECT().DeleteSubscriber(gomock.Any(), "656f1d2e8b3f4a0012345678").
			Return(&models.Subscriber{ID: "656f1d2e8b3f4a0012345678", Email: "user@example.com"}, nil)

		req := httptest.NewRequest(http.MethodDelete, "/subscribers/656f1d2e8b3f4a0012345678", nil)
		req.Header.Set("Authorization", "Bearer "+signAccessToken(t, models.RoleAdmin))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_AuthRoutesWired(t *testing.T) {
	t.Parallel()

	router, _, ctrl := newTestRouter(t)
	defer ctrl.Finish()

	// Запросы без тела/куки: важно, что маршруты существуют и отвечают
	// по контракту, а не 404/405 от роутера.
	cases := []struct {
		path string
		want int
	}{
		{"/auth/register", http.StatusBadRequest},
		{"/auth/login", http.StatusBadRequest},
		{"/auth/logout", http.StatusUnauthorized},
		{"/auth/refresh", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tc.path, nil))
		require.Equal(t, tc.want, rec.Code, tc.path)
	}
}
