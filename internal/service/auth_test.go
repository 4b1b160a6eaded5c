package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/newsletter-service/internal/config"
	"github.com/pribylovaa/newsletter-service/internal/models"
	"github.com/pribylovaa/newsletter-service/internal/storage"
	"github.com/pribylovaa/newsletter-service/mocks"
)

func testCfg() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:    "unit-access-secret",
		RefreshSecret:   "unit-refresh-secret",
		AccessTokenTTL:  30 * time.Second,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "newsletter-service",
		Audience:        []string{"newsletter-web"},
	}
}

func newSvc(t *testing.T) (*Service, *mocks.MockStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	svc := New(st, testCfg())
	return svc, st, ctrl
}

func mustHashPW(t *testing.T, pw string) string {
	t.Helper()
	h, err := hashPassword(pw)
	require.NoError(t, err)
	return h
}

func validInput() RegisterInput {
	return RegisterInput{
		FirstName: "Ivan",
		LastName:  "Petrov",
		Email:     "User@Example.com",
		Password:  "secret123",
	}
}

func TestRegisterUser_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	var saved *models.User
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		})

	user, pair, err := svc.RegisterUser(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, pair)

	// Email нормализован, роль по умолчанию, полное имя выведено.
	require.Equal(t, "user@example.com", user.Email)
	require.Equal(t, models.RoleUser, user.Role)
	require.Equal(t, "Ivan Petrov", user.FullName)
	require.NotEqual(t, uuid.Nil, user.ID)
	require.Equal(t, saved, user)

	// Пароль сохранён только хэшем.
	require.NotEqual(t, "secret123", user.PasswordHash)
	require.True(t, checkPassword(user.PasswordHash, "secret123"))

	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.WithinDuration(t, time.Now().Add(svc.cfg.AccessTokenTTL), pair.AccessExpiresAt, 2*time.Second)
}

func TestRegisterUser_MissingFields(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	cases := []struct {
		name   string
		mutate func(in *RegisterInput)
	}{
		{"no first name", func(in *RegisterInput) { in.FirstName = "  " }},
		{"no last name", func(in *RegisterInput) { in.LastName = "" }},
		{"no email", func(in *RegisterInput) { in.Email = "" }},
		{"no password", func(in *RegisterInput) { in.Password = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			_, _, err := svc.RegisterUser(context.Background(), in)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrRequiredFields)
		})
	}
}

func TestRegisterUser_EmailTaken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).
		Return(storage.ErrAlreadyExists)

	_, _, err := svc.RegisterUser(context.Background(), validInput())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterUser_StorageError_Propagated(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).
		Return(errors.New("insert failed"))

	_, _, err := svc.RegisterUser(context.Background(), validInput())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrEmailTaken)
}

func TestLoginUser_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	hash := mustHashPW(t, "secret123")
	stored := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").Return(stored, nil)

	user, pair, err := svc.LoginUser(context.Background(), " User@Example.com ", "secret123")
	require.NoError(t, err)
	require.Equal(t, stored.ID, user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
}

func TestLoginUser_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "ghost@example.com").
		Return(nil, storage.ErrNotFound)

	_, _, err := svc.LoginUser(context.Background(), "ghost@example.com", "whatever")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	stored := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: mustHashPW(t, "right-password"),
	}
	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").Return(stored, nil)

	// Неверный пароль и неизвестный email неразличимы по ошибке.
	_, _, err := svc.LoginUser(context.Background(), "user@example.com", "wrong-password")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUser_EmptyCredentials(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, _, err := svc.LoginUser(context.Background(), "", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.LoginUser(context.Background(), "user@example.com", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUser_StorageError_Propagated(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(nil, errors.New("db down"))

	_, _, err := svc.LoginUser(context.Background(), "user@example.com", "pw")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokens_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{
		ID:    uuid.New(),
		Email: "user@example.com",
		Role:  models.RoleUser,
	}

	refresh, err := svc.generateRefreshToken(context.Background(), user, time.Now().UTC())
	require.NoError(t, err)

	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)

	got, pair, err := svc.RefreshTokens(context.Background(), refresh)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// Новый access-токен валиден и несёт роль из хранилища.
	uid, role, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, uid)
	require.Equal(t, models.RoleUser, role)
}

func TestRefreshTokens_InvalidToken(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, _, err := svc.RefreshTokens(context.Background(), "not-a-jwt")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokens_UserGone(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New(), Email: "user@example.com"}
	refresh, err := svc.generateRefreshToken(context.Background(), user, time.Now().UTC())
	require.NoError(t, err)

	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(nil, storage.ErrNotFound)

	_, _, err = svc.RefreshTokens(context.Background(), refresh)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUserNotFound)
}
