package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pywhiz/internal/config"
	"pywhiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "testsecretkeydontuseinproduction32bytes!",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		GoogleOAuth: config.GoogleOAuthConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost:8090/api/auth/google/callback",
		},
	}
}

func newTestAuthService(t *testing.T, users *MockUserRepository) *authServiceImpl {
	t.Helper()
	svc, err := NewAuthService(users, testAuthConfig())
	require.NoError(t, err)
	return svc.(*authServiceImpl)
}

func TestNewAuthService_RejectsShortSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWT.SecretKey = "short"
	_, err := NewAuthService(new(MockUserRepository), cfg)
	assert.Error(t, err)
}

func TestAuthService_GetGoogleLoginURL(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepository))
	url := svc.GetGoogleLoginURL("state-123")
	assert.Contains(t, url, "state=state-123")
	assert.Contains(t, url, "client_id=client-id")
}

func TestAuthService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepository))
	ctx := context.Background()
	user := &domain.User{ID: "user123"}

	access, err := svc.CreateJWT(ctx, user, time.Minute, tokenTypeAccess)
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)

	refresh, err := svc.CreateJWT(ctx, user, time.Minute, tokenTypeRefresh)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, refresh)
	assert.True(t, domain.HasCode(err, domain.CodeUnauthorized))
}

func TestAuthService_ValidateJWT_Rejects(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepository))
	ctx := context.Background()

	expired, err := svc.CreateJWT(ctx, &domain.User{ID: "user123"}, -time.Minute, tokenTypeAccess)
	require.NoError(t, err)

	other := newTestAuthService(t, new(MockUserRepository))
	other.jwtConfig.SecretKey = "another-secret-that-is-32-bytes-long!!"
	foreign, err := other.CreateJWT(ctx, &domain.User{ID: "user123"}, time.Minute, tokenTypeAccess)
	require.NoError(t, err)

	for name, tok := range map[string]string{"expired": expired, "wrong key": foreign, "garbage": "not.a.jwt"} {
		_, err := svc.ValidateJWT(ctx, tok)
		assert.True(t, domain.HasCode(err, domain.CodeUnauthorized), name)
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(t, users)
	ctx := context.Background()
	user := &domain.User{ID: "user123"}
	users.On("GetUserByID", mock.Anything, "user123").Return(user, nil)

	refresh, err := svc.CreateJWT(ctx, user, time.Hour, tokenTypeRefresh)
	require.NoError(t, err)

	access, newRefresh, err := svc.RefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEqual(t, refresh, newRefresh)

	_, err = svc.ValidateAccessToken(ctx, access)
	assert.NoError(t, err)
}

func TestAuthService_RefreshToken_Rejects(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(t, users)
	ctx := context.Background()
	users.On("GetUserByID", mock.Anything, "ghost").Return(nil, nil)
	users.On("GetUserByID", mock.Anything, "broken").Return(nil, errors.New("db down"))

	access, _ := svc.CreateJWT(ctx, &domain.User{ID: "ghost"}, time.Hour, tokenTypeAccess)
	_, _, err := svc.RefreshToken(ctx, access)
	assert.True(t, domain.HasCode(err, domain.CodeUnauthorized), "access token used as refresh token")

	ghost, _ := svc.CreateJWT(ctx, &domain.User{ID: "ghost"}, time.Hour, tokenTypeRefresh)
	_, _, err = svc.RefreshToken(ctx, ghost)
	assert.True(t, domain.HasCode(err, domain.CodeUnauthorized), "deleted user")

	broken, _ := svc.CreateJWT(ctx, &domain.User{ID: "broken"}, time.Hour, tokenTypeRefresh)
	_, _, err = svc.RefreshToken(ctx, broken)
	assert.True(t, domain.HasCode(err, domain.CodeInternal))
}

func TestAuthService_HandleGoogleCallback_StateMismatch(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(t, users)

	_, _, _, err := svc.HandleGoogleCallback(context.Background(), "code", "received", "expected")
	assert.True(t, domain.HasCode(err, domain.CodeUnauthorized))
	assert.ErrorIs(t, err, ErrInvalidAuthState)
	users.AssertNotCalled(t, "GetUserByGoogleID", mock.Anything, mock.Anything)
}

func newFakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "google-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer google-access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "g-42",
			"email":   "ada@example.com",
			"name":    "Ada",
			"picture": "https://example.com/ada.png",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthService_HandleGoogleCallback_CreatesUser(t *testing.T) {
	srv := newFakeGoogle(t)
	users := new(MockUserRepository)
	svc := newTestAuthService(t, users)
	svc.oauth2Config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	svc.userInfoURL = srv.URL + "/userinfo"

	users.On("GetUserByGoogleID", mock.Anything, "g-42").Return(nil, nil)
	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.GoogleID == "g-42" && u.Email == "ada@example.com" && u.Name == "Ada" && len(u.ID) == 26
	})).Return(nil)

	access, refresh, user, err := svc.HandleGoogleCallback(context.Background(), "auth-code", "s1", "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, "ada@example.com", user.Email)

	claims, err := svc.ValidateAccessToken(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	users.AssertExpectations(t)
}

func TestAuthService_HandleGoogleCallback_UpdatesExistingUser(t *testing.T) {
	srv := newFakeGoogle(t)
	users := new(MockUserRepository)
	svc := newTestAuthService(t, users)
	svc.oauth2Config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	svc.userInfoURL = srv.URL + "/userinfo"

	existing := &domain.User{ID: "01HZZZZZZZZZZZZZZZZZZZZZZZ", GoogleID: "g-42", Email: "old@example.com"}
	users.On("GetUserByGoogleID", mock.Anything, "g-42").Return(existing, nil)
	users.On("UpdateUser", mock.Anything, existing).Return(nil)

	_, _, user, err := svc.HandleGoogleCallback(context.Background(), "auth-code", "s1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestAuthService_HandleGoogleCallback_CreateUserFails(t *testing.T) {
	srv := newFakeGoogle(t)
	users := new(MockUserRepository)
	svc := newTestAuthService(t, users)
	svc.oauth2Config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	svc.userInfoURL = srv.URL + "/userinfo"

	users.On("GetUserByGoogleID", mock.Anything, "g-42").Return(nil, nil)
	users.On("CreateUser", mock.Anything, mock.Anything).Return(errors.New("unique violation"))

	_, _, _, err := svc.HandleGoogleCallback(context.Background(), "auth-code", "s1", "s1")
	assert.True(t, domain.HasCode(err, domain.CodeInternal))
}
