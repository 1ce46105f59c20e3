package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"atelier/internal/auth"
	"atelier/internal/authz"
	"atelier/internal/domain/model"
	"atelier/internal/handler"
	"atelier/internal/logger"
	"atelier/internal/realtime"
	"atelier/internal/repository"
	"atelier/internal/server"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userStore map[string]*model.User

func (s userStore) Create(context.Context, *model.User) error { return nil }
func (s userStore) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}
func (s userStore) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}
func (s userStore) Update(context.Context, *model.User) error           { return nil }
func (s userStore) IncrementTokenVersion(context.Context, string) error { return nil }

type fixture struct {
	e      *echo.Echo
	tokens *auth.TokenManager
	users  userStore
}

// usecaseはnil。ハンドラに届く前に返るケースだけを見る
func newFixture(t *testing.T) fixture {
	t.Helper()

	enforcer, err := authz.New()
	require.NoError(t, err)

	log := logger.Discard()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	users := userStore{
		"u-1": {ID: "u-1", Email: "asha@gmail.com", Role: model.RoleUser, IsActive: true},
		"a-1": {ID: "a-1", Email: "ops@atelier.in", Role: model.RoleAdmin, IsActive: true},
	}

	h := server.Handlers{
		Auth:         handler.NewAuthHandler(nil, false),
		Product:      handler.NewProductHandler(nil, nil),
		Order:        handler.NewOrderHandler(nil),
		Cart:         handler.NewCartHandler(nil),
		Address:      handler.NewAddressHandler(nil),
		AdminOrder:   handler.NewAdminOrderHandler(nil),
		AdminProduct: handler.NewAdminProductHandler(nil, nil),
		AdminUser:    handler.NewAdminUserHandler(nil),
		Hub:          realtime.NewHub("", log),
	}
	g := server.Guards{Tokens: tokens, Users: users, Authz: enforcer, Log: log}

	return fixture{e: server.New("http://localhost:3000", h, g), tokens: tokens, users: users}
}

func (f fixture) do(t *testing.T, method, target, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if userID != "" {
		tok, _, err := f.tokens.Issue(*f.users[userID], time.Now())
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tok})
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	f := newFixture(t)

	// ハンドラまで届いてクエリ検証で400になる
	rec := f.do(t, http.MethodGet, "/api/products?page=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrdersRequireToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/orders", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/orders", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRejectsShopper(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/admin/orders", "u-1")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/admin/custom-orders", "u-1")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminReachesHandler(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/admin/orders?from=yesterday", "a-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	tok, _, err := f.tokens.Issue(*f.users["u-1"], time.Now())
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tok})

	// 強制ログアウト後
	f.users["u-1"].TokenVersion++

	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSAllowsFrontend(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestStartStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- server.Start(ctx, f.e, "127.0.0.1:0", logger.Discard()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
