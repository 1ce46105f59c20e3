package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"atelier/internal/auth"
	"atelier/internal/authz"
	"atelier/internal/domain/model"
	"atelier/internal/middleware"
	"atelier/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// UserRepository モック
// =====================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) IncrementTokenVersion(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

// =====================
// helper
// =====================

const secret = "test-secret"

func issue(t *testing.T, u model.User) string {
	t.Helper()
	raw, _, err := auth.NewTokenManager(secret, time.Hour).Issue(u, time.Now())
	require.NoError(t, err)
	return raw
}

type reqOpt func(r *http.Request)

func withCookie(token string) reqOpt {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
}

func withBearer(token string) reqOpt {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func run(e *echo.Echo, method, path string, opts ...reqOpt) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(rec.Body).Decode(&body)
	return body.Error
}

func okHandler(c echo.Context) error {
	uid, _ := c.Get(middleware.CtxUserIDKey).(string)
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return c.JSON(http.StatusOK, map[string]string{"user_id": uid, "role": role})
}

// =====================
// AuthJWT
// =====================

func TestAuthJWT_NoToken(t *testing.T) {
	e := echo.New()
	e.GET("/p", okHandler, middleware.AuthJWT(auth.NewTokenManager(secret, time.Hour)))

	rec := run(e, http.MethodGet, "/p")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorOf(t, rec))
}

func TestAuthJWT_BadSignature(t *testing.T) {
	e := echo.New()
	e.GET("/p", okHandler, middleware.AuthJWT(auth.NewTokenManager("other", time.Hour)))

	rec := run(e, http.MethodGet, "/p", withCookie(issue(t, model.User{ID: "u-1", Role: model.RoleUser})))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_CookieSetsContext(t *testing.T) {
	e := echo.New()
	e.GET("/p", okHandler, middleware.AuthJWT(auth.NewTokenManager(secret, time.Hour)))

	rec := run(e, http.MethodGet, "/p", withCookie(issue(t, model.User{ID: "u-1", Role: model.RoleUser})))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"u-1","role":"USER"}`, rec.Body.String())
}

func TestAuthJWT_BearerFallback(t *testing.T) {
	e := echo.New()
	e.GET("/p", okHandler, middleware.AuthJWT(auth.NewTokenManager(secret, time.Hour)))

	rec := run(e, http.MethodGet, "/p", withBearer(issue(t, model.User{ID: "u-2", Role: model.RoleAdmin})))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"u-2","role":"ADMIN"}`, rec.Body.String())
}

// =====================
// TokenVersionGuard
// =====================

func guarded(users repository.UserRepository) *echo.Echo {
	e := echo.New()
	e.GET("/p", func(c echo.Context) error {
		u, ok := c.Get(middleware.CtxUserKey).(model.User)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, map[string]string{"email": u.Email})
	}, middleware.AuthJWT(auth.NewTokenManager(secret, time.Hour)), middleware.TokenVersionGuard(users))
	return e
}

func TestTokenVersionGuard_MissingContext(t *testing.T) {
	e := echo.New()
	e.GET("/p", okHandler, middleware.TokenVersionGuard(new(mockUserRepo)))

	rec := run(e, http.MethodGet, "/p")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenVersionGuard_VersionMismatch(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, "u-1").Return(&model.User{
		ID: "u-1", Email: "a@shop.in", Role: model.RoleUser, TokenVersion: 1, IsActive: true,
	}, nil)

	rec := run(guarded(users), http.MethodGet, "/p", withCookie(issue(t, model.User{ID: "u-1", Role: model.RoleUser, TokenVersion: 0})))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	users.AssertExpectations(t)
}

func TestTokenVersionGuard_InactiveUser(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, "u-1").Return(&model.User{
		ID: "u-1", Email: "a@shop.in", Role: model.RoleUser, IsActive: false,
	}, nil)

	rec := run(guarded(users), http.MethodGet, "/p", withCookie(issue(t, model.User{ID: "u-1", Role: model.RoleUser})))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenVersionGuard_UnknownUser(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, "u-1").Return(nil, repository.ErrUserNotFound)

	rec := run(guarded(users), http.MethodGet, "/p", withCookie(issue(t, model.User{ID: "u-1", Role: model.RoleUser})))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenVersionGuard_Success(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, "u-1").Return(&model.User{
		ID: "u-1", Email: "a@shop.in", Role: model.RoleUser, TokenVersion: 2, IsActive: true,
	}, nil)

	rec := run(guarded(users), http.MethodGet, "/p", withCookie(issue(t, model.User{ID: "u-1", Role: model.RoleUser, TokenVersion: 2})))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"a@shop.in"}`, rec.Body.String())
}

// =====================
// Authorize（casbin）
// =====================

func TestAuthorize(t *testing.T) {
	enf, err := authz.New()
	require.NoError(t, err)

	setRole := func(role string) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if role != "" {
					c.Set(middleware.CtxUserRoleKey, role)
				}
				return next(c)
			}
		}
	}

	cases := []struct {
		name string
		role string
		want int
	}{
		{"admin", "ADMIN", http.StatusOK},
		{"user", "USER", http.StatusForbidden},
		{"no role", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/admin/orders", okHandler, setRole(tc.role), middleware.Authorize(enf, logrus.New()))

			rec := run(e, http.MethodGet, "/admin/orders")
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

// =====================
// RequestLogger
// =====================

func TestRequestLogger_WritesFieldsAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	e := echo.New()
	e.Use(middleware.RequestLogger(log))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	rec := run(e, http.MethodGet, "/ping")

	require.Equal(t, http.StatusOK, rec.Code)
	reqID := rec.Header().Get(middleware.HeaderRequestID)
	assert.NotEmpty(t, reqID)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/ping", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, reqID, entry["request_id"])
}

func TestRequestLogger_KeepsIncomingRequestID(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	e := echo.New()
	e.Use(middleware.RequestLogger(log))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := run(e, http.MethodGet, "/ping", func(r *http.Request) { r.Header.Set(middleware.HeaderRequestID, "abc") })

	assert.Equal(t, "abc", rec.Header().Get(middleware.HeaderRequestID))
}
