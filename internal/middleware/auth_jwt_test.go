package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sweetshop/internal/config"
	"sweetshop/internal/domain/model"
	"sweetshop/internal/middleware"
	"sweetshop/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

// =====================
// helper
// =====================

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test_secret",
		JWTAlgorithm:   "HS256",
		AccessTokenTTL: 30 * time.Minute,
	}
}

func mustMakeJWT(t *testing.T, method jwt.SigningMethod, secret, sub string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// AuthJWT → CurrentUser を通すテスト用サーバー。
func setupProtected(userRepo repository.UserRepository, adminOnly bool) *echo.Echo {
	cfg := testConfig()
	e := echo.New()

	mws := []echo.MiddlewareFunc{middleware.AuthJWT(cfg), middleware.CurrentUser(userRepo)}
	if adminOnly {
		mws = append(mws, middleware.AdminRoleGuard())
	}

	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"username": c.Get(middleware.CtxUsernameKey),
			"user_id":  c.Get(middleware.CtxUserIDKey),
			"is_admin": c.Get(middleware.CtxIsAdminKey),
		})
	}, mws...)

	return e
}

func doGet(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// =====================
// AuthJWT
// =====================

func TestAuthJWT_MissingHeader(t *testing.T) {
	e := setupProtected(new(MockUserRepository), false)

	rec := doGet(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not validate credentials")
}

func TestAuthJWT_MalformedHeader(t *testing.T) {
	e := setupProtected(new(MockUserRepository), false)

	for _, authz := range []string{"Basic abc123", "Bearer", "Bearer "} {
		rec := doGet(e, authz)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "authz=%q", authz)
	}
}

func TestAuthJWT_InvalidSignature(t *testing.T) {
	e := setupProtected(new(MockUserRepository), false)

	token := mustMakeJWT(t, jwt.SigningMethodHS256, "wrong_secret", "testuser", time.Minute)
	rec := doGet(e, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongAlgorithm(t *testing.T) {
	e := setupProtected(new(MockUserRepository), false)

	//HS512で署名したトークンはHS256設定では拒否
	token := mustMakeJWT(t, jwt.SigningMethodHS512, "test_secret", "testuser", time.Minute)
	rec := doGet(e, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	e := setupProtected(new(MockUserRepository), false)

	token := mustMakeJWT(t, jwt.SigningMethodHS256, "test_secret", "testuser", -time.Minute)
	rec := doGet(e, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =====================
// CurrentUser
// =====================

func TestCurrentUser_Success(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "testuser").Return(&model.User{
		ID:       42,
		Username: "testuser",
		IsAdmin:  false,
	}, nil)

	e := setupProtected(users, false)

	token := mustMakeJWT(t, jwt.SigningMethodHS256, "test_secret", "testuser", time.Minute)
	rec := doGet(e, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"testuser"`)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
}

func TestCurrentUser_DeletedUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)

	e := setupProtected(users, false)

	//署名は正しいがユーザーはもう存在しない
	token := mustMakeJWT(t, jwt.SigningMethodHS256, "test_secret", "ghost", time.Minute)
	rec := doGet(e, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not validate credentials")
}

// =====================
// AdminRoleGuard
// =====================

func TestAdminRoleGuard_NonAdmin(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "testuser").Return(&model.User{
		ID:       1,
		Username: "testuser",
		IsAdmin:  false,
	}, nil)

	e := setupProtected(users, true)

	token := mustMakeJWT(t, jwt.SigningMethodHS256, "test_secret", "testuser", time.Minute)
	rec := doGet(e, "Bearer "+token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not enough permissions")
}

func TestAdminRoleGuard_Admin(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "admin").Return(&model.User{
		ID:       1,
		Username: "admin",
		IsAdmin:  true,
	}, nil)

	e := setupProtected(users, true)

	token := mustMakeJWT(t, jwt.SigningMethodHS256, "test_secret", "admin", time.Minute)
	rec := doGet(e, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_admin":true`)
}
