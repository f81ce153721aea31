package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seid21/topia-estate-be/internal/models"
)

func testUser() models.User {
	return models.User{ID: "11111111-2222-3333-4444-555555555555", Role: models.RoleSeller}
}

func TestGenerateAndValidateToken(t *testing.T) {
	req := require.New(t)
	a := New("test-secret", time.Hour)

	token, err := a.GenerateToken(testUser())
	req.NoError(err)

	claims, err := a.ValidateToken(token)
	req.NoError(err)
	req.Equal("11111111-2222-3333-4444-555555555555", claims.UserID)
	req.Equal(models.RoleSeller, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	req := require.New(t)
	a := New("test-secret", time.Hour)
	other := New("other-secret", time.Hour)

	token, err := a.GenerateToken(testUser())
	req.NoError(err)

	_, err = other.ValidateToken(token)
	req.Error(err)
}

func TestValidateTokenExpired(t *testing.T) {
	req := require.New(t)
	a := New("test-secret", -time.Minute)

	token, err := a.GenerateToken(testUser())
	req.NoError(err)

	_, err = a.ValidateToken(token)
	req.Error(err)
}

func TestMiddleware(t *testing.T) {
	req := require.New(t)
	a := New("test-secret", time.Hour)

	var gotClaims *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := a.Middleware()(next)

	// No credentials at all.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	req.Equal(http.StatusUnauthorized, rec.Code)

	// Garbage token.
	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer not.a.token")
	protected.ServeHTTP(rec, r)
	req.Equal(http.StatusUnauthorized, rec.Code)

	// Valid bearer header.
	token, err := a.GenerateToken(testUser())
	req.NoError(err)
	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	protected.ServeHTTP(rec, r)
	req.Equal(http.StatusOK, rec.Code)
	req.NotNil(gotClaims)
	req.Equal(models.RoleSeller, gotClaims.Role)

	// Cookie fallback.
	gotClaims = nil
	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: token})
	protected.ServeHTTP(rec, r)
	req.Equal(http.StatusOK, rec.Code)
	req.NotNil(gotClaims)
}

func TestRequireRole(t *testing.T) {
	req := require.New(t)
	a := New("test-secret", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	adminOnly := a.Middleware()(RequireRole(models.RoleAdmin)(next))

	token, err := a.GenerateToken(testUser()) // seller
	req.NoError(err)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	adminOnly.ServeHTTP(rec, r)
	req.Equal(http.StatusForbidden, rec.Code)

	admin, err := a.GenerateToken(models.User{ID: "99999999-8888-7777-6666-555555555555", Role: models.RoleAdmin})
	req.NoError(err)
	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+admin)
	adminOnly.ServeHTTP(rec, r)
	req.Equal(http.StatusOK, rec.Code)
}
