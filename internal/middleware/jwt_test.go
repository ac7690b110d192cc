package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-adp-api/internal/models"
	"github.com/noah-isme/tutor-adp-api/internal/service"
)

const testSecret = "test_secret"

func testAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, service.AuthConfig{
		Secret:     testSecret,
		Expiration: time.Hour,
	})
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: "user-1",
		Email:  "admin@example.com",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func runJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students", nil)
	if authorization != "" {
		c.Request.Header.Set("Authorization", authorization)
	}

	reached := false
	JWT(testAuthService())(c)
	if !c.IsAborted() {
		reached = true
	}
	return rec, reached
}

func TestJWTMissingHeader(t *testing.T) {
	rec, reached := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestJWTMalformedHeader(t *testing.T) {
	rec, reached := runJWT(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestJWTExpiredToken(t *testing.T) {
	token := signedToken(t, time.Now().Add(-time.Hour))
	rec, reached := runJWT(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestJWTValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students", nil)
	c.Request.Header.Set("Authorization", "Bearer "+signedToken(t, time.Now().Add(time.Hour)))

	JWT(testAuthService())(c)

	require.False(t, c.IsAborted())
	value, exists := c.Get(ContextUserKey)
	require.True(t, exists)
	claims := value.(*models.JWTClaims)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestRequireRolesBlocksOtherRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/settlements", nil)
	c.Set(ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleStaff})

	RequireRoles(models.RoleAdmin)(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.True(t, c.IsAborted())
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/settlements", nil)
	c.Set(ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleAdmin})

	RequireRoles(models.RoleAdmin, models.RoleStaff)(c)

	assert.False(t, c.IsAborted())
}
