package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testJWTSecret = "test-secret"

func signTestToken(t *testing.T, sub, name, email string) string {
	t.Helper()

	claims := JWTClaims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	assert.NoError(t, err)
	return token
}

func setupIdentityRouter(requireUser bool) *gin.Engine {
	router := setupTestRouter()
	identity := NewIdentityMiddleware(testJWTSecret)

	handlers := []gin.HandlerFunc{identity.Identify()}
	if requireUser {
		handlers = append(handlers, identity.RequireUser())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"owner": ownerID(c),
			"name":  c.GetString(ctxUserName),
		})
	})

	router.GET("/whoami", handlers...)
	return router
}

func TestIdentify_ValidTokenYieldsUserIdentity(t *testing.T) {
	router := setupIdentityRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "42", "Иван", "ivan@example.com"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"owner":"user:42"`)
	assert.Contains(t, w.Body.String(), `"name":"Иван"`)
}

func TestIdentify_SessionHeaderYieldsGuestIdentity(t *testing.T) {
	router := setupIdentityRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Session-ID", "abc-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"owner":"guest:abc-123"`)
	assert.Equal(t, "abc-123", w.Header().Get("X-Session-ID"))
}

func TestIdentify_MissingSessionMintedAndEchoed(t *testing.T) {
	router := setupIdentityRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Session-ID"))
	assert.Contains(t, w.Body.String(), `"owner":"guest:`)
}

func TestIdentify_InvalidTokenFallsBackToGuest(t *testing.T) {
	router := setupIdentityRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	req.Header.Set("X-Session-ID", "abc-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"owner":"guest:abc-123"`)
}

func TestRequireUser_BlocksGuests(t *testing.T) {
	router := setupIdentityRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Session-ID", "abc-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_AllowsAuthenticated(t *testing.T) {
	router := setupIdentityRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "42", "Иван", ""))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
