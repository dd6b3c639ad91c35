package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionHeader = "X-Session-ID"

	ctxOwnerID       = "owner_id"
	ctxAuthenticated = "authenticated"
	ctxUserName      = "user_name"
	ctxUserEmail     = "user_email"
)

// JWTClaims структура claims для JWT токена
type JWTClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IdentityMiddleware определяет владельца корзины и заказов.
// Авторизованный пользователь опознается по Bearer токену, гость по заголовку
// сессии. Обе идентичности равноправны для корзины и заказов.
type IdentityMiddleware struct {
	jwtSecret string
}

// NewIdentityMiddleware создает новый middleware идентичности
func NewIdentityMiddleware(jwtSecret string) *IdentityMiddleware {
	return &IdentityMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Identify устанавливает owner_id в контекст Gin: "user:<sub>" для валидного
// токена, иначе "guest:<uuid>" по заголовку сессии. Отсутствующая сессия
// создается и возвращается клиенту в том же заголовке.
func (m *IdentityMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := m.parseToken(c.GetHeader("Authorization")); ok {
			c.Set(ctxOwnerID, "user:"+claims.Subject)
			c.Set(ctxAuthenticated, true)
			c.Set(ctxUserName, claims.Name)
			c.Set(ctxUserEmail, claims.Email)
			c.Next()
			return
		}

		session := c.GetHeader(sessionHeader)
		if session == "" {
			session = uuid.NewString()
		}
		c.Header(sessionHeader, session)

		c.Set(ctxOwnerID, "guest:"+session)
		c.Set(ctxAuthenticated, false)
		c.Next()
	}
}

// RequireUser пропускает только авторизованных пользователей
func (m *IdentityMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *IdentityMiddleware) parseToken(authHeader string) (*JWTClaims, bool) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.Subject == "" {
		return nil, false
	}

	return claims, true
}

func ownerID(c *gin.Context) string {
	return c.GetString(ctxOwnerID)
}
