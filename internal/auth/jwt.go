package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const identityKey = "identity"

// Identity is the auth signal consumed by the cart session and handlers.
// A request without a valid bearer token runs as the guest identity.
type Identity struct {
	UserID        string
	Role          string
	Email         string
	Authenticated bool
}

// Middleware resolves the request identity from a Bearer token. Tokens are
// minted by the auth service; invalid or absent tokens degrade to guest
// rather than failing the request.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			if ident, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer ")); err == nil {
				c.Set(identityKey, ident)
			}
		}
		c.Next()
	}
}

// RequireAuth aborts requests that did not present a valid token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := CurrentIdentity(c)
		if !ident.Authenticated || ident.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if ident, ok := v.(Identity); ok {
			return ident
		}
	}
	return Identity{}
}

func ParseToken(secret, tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, errors.New("token has no subject")
	}
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	return Identity{UserID: sub, Role: role, Email: email, Authenticated: true}, nil
}

// SignToken mints a token for tools and tests.
func SignToken(secret, userID, role, email string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"role":  role,
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}
