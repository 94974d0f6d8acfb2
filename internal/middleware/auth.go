package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"eventhub/internal/authz"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SignInPath       = "/sign-in"
	NoPermissionPath = "/no-permission"
)

// JWTAuthMiddleware validates the Authorization: Bearer header and
// stores the caller's id and authorization subject in the context.
// Anonymous or invalid callers are redirected to the sign-in page; no
// next-url is propagated.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()
			return
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()
			return
		}

		superuser, _ := claims["superuser"].(bool)
		var roles []string
		if rawRoles, ok := claims["roles"].([]interface{}); ok {
			for _, r := range rawRoles {
				if name, ok := r.(string); ok {
					roles = append(roles, name)
				}
			}
		}

		c.Set("user_id", userID)
		c.Set("subject", &authz.Subject{Superuser: superuser, Roles: roles})
		c.Next()
	}
}

func CurrentSubject(c *gin.Context) *authz.Subject {
	raw, exists := c.Get("subject")
	if !exists {
		return nil
	}
	subject, _ := raw.(*authz.Subject)
	return subject
}

// RequireRoles gates a route on the role set. Runs after
// JWTAuthMiddleware; the admission rule itself lives in authz.Check.
func RequireRoles(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch authz.Check(CurrentSubject(c), required...) {
		case authz.Allowed:
			c.Next()
		case authz.DeniedSignIn:
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()
		case authz.DeniedNoPermission:
			c.Redirect(http.StatusFound, NoPermissionPath)
			c.Abort()
		}
	}
}
