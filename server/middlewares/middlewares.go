package middlewares

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const tokenLifetime = 24 * time.Hour

func secret() []byte {
	return []byte(os.Getenv("MARKETLOOP_JWT_SECRET"))
}

// JWT middleware fetches the bearer token from the Authorization
// header, validates it, and stamps the acting username into the request
// header field "sub". Handlers read the acting user from there and pass
// it down explicitly. It rejects on a missing or invalid token.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret(), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}

		// Successfully validated the token, stamp the acting username
		// into the header field "sub".
		c.Request.Header.Del("sub")
		c.Request.Header.Add("sub", sub)

		c.Next()
	}
}

// IssueToken signs a bearer token for the given username.
func IssueToken(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	})
	return token.SignedString(secret())
}

// ActingUser returns the authenticated username stamped by JWT, or ""
// for an unauthenticated request.
func ActingUser(c *gin.Context) string {
	return c.Request.Header.Get("sub")
}
