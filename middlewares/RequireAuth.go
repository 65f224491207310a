package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"stackit/helper"
	"stackit/models"
)

// RequireAuth validates the session cookie, loads the account it names and
// stores it under "user" in the gin context. Requests without a valid
// session are rejected with 401.
func RequireAuth(users *mongo.Collection, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := sessionUser(c, users, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuth is RequireAuth for public reads: a valid session attaches the
// user, anything else passes through anonymously.
func OptionalAuth(users *mongo.Collection, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := sessionUser(c, users, secret); err == nil {
			c.Set("user", user)
		}
		c.Next()
	}
}

func sessionUser(c *gin.Context, users *mongo.Collection, secret []byte) (models.User, error) {
	tokenString, err := c.Cookie("token")
	if err != nil || tokenString == "" {
		return models.User{}, fmt.Errorf("missing session cookie")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return models.User{}, fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.User{}, fmt.Errorf("unexpected claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok || float64(time.Now().Unix()) > exp {
		return models.User{}, fmt.Errorf("session expired")
	}

	email, ok := claims["sub"].(string)
	if !ok {
		return models.User{}, fmt.Errorf("missing subject claim")
	}

	return helper.GetUserByEmail(c.Request.Context(), users, email)
}
