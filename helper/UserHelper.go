package helper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"stackit/models"
)

var ErrUserNotFound = errors.New("user not found")

func GetUserByEmail(ctx context.Context, users *mongo.Collection, email string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user models.User
	err := users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func GetUserByID(ctx context.Context, users *mongo.Collection, id primitive.ObjectID) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user models.User
	err := users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// CurrentUser pulls the authenticated user placed in the context by the auth
// middleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// BaseUsername derives the username candidate from the email's local part.
func BaseUsername(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return strings.ToLower(local)
}

// NextUsername walks base, base1, base2, ... until taken reports the candidate
// free. The loop is sequential; two racing registrations may claim the same
// candidate, and the unique index on username settles the loser.
func NextUsername(base string, taken func(string) (bool, error)) (string, error) {
	candidate := base
	for counter := 1; ; counter++ {
		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, counter)
	}
}

// UniqueUsername assigns the first free username derived from email.
func UniqueUsername(ctx context.Context, users *mongo.Collection, email string) (string, error) {
	return NextUsername(BaseUsername(email), func(candidate string) (bool, error) {
		count, err := users.CountDocuments(ctx, bson.M{"username": candidate})
		return count > 0, err
	})
}
