package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID                       primitive.ObjectID   `json:"_id" bson:"_id"`
	Name                     string               `json:"name" bson:"name" validate:"required,max=50"`
	Username                 string               `json:"username" bson:"username"`
	Email                    string               `json:"email" bson:"email" validate:"required,email"`
	Password                 string               `json:"password,omitempty" bson:"password"`
	Bio                      string               `json:"bio" bson:"bio"`
	Image                    string               `json:"image" bson:"image"`
	Role                     string               `json:"role" bson:"role"`
	EmailVerified            *time.Time           `json:"emailVerified,omitempty" bson:"emailVerified,omitempty"`
	EmailVerificationToken   string               `json:"-" bson:"emailVerificationToken,omitempty"`
	EmailVerificationExpires *time.Time           `json:"-" bson:"emailVerificationExpires,omitempty"`
	ViewedQuestions          []primitive.ObjectID `json:"viewedQuestions" bson:"viewedQuestions"`
	CreatedAt                time.Time            `json:"createdAt" bson:"createdAt"`
}

func (u *User) HasViewed(questionID primitive.ObjectID) bool {
	return contains(u.ViewedQuestions, questionID)
}

// Sanitized returns a copy safe to hand to clients.
func (u User) Sanitized() User {
	u.Password = ""
	u.EmailVerificationToken = ""
	u.EmailVerificationExpires = nil
	return u
}

// PublicUser is the subset exposed on search results and public profiles.
type PublicUser struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Username  string             `json:"username" bson:"username"`
	Name      string             `json:"name" bson:"name"`
	Bio       string             `json:"bio" bson:"bio"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
