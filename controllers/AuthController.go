package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"stackit/helper"
	"stackit/models"
)

var validate = validator.New()

const sessionLifetime = 30 * 24 * time.Hour

type AuthController struct {
	users  *mongo.Collection
	mailer *helper.Mailer
	secret []byte
	log    zerolog.Logger
}

func NewAuthController(users *mongo.Collection, mailer *helper.Mailer, secret []byte, log zerolog.Logger) *AuthController {
	return &AuthController{users: users, mailer: mailer, secret: secret, log: log}
}

type registerInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates an account. The username is derived from the email's
// local part, suffixed with the first free counter when taken.
func (ac *AuthController) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if err := validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if count, err := ac.users.CountDocuments(ctx, bson.M{"email": input.Email}); err != nil {
		ac.log.Error().Err(err).Msg("registration lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	} else if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
		return
	}

	username, err := helper.UniqueUsername(ctx, ac.users, input.Email)
	if err != nil {
		ac.log.Error().Err(err).Msg("username assignment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	user := models.User{
		ID:              primitive.NewObjectID(),
		Name:            input.Name,
		Username:        username,
		Email:           input.Email,
		Password:        string(hashed),
		Role:            "user",
		ViewedQuestions: []primitive.ObjectID{},
		CreatedAt:       time.Now(),
	}

	if _, err := ac.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
			return
		}
		ac.log.Error().Err(err).Msg("registration insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user.Sanitized()})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email or Password is empty"})
		return
	}

	user, err := helper.GetUserByEmail(c.Request.Context(), ac.users, strings.ToLower(input.Email))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user does not exist"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid password"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.Email,
		"exp": time.Now().Add(sessionLifetime).Unix(),
	})
	tokenString, err := token.SignedString(ac.secret)
	if err != nil {
		ac.log.Error().Err(err).Msg("failed to sign session token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", tokenString, int(sessionLifetime.Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"message": "Logged in successfully", "user": user.Sanitized()})
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (ac *AuthController) Validate(c *gin.Context) {
	user, ok := helper.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Sanitized()})
}

// SendVerification issues a fresh 24h verification token and mails it.
func (ac *AuthController) SendVerification(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	if user.EmailVerified != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already verified"})
		return
	}

	token := helper.NewVerificationToken()
	expiresAt := time.Now().Add(24 * time.Hour)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	_, err := ac.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"emailVerificationToken":   token,
		"emailVerificationExpires": expiresAt,
	}})
	if err != nil {
		ac.log.Error().Err(err).Msg("failed to store verification token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	if err := ac.mailer.SendVerification(user.Email, user.Name, token); err != nil {
		ac.log.Error().Err(err).Str("user", user.ID.Hex()).Msg("failed to send verification email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent successfully", "expiresAt": expiresAt})
}

// VerifyEmail consumes an unexpired token and marks the address verified.
func (ac *AuthController) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	result, err := ac.users.UpdateOne(ctx,
		bson.M{
			"emailVerificationToken":   token,
			"emailVerificationExpires": bson.M{"$gt": now},
		},
		bson.M{
			"$set":   bson.M{"emailVerified": now},
			"$unset": bson.M{"emailVerificationToken": "", "emailVerificationExpires": ""},
		})
	if err != nil {
		ac.log.Error().Err(err).Msg("email verification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}
