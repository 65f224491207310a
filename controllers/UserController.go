package controllers

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stackit/helper"
	"stackit/models"
)

type UserController struct {
	users     *mongo.Collection
	questions *mongo.Collection
	log       zerolog.Logger
}

func NewUserController(users, questions *mongo.Collection, log zerolog.Logger) *UserController {
	return &UserController{users: users, questions: questions, log: log}
}

// Search matches usernames case-insensitively, excluding the caller.
func (uc *UserController) Search(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	query := strings.TrimSpace(c.Query("q"))
	page, limit := helper.PageParams(c, 10)

	if query == "" {
		c.JSON(http.StatusOK, gin.H{
			"users":      []models.PublicUser{},
			"total":      0,
			"page":       page,
			"totalPages": 0,
			"hasMore":    false,
			"message":    "Please enter a search query",
		})
		return
	}

	filter := bson.M{
		"username": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"},
		"_id":      bson.M{"$ne": user.ID},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	total, err := uc.users.CountDocuments(ctx, filter)
	if err != nil {
		uc.log.Error().Err(err).Msg("failed to count user search results")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	pagination := helper.NewPagination(page, limit, total)

	results := []models.PublicUser{}
	cursor, err := uc.users.Find(ctx, filter, options.Find().
		SetProjection(bson.M{"username": 1, "name": 1, "bio": 1, "createdAt": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit))
	if err == nil {
		err = cursor.All(ctx, &results)
	}
	if err != nil {
		uc.log.Error().Err(err).Msg("failed to search users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      results,
		"total":      total,
		"page":       pagination.Page,
		"totalPages": pagination.TotalPages,
		"hasMore":    pagination.HasMore,
	})
}

// Get returns another user's public profile together with their questions.
func (uc *UserController) Get(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var profile models.PublicUser
	err = uc.users.FindOne(ctx, bson.M{"_id": userID}, options.FindOne().
		SetProjection(bson.M{"username": 1, "name": 1, "bio": 1, "createdAt": 1})).Decode(&profile)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	questions := []models.Question{}
	cursor, err := uc.questions.Find(ctx, bson.M{"author": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err == nil {
		err = cursor.All(ctx, &questions)
	}
	if err != nil {
		uc.log.Error().Err(err).Msg("failed to fetch user questions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user details"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          profile,
		"questions":     questions,
		"questionCount": len(questions),
	})
}
