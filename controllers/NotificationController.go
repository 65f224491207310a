package controllers

import (
	"context"
	"net/http"
	"regexp"
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

type NotificationController struct {
	notifications *mongo.Collection
	log           zerolog.Logger
}

func NewNotificationController(notifications *mongo.Collection, log zerolog.Logger) *NotificationController {
	return &NotificationController{notifications: notifications, log: log}
}

// List serves the caller's notifications, newest first, with read-state
// filtering and message search.
func (nc *NotificationController) List(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	page, limit := helper.PageParams(c, 20)

	query := bson.M{"user": user.ID}
	switch c.DefaultQuery("filter", "all") {
	case "unread":
		query["isRead"] = false
	case "read":
		query["isRead"] = true
	}
	if search := c.Query("search"); search != "" {
		query["message"] = primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	total, err := nc.notifications.CountDocuments(ctx, query)
	if err != nil {
		nc.log.Error().Err(err).Msg("failed to count notifications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	pagination := helper.NewPagination(page, limit, total)

	notifications := []models.Notification{}
	cursor, err := nc.notifications.Find(ctx, query, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit))
	if err == nil {
		err = cursor.All(ctx, &notifications)
	}
	if err != nil {
		nc.log.Error().Err(err).Msg("failed to fetch notifications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "pagination": pagination})
}

// UpdateRead flips one notification's read flag. The filter includes the
// caller, so nobody can touch another user's notifications.
func (nc *NotificationController) UpdateRead(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	var input struct {
		NotificationID string `json:"notificationId"`
		IsRead         bool   `json:"isRead"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notificationID, err := primitive.ObjectIDFromHex(input.NotificationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var notification models.Notification
	err = nc.notifications.FindOneAndUpdate(ctx,
		bson.M{"_id": notificationID, "user": user.ID},
		bson.M{"$set": bson.M{"isRead": input.IsRead}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&notification)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, notification)
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := nc.notifications.UpdateMany(ctx,
		bson.M{"user": user.ID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		nc.log.Error().Err(err).Msg("failed to mark notifications read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updatedCount": result.ModifiedCount})
}

func (nc *NotificationController) Delete(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	notificationID, err := primitive.ObjectIDFromHex(c.Param("notification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	err = nc.notifications.FindOneAndDelete(ctx,
		bson.M{"_id": notificationID, "user": user.ID}).Err()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SeedTest inserts one notification of each type for the caller. Manual test
// data only; the upvote types have no live producer.
func (nc *NotificationController) SeedTest(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	now := time.Now()
	samples := []interface{}{
		models.Notification{
			ID:        primitive.NewObjectID(),
			User:      user.ID,
			Type:      models.NotificationNewAnswer,
			Message:   "Someone answered your question: \"Test question\"",
			Link:      "/questions",
			CreatedAt: now,
		},
		models.Notification{
			ID:        primitive.NewObjectID(),
			User:      user.ID,
			Type:      models.NotificationQuestionUpvote,
			Message:   "Your question received an upvote",
			Link:      "/questions",
			CreatedAt: now,
		},
		models.Notification{
			ID:        primitive.NewObjectID(),
			User:      user.ID,
			Type:      models.NotificationAnswerUpvote,
			Message:   "Your answer received an upvote",
			Link:      "/questions",
			CreatedAt: now,
		},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := nc.notifications.InsertMany(ctx, samples); err != nil {
		nc.log.Error().Err(err).Msg("failed to seed test notifications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create test notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test notifications created", "notifications": samples})
}
