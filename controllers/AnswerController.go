package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"stackit/helper"
	"stackit/models"
	"stackit/notify"
)

type AnswerController struct {
	questions  *mongo.Collection
	dispatcher *notify.Dispatcher
}

func NewAnswerController(questions *mongo.Collection, dispatcher *notify.Dispatcher) *AnswerController {
	return &AnswerController{questions: questions, dispatcher: dispatcher}
}

type contentInput struct {
	Content string `json:"content"`
}

// Add appends an answer and, when somebody else's question got answered,
// queues a notification to its author. The notification is best effort and
// never fails the answer.
func (ac *AnswerController) Add(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	var input contentInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answer content is required"})
		return
	}

	question, ok := fetchQuestion(c, ac.questions)
	if !ok {
		return
	}

	question.Answers = append(question.Answers, models.Answer{
		ID:        primitive.NewObjectID(),
		Content:   input.Content,
		Author:    user.ID,
		Replies:   []models.Reply{},
		CreatedAt: time.Now(),
		VoteSets: models.VoteSets{
			Upvotes:   []primitive.ObjectID{},
			Downvotes: []primitive.ObjectID{},
		},
	})

	if !saveQuestion(c, ac.questions, &question) {
		return
	}

	if question.Author != user.ID {
		ac.dispatcher.Enqueue(notify.NewAnswerNotification(question.Author, question.ID, question.Title))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer posted successfully", "question": question})
}

// Accept marks one answer accepted. Question author only; every other
// answer's flag is reset so at most one stays accepted.
func (ac *AnswerController) Accept(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	question, ok := fetchQuestion(c, ac.questions)
	if !ok {
		return
	}
	if question.Author != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the question author can accept answers"})
		return
	}

	answerID, err := primitive.ObjectIDFromHex(c.Param("answer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID"})
		return
	}
	if !question.AcceptAnswer(answerID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	if !saveQuestion(c, ac.questions, &question) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer marked as accepted"})
}

// AddReply appends a threaded reply under an answer.
func (ac *AnswerController) AddReply(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	var input contentInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reply content is required"})
		return
	}

	question, ok := fetchQuestion(c, ac.questions)
	if !ok {
		return
	}

	answerID, err := primitive.ObjectIDFromHex(c.Param("answer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID"})
		return
	}
	answer := question.Answer(answerID)
	if answer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	answer.Replies = append(answer.Replies, models.Reply{
		ID:        primitive.NewObjectID(),
		Content:   input.Content,
		Author:    user.ID,
		CreatedAt: time.Now(),
		VoteSets: models.VoteSets{
			Upvotes:   []primitive.ObjectID{},
			Downvotes: []primitive.ObjectID{},
		},
	})

	if !saveQuestion(c, ac.questions, &question) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reply added successfully", "question": question})
}

func (ac *AnswerController) ListReplies(c *gin.Context) {
	question, ok := fetchQuestion(c, ac.questions)
	if !ok {
		return
	}

	answerID, err := primitive.ObjectIDFromHex(c.Param("answer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID"})
		return
	}
	answer := question.Answer(answerID)
	if answer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"replies": answer.Replies})
}
