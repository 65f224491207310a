package controllers

import (
	"context"
	"net/http"
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

type QuestionController struct {
	questions *mongo.Collection
	users     *mongo.Collection
	log       zerolog.Logger
}

func NewQuestionController(questions, users *mongo.Collection, log zerolog.Logger) *QuestionController {
	return &QuestionController{questions: questions, users: users, log: log}
}

// fetchQuestion loads the question named by the route parameter and writes
// the 400/404 response itself when that fails.
func fetchQuestion(c *gin.Context, questions *mongo.Collection) (models.Question, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("question_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return models.Question{}, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var question models.Question
	if err := questions.FindOne(ctx, bson.M{"_id": id}).Decode(&question); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return models.Question{}, false
	}
	return question, true
}

// saveQuestion persists the whole document, last write wins.
func saveQuestion(c *gin.Context, questions *mongo.Collection, question *models.Question) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := questions.ReplaceOne(ctx, bson.M{"_id": question.ID}, question); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save question"})
		return false
	}
	return true
}

type questionInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (qc *QuestionController) Create(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	var input questionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Title == "" || input.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and description are required"})
		return
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}

	now := time.Now()
	question := models.Question{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Slug:        helper.Slugify(input.Title),
		Author:      user.ID,
		Answers:     []models.Answer{},
		Tags:        input.Tags,
		Images:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
		VoteSets: models.VoteSets{
			Upvotes:   []primitive.ObjectID{},
			Downvotes: []primitive.ObjectID{},
		},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := qc.questions.InsertOne(ctx, question); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A question with this title already exists"})
			return
		}
		qc.log.Error().Err(err).Msg("failed to create question")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question posted successfully", "question": question})
}

// List serves the public question feed with text search, tag filtering and
// the four sort orders the UI offers.
func (qc *QuestionController) List(c *gin.Context) {
	filter := bson.M{}
	if query := c.Query("query"); query != "" {
		filter["$text"] = bson.M{"$search": query}
	}
	if tags := c.QueryArray("tags"); len(tags) > 0 {
		filter["tags"] = bson.M{"$in": tags}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	questions := []models.Question{}
	sortBy := c.DefaultQuery("sortBy", "newest")

	switch sortBy {
	case "most-voted", "most-answers":
		cursor, err := qc.questions.Aggregate(ctx, rankedPipeline(filter, sortBy))
		if err == nil {
			err = cursor.All(ctx, &questions)
		}
		if err != nil {
			qc.log.Error().Err(err).Msg("failed to list questions")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
			return
		}
	default:
		order := -1
		if sortBy == "oldest" {
			order = 1
		}
		cursor, err := qc.questions.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: order}}))
		if err == nil {
			err = cursor.All(ctx, &questions)
		}
		if err != nil {
			qc.log.Error().Err(err).Msg("failed to list questions")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
			return
		}
	}

	c.JSON(http.StatusOK, questions)
}

func rankedPipeline(filter bson.M, sortBy string) mongo.Pipeline {
	rankField := bson.D{{Key: "answerCount", Value: bson.D{{Key: "$size", Value: "$answers"}}}}
	sortKey := "answerCount"
	if sortBy == "most-voted" {
		rankField = bson.D{{Key: "voteScore", Value: bson.D{{Key: "$subtract", Value: bson.A{
			bson.D{{Key: "$size", Value: "$upvotes"}},
			bson.D{{Key: "$size", Value: "$downvotes"}},
		}}}}}
		sortKey = "voteScore"
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$addFields", Value: rankField}},
		{{Key: "$sort", Value: bson.D{{Key: sortKey, Value: -1}, {Key: "createdAt", Value: -1}}}},
		{{Key: "$project", Value: bson.D{{Key: "voteScore", Value: 0}, {Key: "answerCount", Value: 0}}}},
	}
}

// Get returns a question and counts the view for authenticated non-author
// first-time readers. The two bookkeeping writes are independent and best
// effort; a lost view is tolerable.
func (qc *QuestionController) Get(c *gin.Context) {
	question, ok := fetchQuestion(c, qc.questions)
	if !ok {
		return
	}

	if user, authed := helper.CurrentUser(c); authed && question.CountsViewBy(&user) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if _, err := qc.questions.UpdateOne(ctx, bson.M{"_id": question.ID},
			bson.M{"$inc": bson.M{"views": 1}}); err != nil {
			qc.log.Warn().Err(err).Str("question", question.ID.Hex()).Msg("failed to increment views")
		} else {
			question.Views++
		}

		if _, err := qc.users.UpdateOne(ctx, bson.M{"_id": user.ID},
			bson.M{"$addToSet": bson.M{"viewedQuestions": question.ID}}); err != nil {
			qc.log.Warn().Err(err).Str("user", user.ID.Hex()).Msg("failed to record viewed question")
		}
	}

	c.JSON(http.StatusOK, question)
}

func (qc *QuestionController) Update(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	question, ok := fetchQuestion(c, qc.questions)
	if !ok {
		return
	}
	if question.Author != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Not your question"})
		return
	}

	var input questionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Title == "" || input.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and description are required"})
		return
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}

	question.Title = input.Title
	question.Description = input.Description
	question.Tags = input.Tags
	question.Slug = helper.Slugify(input.Title)
	question.UpdatedAt = time.Now()

	if !saveQuestion(c, qc.questions, &question) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question updated successfully", "question": question})
}

// Delete removes the question; embedded answers and replies go with it.
func (qc *QuestionController) Delete(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	question, ok := fetchQuestion(c, qc.questions)
	if !ok {
		return
	}
	if question.Author != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Not your question"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := qc.questions.DeleteOne(ctx, bson.M{"_id": question.ID}); err != nil {
		qc.log.Error().Err(err).Msg("failed to delete question")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// ByUser lists one user's questions, paginated.
func (qc *QuestionController) ByUser(c *gin.Context) {
	authorID, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	page, limit := helper.PageParams(c, 10)

	sort := bson.D{{Key: "createdAt", Value: -1}}
	switch c.DefaultQuery("sortBy", "newest") {
	case "oldest":
		sort = bson.D{{Key: "createdAt", Value: 1}}
	case "most-views":
		sort = bson.D{{Key: "views", Value: -1}, {Key: "createdAt", Value: -1}}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"author": authorID}
	total, err := qc.questions.CountDocuments(ctx, filter)
	if err != nil {
		qc.log.Error().Err(err).Msg("failed to count user questions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user questions"})
		return
	}

	pagination := helper.NewPagination(page, limit, total)

	questions := []models.Question{}
	cursor, err := qc.questions.Find(ctx, filter, options.Find().
		SetSort(sort).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit))
	if err == nil {
		err = cursor.All(ctx, &questions)
	}
	if err != nil {
		qc.log.Error().Err(err).Msg("failed to fetch user questions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user questions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions, "pagination": pagination})
}

// Stats sums the caller's question, answer and view totals.
func (qc *QuestionController) Stats(c *gin.Context) {
	user, _ := helper.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var questions []models.Question
	cursor, err := qc.questions.Find(ctx, bson.M{"author": user.ID})
	if err == nil {
		err = cursor.All(ctx, &questions)
	}
	if err != nil {
		qc.log.Error().Err(err).Msg("failed to fetch user stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user stats"})
		return
	}

	var totalAnswers, totalViews int64
	for _, question := range questions {
		totalAnswers += int64(len(question.Answers))
		totalViews += question.Views
	}

	c.JSON(http.StatusOK, gin.H{
		"totalQuestions": len(questions),
		"totalAnswers":   totalAnswers,
		"totalViews":     totalViews,
	})
}
