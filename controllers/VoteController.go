package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"stackit/helper"
	"stackit/models"
)

// VoteController applies the same toggle semantics to questions, answers and
// replies: re-casting a vote removes it, casting the opposite vote swaps it.
type VoteController struct {
	questions *mongo.Collection
}

func NewVoteController(questions *mongo.Collection) *VoteController {
	return &VoteController{questions: questions}
}

func (vc *VoteController) QuestionUpvote(c *gin.Context) {
	vc.voteOnQuestion(c, false)
}

func (vc *VoteController) QuestionDownvote(c *gin.Context) {
	vc.voteOnQuestion(c, true)
}

func (vc *VoteController) AnswerUpvote(c *gin.Context) {
	vc.voteOnAnswer(c, false)
}

func (vc *VoteController) AnswerDownvote(c *gin.Context) {
	vc.voteOnAnswer(c, true)
}

func (vc *VoteController) ReplyUpvote(c *gin.Context) {
	vc.voteOnReply(c, false)
}

func (vc *VoteController) ReplyDownvote(c *gin.Context) {
	vc.voteOnReply(c, true)
}

func (vc *VoteController) voteOnQuestion(c *gin.Context, down bool) {
	user, _ := helper.CurrentUser(c)

	question, ok := fetchQuestion(c, vc.questions)
	if !ok {
		return
	}

	vc.toggleAndRespond(c, &question, &question.VoteSets, user.ID, down)
}

func (vc *VoteController) voteOnAnswer(c *gin.Context, down bool) {
	user, _ := helper.CurrentUser(c)

	question, ok := fetchQuestion(c, vc.questions)
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

	vc.toggleAndRespond(c, &question, &answer.VoteSets, user.ID, down)
}

func (vc *VoteController) voteOnReply(c *gin.Context, down bool) {
	user, _ := helper.CurrentUser(c)

	question, ok := fetchQuestion(c, vc.questions)
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

	replyID, err := primitive.ObjectIDFromHex(c.Param("reply_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reply ID"})
		return
	}
	reply := answer.Reply(replyID)
	if reply == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reply not found"})
		return
	}

	vc.toggleAndRespond(c, &question, &reply.VoteSets, user.ID, down)
}

func (vc *VoteController) toggleAndRespond(c *gin.Context, question *models.Question, votes *models.VoteSets, voter primitive.ObjectID, down bool) {
	var message string
	if down {
		if votes.ToggleDownvote(voter) {
			message = "Downvote added"
		} else {
			message = "Downvote removed"
		}
	} else {
		if votes.ToggleUpvote(voter) {
			message = "Vote added"
		} else {
			message = "Vote removed"
		}
	}

	if !saveQuestion(c, vc.questions, question) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      message,
		"upvotes":      len(votes.Upvotes),
		"downvotes":    len(votes.Downvotes),
		"hasUpvoted":   votes.HasUpvoted(voter),
		"hasDownvoted": votes.HasDownvoted(voter),
	})
}
