package routes

import (
	"github.com/gin-gonic/gin"

	"stackit/controllers"
)

func QuestionRouter(
	r *gin.Engine,
	questions *controllers.QuestionController,
	answers *controllers.AnswerController,
	votes *controllers.VoteController,
	uploads *controllers.UploadController,
	requireAuth, optionalAuth gin.HandlerFunc,
) {
	r.GET("/questions", questions.List)
	r.GET("/questions/user/:user_id", questions.ByUser)
	r.GET("/questions/:question_id", optionalAuth, questions.Get)
	r.GET("/questions/:question_id/answers/:answer_id/replies", answers.ListReplies)
	r.GET("/images/:image_id", uploads.GetImage)

	guarded := r.Group("/questions", requireAuth)
	guarded.POST("", questions.Create)
	guarded.GET("/stats", questions.Stats)
	guarded.PUT("/:question_id", questions.Update)
	guarded.DELETE("/:question_id", questions.Delete)
	guarded.POST("/:question_id/upload", uploads.Upload)

	guarded.POST("/:question_id/vote", votes.QuestionUpvote)
	guarded.POST("/:question_id/downvote", votes.QuestionDownvote)

	guarded.POST("/:question_id/answers", answers.Add)
	guarded.POST("/:question_id/answers/:answer_id/accept", answers.Accept)
	guarded.POST("/:question_id/answers/:answer_id/vote", votes.AnswerUpvote)
	guarded.POST("/:question_id/answers/:answer_id/downvote", votes.AnswerDownvote)

	guarded.POST("/:question_id/answers/:answer_id/replies", answers.AddReply)
	guarded.POST("/:question_id/answers/:answer_id/replies/:reply_id/vote", votes.ReplyUpvote)
	guarded.POST("/:question_id/answers/:answer_id/replies/:reply_id/downvote", votes.ReplyDownvote)
}
