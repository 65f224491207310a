package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"stackit/controllers"
	"stackit/database"
	"stackit/helper"
	"stackit/initializers"
	"stackit/middlewares"
	"stackit/notify"
	"stackit/routes"
)

func init() {
	initializers.LoadEnvVariables()
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.Connect(context.Background(), os.Getenv("MONGO_URI"), initializers.Getenv("DB_NAME", "stackit"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	if err := db.EnsureIndexes(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}
	logger.Info().Msg("connected to MongoDB")

	users := db.Collection(database.UserCollection)
	questions := db.Collection(database.QuestionCollection)
	notifications := db.Collection(database.NotificationCollection)

	secret := []byte(os.Getenv("SECRET_KEY"))
	appURL := initializers.Getenv("APP_URL", "http://localhost:3000")

	hub := notify.NewHub(logger)
	dispatcher := notify.NewDispatcher(notifications, hub, logger)
	dispatcher.Start()

	mailer := helper.NewMailer(
		os.Getenv("SMTP_HOST"),
		os.Getenv("SMTP_PORT"),
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASSWORD"),
		initializers.Getenv("SMTP_FROM", "noreply@stackit.dev"),
		appURL,
	)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(initializers.Getenv("CORS_ORIGINS", "http://localhost:3000"), ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	requireAuth := middlewares.RequireAuth(users, secret)
	optionalAuth := middlewares.OptionalAuth(users, secret)

	routes.AuthRouter(router, controllers.NewAuthController(users, mailer, secret, logger), requireAuth)
	routes.QuestionRouter(router,
		controllers.NewQuestionController(questions, users, logger),
		controllers.NewAnswerController(questions, dispatcher),
		controllers.NewVoteController(questions),
		controllers.NewUploadController(questions, db.Bucket(), appURL),
		requireAuth, optionalAuth)
	routes.NotificationRouter(router, controllers.NewNotificationController(notifications, logger), hub, requireAuth)
	routes.UserRouter(router, controllers.NewUserController(users, questions, logger), requireAuth)
	routes.ProfileRouter(router, controllers.NewProfileController(users), requireAuth)

	server := &http.Server{
		Addr:    ":" + initializers.Getenv("PORT", "8080"),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()
	logger.Info().Str("addr", server.Addr).Msg("listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if err := dispatcher.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("notification dispatcher drain failed")
	}
	if err := db.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("MongoDB disconnect failed")
	}
}
