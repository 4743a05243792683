package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/config"
	"github.com/lshigami/Margays/database"
	_ "github.com/lshigami/Margays/docs" // Swagger docs - auto-generated
	"github.com/lshigami/Margays/internal/controller"
	"github.com/lshigami/Margays/internal/logger"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/lshigami/Margays/internal/service"
	"github.com/lshigami/Margays/internal/session"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Mock Interview Session API
// @version 1.0
// @description API for running timed mock interview sessions: configuration, environment preflight, live question flow with integrity monitoring, and asynchronous scoring.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewSessionRepository,
			repository.NewAnswerRepository,
			repository.NewViolationRepository,
			repository.NewFeedbackRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewBackendService,
			service.NewSessionConfiguratorService,
			service.NewPreflightService,
			service.NewFeedbackPoller,
			service.NewScoreAggregatorService,
			service.NewSessionQueryService,
		),

		// Live Session Runtime
		fx.Provide(
			session.NewManager,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewSessionController,
			controller.NewInterviewController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	sessionCtrl *controller.SessionController,
	interviewCtrl *controller.InterviewController,
) {
	apiV1 := router.Group("/api/v1")
	{
		sessions := apiV1.Group("/sessions")
		sessions.POST("", sessionCtrl.CreateSession)
		sessions.GET("", sessionCtrl.ListSessions)
		sessions.GET("/:session_id", sessionCtrl.GetSession)
		sessions.GET("/:session_id/summary", sessionCtrl.GetSummary)

		sessions.POST("/:session_id/preflight", sessionCtrl.RunPreflight)
		sessions.GET("/:session_id/preflight", sessionCtrl.GetPreflight)
		sessions.POST("/:session_id/preflight/:check", sessionCtrl.RunPreflightCheck)

		sessions.POST("/:session_id/start", interviewCtrl.StartSession)
		sessions.POST("/:session_id/navigate", interviewCtrl.Navigate)
		sessions.PUT("/:session_id/answers/:index", interviewCtrl.UpsertAnswer)
		sessions.POST("/:session_id/violations", interviewCtrl.ReportViolation)
		sessions.POST("/:session_id/finish", interviewCtrl.FinishSession)
		sessions.POST("/:session_id/abort", interviewCtrl.AbortSession)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Mock Interview API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Session{},
		&model.Question{},
		&model.Answer{},
		&model.Violation{},
		&model.Feedback{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
