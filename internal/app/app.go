package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qcm_edu_backend/internal/config"
	"qcm_edu_backend/internal/controller"
	"qcm_edu_backend/internal/repository"
	"qcm_edu_backend/internal/service"
	"qcm_edu_backend/pkg/database"
	"qcm_edu_backend/pkg/logger"
	"qcm_edu_backend/pkg/monitoring"
	"qcm_edu_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type repositories struct {
	users     *repository.UserRepository
	documents *repository.DocumentRepository
	videos    *repository.VideoRepository
	qcms      *repository.QcmRepository
	results   *repository.QcmResultRepository
}

type services struct {
	auth          *service.AuthService
	storage       *service.StorageService
	content       *service.ContentService
	ai            *service.AIService
	parser        *service.ParserService
	transcription *service.TranscriptionService
	quiz          *service.QuizService
	attempt       *service.AttemptService
	dashboard     *service.DashboardService
}

type controllers struct {
	auth      *controller.AuthController
	content   *controller.ContentController
	qcm       *controller.QcmController
	attempt   *controller.AttemptController
	result    *controller.ResultController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	repositories repositories
	services     services
	controllers  controllers
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != "release")
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("qcm-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Warn("tracing disabled, collector unreachable", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	app.buildRepositories()
	app.buildServices()
	app.buildControllers()
	app.Router = app.setupRouter()

	return app
}

func (a *App) buildRepositories() {
	a.repositories = repositories{
		users:     repository.NewUserRepository(a.DB),
		documents: repository.NewDocumentRepository(a.DB),
		videos:    repository.NewVideoRepository(a.DB),
		qcms:      repository.NewQcmRepository(a.DB),
		results:   repository.NewQcmResultRepository(a.DB),
	}
}

func (a *App) buildServices() {
	storage := service.NewStorageService(a.Config)
	ai := service.NewAIService(&a.Config.AI, logger.Log)
	parser := service.NewParserService(storage, logger.Log)
	transcription := service.NewTranscriptionService(storage, ai, logger.Log)

	a.services = services{
		auth:          service.NewAuthService(a.repositories.users, a.Config),
		storage:       storage,
		content:       service.NewContentService(a.repositories.documents, a.repositories.videos, storage, logger.Log),
		ai:            ai,
		parser:        parser,
		transcription: transcription,
		quiz:          service.NewQuizService(a.repositories.qcms, parser, transcription, ai, logger.Log),
		attempt:       service.NewAttemptService(service.NewRedisAttemptStore(a.Redis), a.repositories.qcms, a.repositories.results, logger.Log),
		dashboard:     service.NewDashboardService(a.repositories.documents, a.repositories.videos, a.repositories.results, a.repositories.users),
	}
}

func (a *App) buildControllers() {
	a.controllers = controllers{
		auth:      controller.NewAuthController(a.services.auth),
		content:   controller.NewContentController(a.services.content),
		qcm:       controller.NewQcmController(a.services.quiz, a.services.content, a.Config),
		attempt:   controller.NewAttemptController(a.services.attempt),
		result:    controller.NewResultController(a.repositories.results, a.services.quiz),
		dashboard: controller.NewDashboardController(a.services.dashboard),
		health:    controller.NewHealthController(a.DB),
	}
}

// ApplyConfig swaps in settings that are safe to change at runtime. The AI
// service guards its own settings; everything else (server port, database,
// storage backend, middleware built at router setup) needs a restart. The
// shared startup config is never written after NewApp returns.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.services.ai.Reload(cfg.AI)

	logger.Log.Info("configuration reloaded",
		zap.String("ai_model", cfg.AI.Model),
		zap.Int("default_questions", cfg.AI.DefaultQuestions))
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}

	if err := a.Redis.Close(); err != nil {
		logger.Log.Warn("redis close failed", zap.Error(err))
	}
}
