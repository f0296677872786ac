package app

import (
	"context"
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/controller"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/service"
	"ctf_platform_backend/pkg/database"
	"ctf_platform_backend/pkg/logger"
	"ctf_platform_backend/pkg/monitoring"
	"ctf_platform_backend/pkg/security"
	"ctf_platform_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	challenge  *repository.ChallengeRepository
	submission *repository.SubmissionRepository
	attachment *repository.AttachmentRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	challenge  *service.ChallengeService
	submission *service.SubmissionService
	score      *service.ScoreService
	storage    *service.StorageService
	attachment *service.AttachmentService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	challenge  *controller.ChallengeController
	submission *controller.SubmissionController
	scoreboard *controller.ScoreboardController
	attachment *controller.AttachmentController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热加载入口，只调整运行期可安全替换的参数
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		challenge:  repository.NewChallengeRepository(db),
		submission: repository.NewSubmissionRepository(db),
		attachment: repository.NewAttachmentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.challenge = service.NewChallengeService(repos.challenge)
	s.score = service.NewScoreService(repos.user, repos.submission, rdb,
		time.Duration(cfg.Scoreboard.CacheTTLSeconds)*time.Second)
	s.submission = service.NewSubmissionService(repos.submission, repos.challenge, s.score)
	s.storage = service.NewStorageService(cfg)
	s.attachment = service.NewAttachmentService(repos.attachment, repos.challenge, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		user:       controller.NewUserController(s.user),
		challenge:  controller.NewChallengeController(s.challenge),
		submission: controller.NewSubmissionController(s.submission),
		scoreboard: controller.NewScoreboardController(s.score),
		attachment: controller.NewAttachmentController(s.attachment),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != "release")
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	// Redis 只承载榜单缓存，连不上就裸查数据库跑
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, scoreboard cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.score.SetCacheTTL(time.Duration(newCfg.Scoreboard.CacheTTLSeconds) * time.Second)
	})

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("ctf-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Sync()
	log.Println("Server exiting")
}
