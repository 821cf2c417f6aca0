package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"itdesk/internal/authz"
	"itdesk/internal/controllers"
	"itdesk/internal/repositories"
	"itdesk/internal/services"
	"itdesk/pkg/config"
	"itdesk/pkg/filestorage"
	"itdesk/pkg/middleware"
	"itdesk/pkg/service"
)

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Ticket  *zap.Logger
	TimeLog *zap.Logger
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	sessions := service.NewSessionService(cacheRepo, cfg.Session.SecretKey, cfg.Session.TTL, loggers.Auth)
	authMW := middleware.NewAuthMiddleware(sessions, cfg.Session.CookieName, loggers.Auth)
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.UploadDir)
	if err != nil {
		loggers.Main.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}
	txManager := repositories.NewTxManager(dbConn, loggers.Main)
	gatekeeper := authz.NewGatekeeper()

	// --- 1. РЕПОЗИТОРИИ ---
	adminRepo := repositories.NewAdminRepository(dbConn, loggers.Auth)
	ticketRepo := repositories.NewTicketRepository(dbConn, loggers.Ticket)
	timeLogRepo := repositories.NewTimeLogRepository(dbConn, loggers.TimeLog)
	clientRepo := repositories.NewClientRepository(dbConn, loggers.Main)
	assetRepo := repositories.NewAssetRepository(dbConn, loggers.Main)

	// --- 2. СЕРВИСЫ ---
	authService := services.NewAuthService(adminRepo, cacheRepo, services.LockoutPolicy{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockoutDuration:  cfg.Auth.LockoutDuration,
	}, loggers.Auth)
	adminService := services.NewAdminService(adminRepo, loggers.Main)
	ticketService := services.NewTicketService(txManager, ticketRepo, gatekeeper, loggers.Ticket)
	timeLogService := services.NewTimeLogService(txManager, timeLogRepo, gatekeeper, cfg.Server.Location, loggers.TimeLog)
	clientService := services.NewClientService(clientRepo, loggers.Main)
	assetImporter := services.NewAssetImporter(assetRepo, clientRepo, loggers.Main)
	assetService := services.NewAssetService(assetRepo, ticketRepo, assetImporter, loggers.Main)

	// --- 3. КОНТРОЛЛЕРЫ ---
	authCtrl := controllers.NewAuthController(authService, sessions, controllers.SessionCookie{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	}, loggers.Auth)
	adminCtrl := controllers.NewAdminController(adminService, loggers.Main)
	ticketCtrl := controllers.NewTicketController(ticketService, cfg.Server.Location, loggers.Ticket)
	timeLogCtrl := controllers.NewTimeLogController(timeLogService, authService, loggers.TimeLog)
	clientCtrl := controllers.NewClientController(clientService, loggers.Main)
	assetCtrl := controllers.NewAssetController(assetService, fileStorage, loggers.Main)

	// --- 4. РОУТЕРЫ ---
	runAuthRouter(api, authCtrl, authMW)

	secureGroup := api.Group("", authMW.Auth)
	runAdminRouter(secureGroup, adminCtrl)
	runTicketRouter(secureGroup, ticketCtrl)
	runTimeLogRouter(secureGroup, timeLogCtrl)
	runClientRouter(secureGroup, clientCtrl)
	runAssetRouter(secureGroup, assetCtrl)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
