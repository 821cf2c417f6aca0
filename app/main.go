package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"itdesk/internal/routes"
	"itdesk/pkg/config"
	"itdesk/pkg/database/migrations"
	"itdesk/pkg/database/postgresql"
	apperrors "itdesk/pkg/errors"
	applogger "itdesk/pkg/logger"
	appmw "itdesk/pkg/middleware"
	"itdesk/pkg/utils"
	"itdesk/pkg/validation"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	// 2. Middleware
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmw.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))
	e.Use(appmw.PageGate(appmw.PageGateConfig{
		CookieName:   cfg.Session.CookieName,
		SkipPrefixes: []string{"/api/", "/assets/", "/static/"},
		PublicPaths:  []string{"/favicon.ico", "/robots.txt"},
	}))

	// 3. Фронтенд (если собран рядом)
	if cfg.Server.StaticDir != "" {
		absPath, err := filepath.Abs(cfg.Server.StaticDir)
		if err != nil {
			logger.Fatal("не удалось получить абсолютный путь к статике", zap.Error(err))
		}
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  absPath,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				return len(c.Request().URL.Path) >= 4 && c.Request().URL.Path[:4] == "/api"
			},
		}))
	}

	// 4. Базы данных
	if cfg.Postgres.AutoMigrate {
		if err := migrations.Up(cfg.Postgres.DSN); err != nil {
			logger.Fatal("не удалось применить миграции", zap.Error(err))
		}
		logger.Info("Миграции применены")
	}

	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	// 5. Маршруты
	routes.InitRouter(e, dbConn, redisClient, &routes.Loggers{
		Main:    logger,
		Auth:    logger.Named("auth"),
		Ticket:  logger.Named("ticket"),
		TimeLog: logger.Named("time_log"),
	}, cfg)

	// 6. Запуск
	go func() {
		logger.Info("Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Остановка сервера")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при остановке сервера", zap.Error(err))
	}
}
