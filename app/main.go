package main

import (
	"context"
	"net/http"

	"maintenance-system/internal/routes"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	apperrors "maintenance-system/pkg/errors"
	applogger "maintenance-system/pkg/logger"
	appmiddleware "maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg := config.New()

	e := echo.New()
	logger := applogger.NewLogger()

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
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestID())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Validator = utils.NewValidator(validator.New())

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	deps := routes.InitRouter(e, dbConn, redisClient, jwtSvc, logger)

	// Фоновый свип отложенных переключений состояний
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Sweep.CronSpec, func() {
		if err := deps.SweepService.Run(context.Background()); err != nil {
			logger.Error("Свип отложенных переключений упал", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("не удалось запланировать свип", zap.Error(err), zap.String("cron", cfg.Sweep.CronSpec))
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
