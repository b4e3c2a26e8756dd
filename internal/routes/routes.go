package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/controllers"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
)

// Deps — всё, что собирается один раз при старте и нужно роутерам
// и фоновому свипу.
type Deps struct {
	EquipmentService services.EquipmentServiceInterface
	SweepService     services.ToggleSweepServiceInterface
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger) *Deps {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	txManager := repositories.NewTxManager(dbConn)

	// --- РЕПОЗИТОРИИ ---
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	referenceRepo := repositories.NewEquipmentReferenceRepository(dbConn)
	standardRepo := repositories.NewStandardProcedureRepository(dbConn)
	procedureRepo := repositories.NewMaintenanceProcedureRepository(dbConn)
	linkRepo := repositories.NewEquipmentLinkRepository(dbConn)
	inputRepo := repositories.NewEquipmentInputRepository(dbConn)
	locationRepo := repositories.NewLocationRepository(dbConn)
	fileRepo := repositories.NewFileRepository(dbConn)
	projectRepo := repositories.NewProjectRepository(dbConn)
	pmpEventRepo := repositories.NewPmpEventRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- СЕРВИСЫ ---
	projectSvc := services.NewProjectService(projectRepo, cacheRepo, logger)
	procedureSvc := services.NewMaintenanceProcedureService(procedureRepo, logger)
	pmpEventSvc := services.NewPmpEventService(pmpEventRepo, logger)
	buildingSvc := services.NewBuildingService(locationRepo, logger)
	cloner := services.NewEquipmentCloner(standardRepo, procedureRepo, pmpEventSvc, txManager, logger)
	equipmentSvc := services.NewEquipmentService(
		equipmentRepo, referenceRepo, standardRepo, linkRepo, inputRepo, fileRepo,
		txManager, projectSvc, procedureSvc, pmpEventSvc, buildingSvc, cloner, logger,
	)
	sweepSvc := services.NewToggleSweepService(equipmentRepo, txManager, logger)

	// --- КОНТРОЛЛЕРЫ И РОУТЕРЫ ---
	equipmentCtrl := controllers.NewEquipmentController(equipmentSvc, logger)
	procedureCtrl := controllers.NewMaintenanceProcedureController(procedureSvc, logger)

	secureGroup := api.Group("", authMW.Auth)
	runEquipmentRouter(secureGroup, equipmentCtrl)
	runMaintenanceProcedureRouter(secureGroup, procedureCtrl)

	logger.Info("InitRouter: Создание маршрутов завершено")

	return &Deps{
		EquipmentService: equipmentSvc,
		SweepService:     sweepSvc,
	}
}
