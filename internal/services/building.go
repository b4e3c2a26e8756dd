package services

import (
	"context"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BuildingServiceInterface отвечает за размещение оборудования по зданиям.
type BuildingServiceInterface interface {
	GetEquipmentLocations(ctx context.Context, equipmentID uint64) ([]entities.Location, error)
	ReplaceEquipmentLocationsInTx(ctx context.Context, tx pgx.Tx, equipmentID, projectID uint64, locations []dto.LocationDTO) error
}

type BuildingService struct {
	locationRepo repositories.LocationRepositoryInterface
	logger       *zap.Logger
}

func NewBuildingService(locationRepo repositories.LocationRepositoryInterface, logger *zap.Logger) BuildingServiceInterface {
	return &BuildingService{
		locationRepo: locationRepo,
		logger:       logger,
	}
}

func (s *BuildingService) GetEquipmentLocations(ctx context.Context, equipmentID uint64) ([]entities.Location, error) {
	return s.locationRepo.GetByEquipment(ctx, equipmentID)
}

func (s *BuildingService) ReplaceEquipmentLocationsInTx(ctx context.Context, tx pgx.Tx, equipmentID, projectID uint64, locations []dto.LocationDTO) error {
	converted := make([]entities.Location, 0, len(locations))
	for _, l := range locations {
		converted = append(converted, entities.Location{
			ProjectID: projectID,
			Building:  l.Building,
			Level:     l.Level,
			Room:      l.Room,
		})
	}
	return s.locationRepo.ReplaceEquipmentLocationsInTx(ctx, tx, equipmentID, converted)
}
