package services

import (
	"context"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/utils"

	"go.uber.org/zap"
)

type MaintenanceProcedureServiceInterface interface {
	FindProcedure(ctx context.Context, id uint64) (*entities.MaintenanceProcedure, error)
	GetByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceProcedure, error)
	DisableProcedure(ctx context.Context, userID, id uint64, effectiveDate time.Time) error
	EnableProcedure(ctx context.Context, userID, id uint64, effectiveDate time.Time) error
	CascadeDisable(ctx context.Context, userID, equipmentID uint64, effectiveDate time.Time) error
	CascadeEnable(ctx context.Context, userID, equipmentID uint64, effectiveDate time.Time) error
}

type MaintenanceProcedureService struct {
	procedureRepo repositories.MaintenanceProcedureRepositoryInterface
	logger        *zap.Logger
}

func NewMaintenanceProcedureService(
	procedureRepo repositories.MaintenanceProcedureRepositoryInterface,
	logger *zap.Logger,
) MaintenanceProcedureServiceInterface {
	return &MaintenanceProcedureService{
		procedureRepo: procedureRepo,
		logger:        logger,
	}
}

func (s *MaintenanceProcedureService) FindProcedure(ctx context.Context, id uint64) (*entities.MaintenanceProcedure, error) {
	return s.procedureRepo.FindProcedure(ctx, id)
}

func (s *MaintenanceProcedureService) GetByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceProcedure, error) {
	return s.procedureRepo.FindProceduresByEquipment(ctx, equipmentID)
}

// DisableProcedure отключает регламент: сегодняшняя дата действует сразу,
// будущая откладывает переключение до свипа.
func (s *MaintenanceProcedureService) DisableProcedure(ctx context.Context, userID, id uint64, effectiveDate time.Time) error {
	if err := s.setDisabled(ctx, id, true, effectiveDate); err != nil {
		return err
	}
	s.logger.Info("Регламент отключён",
		zap.Uint64("procedure_id", id),
		zap.Uint64("user_id", userID),
		zap.Bool("deferred", !utils.IsToday(effectiveDate)))
	return nil
}

func (s *MaintenanceProcedureService) EnableProcedure(ctx context.Context, userID, id uint64, effectiveDate time.Time) error {
	if err := s.setDisabled(ctx, id, false, effectiveDate); err != nil {
		return err
	}
	s.logger.Info("Регламент включён",
		zap.Uint64("procedure_id", id),
		zap.Uint64("user_id", userID),
		zap.Bool("deferred", !utils.IsToday(effectiveDate)))
	return nil
}

func (s *MaintenanceProcedureService) setDisabled(ctx context.Context, id uint64, disable bool, effectiveDate time.Time) error {
	if utils.IsToday(effectiveDate) {
		return s.procedureRepo.SetDisabled(ctx, id, disable, nil)
	}
	toggleDate := utils.StartOfDay(effectiveDate)
	return s.procedureRepo.SetDisabled(ctx, id, !disable, &toggleDate)
}

// CascadeDisable применяет отключение ко всем регламентам оборудования.
// Семантика даты та же, что и у одиночного отключения.
func (s *MaintenanceProcedureService) CascadeDisable(ctx context.Context, userID, equipmentID uint64, effectiveDate time.Time) error {
	procedures, err := s.procedureRepo.FindProceduresByEquipment(ctx, equipmentID)
	if err != nil {
		return err
	}

	for _, p := range procedures {
		if err := s.setDisabled(ctx, p.ID, true, effectiveDate); err != nil {
			return err
		}
	}

	s.logger.Info("Каскадное отключение регламентов",
		zap.Uint64("equipment_id", equipmentID),
		zap.Uint64("user_id", userID),
		zap.Int("count", len(procedures)))
	return nil
}

func (s *MaintenanceProcedureService) CascadeEnable(ctx context.Context, userID, equipmentID uint64, effectiveDate time.Time) error {
	procedures, err := s.procedureRepo.FindProceduresByEquipment(ctx, equipmentID)
	if err != nil {
		return err
	}

	for _, p := range procedures {
		if err := s.setDisabled(ctx, p.ID, false, effectiveDate); err != nil {
			return err
		}
	}

	s.logger.Info("Каскадное включение регламентов",
		zap.Uint64("equipment_id", equipmentID),
		zap.Uint64("user_id", userID),
		zap.Int("count", len(procedures)))
	return nil
}
