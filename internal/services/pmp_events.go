package services

import (
	"context"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PmpEventServiceInterface interface {
	RequestWindowInTx(ctx context.Context, tx pgx.Tx, procedureID, equipmentID uint64, project *entities.Project) error
	ActivateDraftEvents(ctx context.Context, equipmentID uint64) error
	RemoveEventsForProcedure(ctx context.Context, procedureID uint64) error
}

type PmpEventService struct {
	pmpEventRepo repositories.PmpEventRepositoryInterface
	logger       *zap.Logger
}

func NewPmpEventService(pmpEventRepo repositories.PmpEventRepositoryInterface, logger *zap.Logger) PmpEventServiceInterface {
	return &PmpEventService{
		pmpEventRepo: pmpEventRepo,
		logger:       logger,
	}
}

// RequestWindowInTx регистрирует окно генерации событий для регламента:
// от старта проекта и на EventWindowYears лет вперёд.
func (s *PmpEventService) RequestWindowInTx(ctx context.Context, tx pgx.Tx, procedureID, equipmentID uint64, project *entities.Project) error {
	start := utils.StartOfDay(project.StartDate)
	end := start.AddDate(constants.EventWindowYears, 0, 0)

	id, err := s.pmpEventRepo.CreateWindowInTx(ctx, tx, &entities.PmpEventWindow{
		ProcedureID: procedureID,
		EquipmentID: equipmentID,
		ProjectID:   project.ID,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return err
	}

	s.logger.Debug("Зарегистрировано окно генерации событий",
		zap.Uint64("window_id", id),
		zap.Uint64("procedure_id", procedureID),
		zap.Time("start_date", start),
		zap.Time("end_date", end))
	return nil
}

// ActivateDraftEvents переводит черновые события оборудования в запланированные.
// Вызывается при активации оборудования из draft.
func (s *PmpEventService) ActivateDraftEvents(ctx context.Context, equipmentID uint64) error {
	changed, err := s.pmpEventRepo.ChangeEventsDraftToPlanned(ctx, equipmentID)
	if err != nil {
		return err
	}
	if changed > 0 {
		s.logger.Info("События обслуживания переведены в статус planned",
			zap.Uint64("equipment_id", equipmentID),
			zap.Int64("count", changed))
	}
	return nil
}

func (s *PmpEventService) RemoveEventsForProcedure(ctx context.Context, procedureID uint64) error {
	removed, err := s.pmpEventRepo.RemoveEventsForProcedure(ctx, procedureID)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info("Удалены события обслуживания регламента",
			zap.Uint64("procedure_id", procedureID),
			zap.Int64("count", removed))
	}
	return nil
}
