package services

import (
	"context"
	"time"

	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ToggleSweepServiceInterface — фоновый проход по отложенным переключениям.
// Запускается планировщиком раз в сутки, без аргументов.
type ToggleSweepServiceInterface interface {
	Run(ctx context.Context) error
}

type ToggleSweepService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewToggleSweepService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) ToggleSweepServiceInterface {
	return &ToggleSweepService{
		equipmentRepo: equipmentRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// Run переключает оборудование, чья дата отложенного перехода наступила
// сегодня: active и disabled меняются местами, toggle_date очищается.
// Каскад на регламенты не выполняется — он уже прошёл при планировании.
// Каждая строка обрабатывается в собственной транзакции под FOR UPDATE:
// ошибка на одной не откатывает остальные, а перечитывание под блокировкой
// отсеивает строки, которые успела поменять интерактивная операция.
func (s *ToggleSweepService) Run(ctx context.Context) error {
	today := utils.StartOfDay(time.Now())

	due, err := s.equipmentRepo.FindDueToggles(ctx, today)
	if err != nil {
		s.logger.Error("Свип не смог получить список отложенных переключений", zap.Error(err))
		return err
	}

	var flipped, failed int
	for _, candidate := range due {
		if err := s.flipOne(ctx, candidate.ID, today); err != nil {
			failed++
			s.logger.Error("Свип не смог переключить оборудование",
				zap.Uint64("equipment_id", candidate.ID),
				zap.Error(err))
			continue
		}
		flipped++
	}

	s.logger.Info("Свип отложенных переключений завершён",
		zap.Int("due", len(due)),
		zap.Int("flipped", flipped),
		zap.Int("failed", failed))
	return nil
}

func (s *ToggleSweepService) flipOne(ctx context.Context, id uint64, today time.Time) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err := s.equipmentRepo.FindEquipmentForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if equipment.ToggleDate == nil || !equipment.ToggleDate.Equal(today) {
			// Дату успели снять или сдвинуть между выборкой и блокировкой
			return nil
		}

		var newState string
		var readonly bool
		switch equipment.State {
		case constants.EquipmentStateActive:
			newState = constants.EquipmentStateDisabled
			readonly = true
		case constants.EquipmentStateDisabled:
			newState = constants.EquipmentStateActive
			readonly = false
		default:
			// draft с toggle_date не участвует в бинарном переключении
			return nil
		}

		if err := s.equipmentRepo.UpdateLifecycleInTx(ctx, tx, equipment.ID, newState, nil, readonly); err != nil {
			return err
		}

		s.logger.Info("Свип переключил оборудование",
			zap.Uint64("equipment_id", equipment.ID),
			zap.String("from", equipment.State),
			zap.String("to", newState))
		return nil
	})
}
