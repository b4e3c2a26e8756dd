package services

import (
	"context"
	"fmt"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EquipmentClonerInterface разворачивает стандартные шаблоны категорийной
// группы в регламенты конкретного оборудования.
type EquipmentClonerInterface interface {
	Instantiate(ctx context.Context, equipment *entities.Equipment, project *entities.Project) error
}

type EquipmentCloner struct {
	standardRepo  repositories.StandardProcedureRepositoryInterface
	procedureRepo repositories.MaintenanceProcedureRepositoryInterface
	pmpEventSvc   PmpEventServiceInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewEquipmentCloner(
	standardRepo repositories.StandardProcedureRepositoryInterface,
	procedureRepo repositories.MaintenanceProcedureRepositoryInterface,
	pmpEventSvc PmpEventServiceInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) EquipmentClonerInterface {
	return &EquipmentCloner{
		standardRepo:  standardRepo,
		procedureRepo: procedureRepo,
		pmpEventSvc:   pmpEventSvc,
		txManager:     txManager,
		logger:        logger,
	}
}

// Instantiate клонирует все стандартные регламенты группы в регламенты
// оборудования. Каждый регламент — отдельная транзакция: падение одного
// не откатывает уже склонированные.
func (s *EquipmentCloner) Instantiate(ctx context.Context, equipment *entities.Equipment, project *entities.Project) error {
	procedures, err := s.standardRepo.GetProceduresByCategoryGroup(ctx, equipment.StandardCategoryGroupID)
	if err != nil {
		return fmt.Errorf("не удалось получить стандартные регламенты группы %d: %w", equipment.StandardCategoryGroupID, err)
	}

	for _, standard := range procedures {
		if err := s.cloneProcedure(ctx, &standard, equipment, project); err != nil {
			return fmt.Errorf("не удалось склонировать регламент %d: %w", standard.ID, err)
		}
	}

	s.logger.Info("Стандартные регламенты развёрнуты",
		zap.Uint64("equipment_id", equipment.ID),
		zap.Int("procedures", len(procedures)))
	return nil
}

func (s *EquipmentCloner) cloneProcedure(ctx context.Context, standard *entities.StandardProcedure, equipment *entities.Equipment, project *entities.Project) error {
	operations, err := s.standardRepo.GetOperationsByProcedure(ctx, standard.ID)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		procedureID, err := s.procedureRepo.CreateProcedureInTx(ctx, tx, &entities.MaintenanceProcedure{
			EquipmentID:    equipment.ID,
			Name:           standard.Name,
			Description:    standard.Description,
			Periodicity:    standard.Periodicity,
			IsFromStandard: true,
			IsDisabled:     false,
		})
		if err != nil {
			return err
		}

		for _, op := range operations {
			if err := s.cloneOperation(ctx, tx, &op, procedureID); err != nil {
				return err
			}
		}

		// Окно событий регистрируется ровно один раз, вместе с регламентом
		return s.pmpEventSvc.RequestWindowInTx(ctx, tx, procedureID, equipment.ID, project)
	})
}

func (s *EquipmentCloner) cloneOperation(ctx context.Context, tx pgx.Tx, standard *entities.StandardOperation, procedureID uint64) error {
	operationID, err := s.procedureRepo.CreateOperationInTx(ctx, tx, &entities.MaintenanceOperation{
		ProcedureID: procedureID,
		Name:        standard.Name,
		Type:        standard.Type,
		Position:    standard.Position,
	})
	if err != nil {
		return err
	}

	switch standard.Type {
	case constants.OperationTypeVisual:
		labels, err := s.standardRepo.GetLabelsByOperation(ctx, standard.ID)
		if err != nil {
			return err
		}
		for _, label := range labels {
			err := s.procedureRepo.CreateLabelInTx(ctx, tx, &entities.MaintenanceOperationLabel{
				OperationID: operationID,
				Name:        label.Name,
			})
			if err != nil {
				return err
			}
		}
	case constants.OperationTypeParameter:
		parameters, err := s.standardRepo.GetParametersByOperation(ctx, standard.ID)
		if err != nil {
			return err
		}
		for _, parameter := range parameters {
			err := s.procedureRepo.CreateParameterInTx(ctx, tx, &entities.MaintenanceOperationParameter{
				OperationID: operationID,
				Name:        parameter.Name,
				MinValue:    parameter.MinValue,
				MaxValue:    parameter.MaxValue,
				UnitID:      parameter.UnitID,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
