package services

import (
	"context"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, projectID uint64, filter types.Filter) ([]map[string]interface{}, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, userID uint64, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, userID, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	DisableEquipment(ctx context.Context, userID, id uint64, toggleDate time.Time) error
	EnableEquipment(ctx context.Context, userID, id uint64, toggleDate time.Time) error
	ArchiveEquipment(ctx context.Context, userID, id uint64) error
	MakeReadonly(ctx context.Context, userID, id uint64) error
	RemoveEquipment(ctx context.Context, userID, id uint64) error
	LinkEquipment(ctx context.Context, userID, sourceID, destinationID uint64) error
	UnlinkEquipment(ctx context.Context, userID, sourceID, destinationID uint64) error
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	referenceRepo repositories.EquipmentReferenceRepositoryInterface
	standardRepo  repositories.StandardProcedureRepositoryInterface
	linkRepo      repositories.EquipmentLinkRepositoryInterface
	inputRepo     repositories.EquipmentInputRepositoryInterface
	fileRepo      repositories.FileRepositoryInterface
	txManager     repositories.TxManagerInterface

	projectSvc   ProjectServiceInterface
	procedureSvc MaintenanceProcedureServiceInterface
	pmpEventSvc  PmpEventServiceInterface
	buildingSvc  BuildingServiceInterface
	cloner       EquipmentClonerInterface

	logger *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	referenceRepo repositories.EquipmentReferenceRepositoryInterface,
	standardRepo repositories.StandardProcedureRepositoryInterface,
	linkRepo repositories.EquipmentLinkRepositoryInterface,
	inputRepo repositories.EquipmentInputRepositoryInterface,
	fileRepo repositories.FileRepositoryInterface,
	txManager repositories.TxManagerInterface,
	projectSvc ProjectServiceInterface,
	procedureSvc MaintenanceProcedureServiceInterface,
	pmpEventSvc PmpEventServiceInterface,
	buildingSvc BuildingServiceInterface,
	cloner EquipmentClonerInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		referenceRepo: referenceRepo,
		standardRepo:  standardRepo,
		linkRepo:      linkRepo,
		inputRepo:     inputRepo,
		fileRepo:      fileRepo,
		txManager:     txManager,
		projectSvc:    projectSvc,
		procedureSvc:  procedureSvc,
		pmpEventSvc:   pmpEventSvc,
		buildingSvc:   buildingSvc,
		cloner:        cloner,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, projectID uint64, filter types.Filter) ([]map[string]interface{}, uint64, error) {
	return s.equipmentRepo.GetEquipments(ctx, projectID, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	if equipment.LinkedEquipmentIDs, err = s.linkRepo.GetLinkedIDs(ctx, id); err != nil {
		return nil, err
	}
	if equipment.EquipmentInputs, err = s.inputRepo.GetByEquipment(ctx, id); err != nil {
		return nil, err
	}
	if equipment.Locations, err = s.buildingSvc.GetEquipmentLocations(ctx, id); err != nil {
		return nil, err
	}
	if equipment.MaintenanceProcedures, err = s.procedureSvc.GetByEquipment(ctx, id); err != nil {
		return nil, err
	}
	if equipment.MediaFiles, err = s.fileRepo.GetEquipmentFiles(ctx, id, repositories.FileKindMedia); err != nil {
		return nil, err
	}
	if equipment.DocumentationFiles, err = s.fileRepo.GetEquipmentFiles(ctx, id, repositories.FileKindDocumentation); err != nil {
		return nil, err
	}
	return equipment, nil
}

// CreateEquipment заводит оборудование в состоянии draft и разворачивает
// для него стандартные регламенты выбранной группы.
func (s *EquipmentService) CreateEquipment(ctx context.Context, userID uint64, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	project, err := s.projectSvc.FindWritableProject(ctx, payload.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.projectSvc.CheckUserAccess(ctx, project.ID, userID); err != nil {
		return nil, err
	}

	if _, err := s.referenceRepo.FindEquipmentModel(ctx, payload.EquipmentModelID); err != nil {
		return nil, err
	}
	if _, err := s.referenceRepo.FindManufacturer(ctx, payload.ManufacturerID); err != nil {
		return nil, err
	}
	categoryGroup, err := s.referenceRepo.FindCategoryGroup(ctx, payload.EquipmentCategoryGroupID)
	if err != nil {
		return nil, err
	}
	standardGroup, err := s.standardRepo.FindCategoryGroup(ctx, payload.StandardCategoryGroupID)
	if err != nil {
		return nil, err
	}

	equipment := &entities.Equipment{
		Name:                    payload.Name,
		State:                   constants.EquipmentStateDraft,
		IsReadonly:              false,
		IsDeletable:             true,
		ProjectID:               project.ID,
		EquipmentModelID:        payload.EquipmentModelID,
		ManufacturerID:          payload.ManufacturerID,
		CategoryGroupID:         categoryGroup.ID,
		ProjectCategoryID:       categoryGroup.ProjectCategoryID,
		StandardCategoryGroupID: standardGroup.ID,
		StandardCategoryID:      standardGroup.CategoryID,
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.equipmentRepo.CreateEquipmentInTx(ctx, tx, equipment)
		if err != nil {
			return err
		}
		equipment.ID = id

		if len(payload.Inputs) > 0 {
			inputs := make([]entities.EquipmentInput, 0, len(payload.Inputs))
			for _, in := range payload.Inputs {
				inputs = append(inputs, entities.EquipmentInput{Name: in.Name, Value: in.Value, UnitID: in.UnitID})
			}
			if err := s.inputRepo.ReplaceInputsInTx(ctx, tx, id, inputs); err != nil {
				return err
			}
		}

		if payload.LocationDTOs != nil {
			if err := s.buildingSvc.ReplaceEquipmentLocationsInTx(ctx, tx, id, project.ID, *payload.LocationDTOs); err != nil {
				return err
			}
		}

		if err := s.attachFilesInTx(ctx, tx, id, repositories.FileKindMedia, payload.MediaFileIDs); err != nil {
			return err
		}
		return s.attachFilesInTx(ctx, tx, id, repositories.FileKindDocumentation, payload.DocumentationFileIDs)
	})
	if err != nil {
		return nil, err
	}

	// Клонирование идёт вне транзакции создания: каждый регламент коммитится
	// отдельно, падение на середине не откатывает уже созданное.
	if err := s.cloner.Instantiate(ctx, equipment, project); err != nil {
		return nil, err
	}

	if err := s.projectSvc.TouchGlobalUpdatedAt(ctx, project.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Создано оборудование",
		zap.Uint64("equipment_id", equipment.ID),
		zap.Uint64("project_id", project.ID),
		zap.Uint64("user_id", userID))

	return s.FindEquipment(ctx, equipment.ID)
}

// attachFilesInTx привязывает файлы, пропуская несуществующие идентификаторы.
func (s *EquipmentService) attachFilesInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, kind string, fileIDs []uint64) error {
	if len(fileIDs) == 0 {
		return nil
	}
	existing, err := s.fileRepo.FindExistingFileIDs(ctx, fileIDs)
	if err != nil {
		return err
	}
	if len(existing) < len(fileIDs) {
		s.logger.Warn("Часть файлов не найдена и пропущена",
			zap.Uint64("equipment_id", equipmentID),
			zap.String("kind", kind),
			zap.Int("requested", len(fileIDs)),
			zap.Int("attached", len(existing)))
	}
	return s.fileRepo.ReplaceEquipmentFilesInTx(ctx, tx, equipmentID, kind, existing)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, userID, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkMutable(ctx, equipment, userID); err != nil {
		return nil, err
	}
	if equipment.IsReadonly {
		return nil, apperrors.ErrEquipmentReadonly
	}

	activated := false
	if payload.State != nil && *payload.State != equipment.State {
		if !canRouteState(equipment.State, *payload.State) {
			return nil, apperrors.ErrInvalidStateTransition
		}
		activated = equipment.State == constants.EquipmentStateDraft && *payload.State == constants.EquipmentStateActive
		equipment.State = *payload.State
	}

	if payload.Name != nil {
		equipment.Name = *payload.Name
	}
	if payload.EquipmentModelID != nil {
		equipment.EquipmentModelID = *payload.EquipmentModelID
	}
	if payload.ManufacturerID != nil {
		equipment.ManufacturerID = *payload.ManufacturerID
	}

	if payload.EquipmentCategoryGroupID != nil {
		categoryGroup, err := s.referenceRepo.FindCategoryGroup(ctx, *payload.EquipmentCategoryGroupID)
		if err != nil {
			return nil, err
		}
		equipment.CategoryGroupID = categoryGroup.ID
		equipment.ProjectCategoryID = categoryGroup.ProjectCategoryID
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.equipmentRepo.UpdateEquipment(ctx, id, equipment); err != nil {
			return err
		}

		if payload.Inputs != nil {
			inputs := make([]entities.EquipmentInput, 0, len(*payload.Inputs))
			for _, in := range *payload.Inputs {
				inputs = append(inputs, entities.EquipmentInput{Name: in.Name, Value: in.Value, UnitID: in.UnitID})
			}
			if err := s.inputRepo.ReplaceInputsInTx(ctx, tx, id, inputs); err != nil {
				return err
			}
		}

		if payload.LocationDTOs != nil {
			if err := s.buildingSvc.ReplaceEquipmentLocationsInTx(ctx, tx, id, equipment.ProjectID, *payload.LocationDTOs); err != nil {
				return err
			}
		}

		if payload.MediaFileIDs != nil {
			if err := s.attachFilesInTx(ctx, tx, id, repositories.FileKindMedia, payload.MediaFileIDs); err != nil {
				return err
			}
		}
		if payload.DocumentationFileIDs != nil {
			if err := s.attachFilesInTx(ctx, tx, id, repositories.FileKindDocumentation, payload.DocumentationFileIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if activated {
		if err := s.pmpEventSvc.ActivateDraftEvents(ctx, id); err != nil {
			return nil, err
		}
		s.logger.Info("Оборудование активировано",
			zap.Uint64("equipment_id", id),
			zap.Uint64("user_id", userID))
	}

	if err := s.projectSvc.TouchGlobalUpdatedAt(ctx, equipment.ProjectID); err != nil {
		return nil, err
	}

	return s.FindEquipment(ctx, id)
}

// DisableEquipment отключает активное оборудование. Сегодняшняя дата —
// немедленный переход, будущая — отложенный до свипа. Каскад на регламенты
// выполняется сразу в обоих случаях.
func (s *EquipmentService) DisableEquipment(ctx context.Context, userID, id uint64, toggleDate time.Time) error {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkMutable(ctx, equipment, userID); err != nil {
		return err
	}
	if err := checkCanDisable(equipment.State); err != nil {
		return err
	}

	if err := s.procedureSvc.CascadeDisable(ctx, userID, id, toggleDate); err != nil {
		return err
	}

	// Под блокировкой строки — чтобы не разъехаться со свипом
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		locked, err := s.equipmentRepo.FindEquipmentForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := checkCanDisable(locked.State); err != nil {
			return err
		}
		if utils.IsToday(toggleDate) {
			return s.equipmentRepo.UpdateLifecycleInTx(ctx, tx, id, constants.EquipmentStateDisabled, nil, true)
		}
		pending := utils.StartOfDay(toggleDate)
		return s.equipmentRepo.UpdateLifecycleInTx(ctx, tx, id, locked.State, &pending, locked.IsReadonly)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Оборудование отключено",
		zap.Uint64("equipment_id", id),
		zap.Uint64("user_id", userID),
		zap.Bool("deferred", !utils.IsToday(toggleDate)))
	return nil
}

func (s *EquipmentService) EnableEquipment(ctx context.Context, userID, id uint64, toggleDate time.Time) error {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkMutable(ctx, equipment, userID); err != nil {
		return err
	}
	if err := checkCanEnable(equipment.State); err != nil {
		return err
	}

	if err := s.procedureSvc.CascadeEnable(ctx, userID, id, toggleDate); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		locked, err := s.equipmentRepo.FindEquipmentForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := checkCanEnable(locked.State); err != nil {
			return err
		}
		if utils.IsToday(toggleDate) {
			return s.equipmentRepo.UpdateLifecycleInTx(ctx, tx, id, constants.EquipmentStateActive, nil, false)
		}
		pending := utils.StartOfDay(toggleDate)
		return s.equipmentRepo.UpdateLifecycleInTx(ctx, tx, id, locked.State, &pending, locked.IsReadonly)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Оборудование включено",
		zap.Uint64("equipment_id", id),
		zap.Uint64("user_id", userID),
		zap.Bool("deferred", !utils.IsToday(toggleDate)))
	return nil
}

// ArchiveEquipment принимается из любого состояния и никогда не откладывается.
func (s *EquipmentService) ArchiveEquipment(ctx context.Context, userID, id uint64) error {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkMutable(ctx, equipment, userID); err != nil {
		return err
	}

	if err := s.procedureSvc.CascadeDisable(ctx, userID, id, time.Now()); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.equipmentRepo.FindEquipmentForUpdateInTx(ctx, tx, id); err != nil {
			return err
		}
		return s.equipmentRepo.UpdateLifecycleInTx(ctx, tx, id, constants.EquipmentStateArchived, nil, true)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Оборудование заархивировано",
		zap.Uint64("equipment_id", id),
		zap.Uint64("user_id", userID))
	return nil
}

// MakeReadonly блокирует оборудование и убирает события обслуживания
// каждого его регламента.
func (s *EquipmentService) MakeReadonly(ctx context.Context, userID, id uint64) error {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkMutable(ctx, equipment, userID); err != nil {
		return err
	}

	procedures, err := s.procedureSvc.GetByEquipment(ctx, id)
	if err != nil {
		return err
	}
	for _, p := range procedures {
		if err := s.pmpEventSvc.RemoveEventsForProcedure(ctx, p.ID); err != nil {
			return err
		}
	}

	return s.equipmentRepo.SetReadonly(ctx, id)
}

func (s *EquipmentService) RemoveEquipment(ctx context.Context, userID, id uint64) error {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkMutable(ctx, equipment, userID); err != nil {
		return err
	}
	if !equipment.IsDeletable {
		return apperrors.ErrEquipmentNotDeletable
	}
	if equipment.IsReadonly {
		return apperrors.ErrEquipmentReadonly
	}

	if err := s.equipmentRepo.DeleteEquipment(ctx, id); err != nil {
		return err
	}

	if err := s.projectSvc.TouchGlobalUpdatedAt(ctx, equipment.ProjectID); err != nil {
		return err
	}

	s.logger.Info("Оборудование удалено",
		zap.Uint64("equipment_id", id),
		zap.Uint64("user_id", userID))
	return nil
}

func (s *EquipmentService) LinkEquipment(ctx context.Context, userID, sourceID, destinationID uint64) error {
	if sourceID == destinationID {
		return apperrors.ErrSelfLink
	}

	source, err := s.equipmentRepo.FindEquipment(ctx, sourceID)
	if err != nil {
		return apperrors.ErrSourceEquipmentNotFound
	}
	destination, err := s.equipmentRepo.FindEquipment(ctx, destinationID)
	if err != nil {
		return apperrors.ErrDestinationEquipmentNotFound
	}

	if source.ProjectID != destination.ProjectID {
		return apperrors.ErrCrossProjectLink
	}
	if err := s.checkMutable(ctx, source, userID); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.linkRepo.LinkInTx(ctx, tx, sourceID, destinationID)
	})
}

func (s *EquipmentService) UnlinkEquipment(ctx context.Context, userID, sourceID, destinationID uint64) error {
	source, err := s.equipmentRepo.FindEquipment(ctx, sourceID)
	if err != nil {
		return apperrors.ErrSourceEquipmentNotFound
	}
	if _, err := s.equipmentRepo.FindEquipment(ctx, destinationID); err != nil {
		return apperrors.ErrDestinationEquipmentNotFound
	}
	if err := s.checkMutable(ctx, source, userID); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.linkRepo.UnlinkInTx(ctx, tx, sourceID, destinationID)
	})
}

// checkMutable — общий набор охран для мутаций: проект открыт и
// пользователь состоит в нём.
func (s *EquipmentService) checkMutable(ctx context.Context, equipment *entities.Equipment, userID uint64) error {
	if equipment.Project != nil && equipment.Project.Status == constants.ProjectStatusArchived {
		return apperrors.ErrProjectArchived
	}
	return s.projectSvc.CheckUserAccess(ctx, equipment.ProjectID, userID)
}
