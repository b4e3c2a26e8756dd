package repositories

import (
	"context"
	"errors"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Справочники оборудования: модели, производители, группы категорий.
// Все три — плоские таблицы, поэтому живут в одном репозитории.
type EquipmentReferenceRepositoryInterface interface {
	FindEquipmentModel(ctx context.Context, id uint64) (*entities.EquipmentModel, error)
	FindManufacturer(ctx context.Context, id uint64) (*entities.Manufacturer, error)
	FindCategoryGroup(ctx context.Context, id uint64) (*entities.EquipmentCategoryGroup, error)
}

type EquipmentReferenceRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentReferenceRepository(storage *pgxpool.Pool) EquipmentReferenceRepositoryInterface {
	return &EquipmentReferenceRepository{
		storage: storage,
	}
}

func (r *EquipmentReferenceRepository) FindEquipmentModel(ctx context.Context, id uint64) (*entities.EquipmentModel, error) {
	query := `SELECT id, name, created_at, updated_at FROM equipment_models WHERE id = $1`

	var model entities.EquipmentModel
	err := r.storage.QueryRow(ctx, query, id).Scan(&model.ID, &model.Name, &model.CreatedAt, &model.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEquipmentModelNotFound
		}
		return nil, err
	}
	return &model, nil
}

func (r *EquipmentReferenceRepository) FindManufacturer(ctx context.Context, id uint64) (*entities.Manufacturer, error) {
	query := `SELECT id, name, created_at, updated_at FROM manufacturers WHERE id = $1`

	var manufacturer entities.Manufacturer
	err := r.storage.QueryRow(ctx, query, id).Scan(&manufacturer.ID, &manufacturer.Name, &manufacturer.CreatedAt, &manufacturer.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrManufacturerNotFound
		}
		return nil, err
	}
	return &manufacturer, nil
}

func (r *EquipmentReferenceRepository) FindCategoryGroup(ctx context.Context, id uint64) (*entities.EquipmentCategoryGroup, error) {
	query := `SELECT id, name, project_category_id, created_at, updated_at FROM equipment_category_groups WHERE id = $1`

	var group entities.EquipmentCategoryGroup
	err := r.storage.QueryRow(ctx, query, id).Scan(&group.ID, &group.Name, &group.ProjectCategoryID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}
