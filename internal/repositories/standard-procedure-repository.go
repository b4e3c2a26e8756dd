package repositories

import (
	"context"
	"errors"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Каталог стандартных шаблонов. Репозиторий только читает:
// шаблоны заводятся отдельным административным контуром.
type StandardProcedureRepositoryInterface interface {
	FindCategoryGroup(ctx context.Context, id uint64) (*entities.StandardEquipmentCategoryGroup, error)
	GetProceduresByCategoryGroup(ctx context.Context, categoryGroupID uint64) ([]entities.StandardProcedure, error)
	GetOperationsByProcedure(ctx context.Context, procedureID uint64) ([]entities.StandardOperation, error)
	GetLabelsByOperation(ctx context.Context, operationID uint64) ([]entities.StandardOperationLabel, error)
	GetParametersByOperation(ctx context.Context, operationID uint64) ([]entities.StandardOperationParameter, error)
}

type StandardProcedureRepository struct {
	storage *pgxpool.Pool
}

func NewStandardProcedureRepository(storage *pgxpool.Pool) StandardProcedureRepositoryInterface {
	return &StandardProcedureRepository{
		storage: storage,
	}
}

func (r *StandardProcedureRepository) FindCategoryGroup(ctx context.Context, id uint64) (*entities.StandardEquipmentCategoryGroup, error) {
	query := `
		SELECT id, name, category_id, created_at, updated_at
		FROM standard_equipment_category_groups
		WHERE id = $1
	`
	var group entities.StandardEquipmentCategoryGroup
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.CategoryID,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStandardCategoryGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *StandardProcedureRepository) GetProceduresByCategoryGroup(ctx context.Context, categoryGroupID uint64) ([]entities.StandardProcedure, error) {
	query := `
		SELECT id, category_group_id, name, description, periodicity, created_at, updated_at
		FROM standard_procedures
		WHERE category_group_id = $1
		ORDER BY id
	`
	rows, err := r.storage.Query(ctx, query, categoryGroupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var procedures []entities.StandardProcedure
	for rows.Next() {
		var p entities.StandardProcedure
		if err := rows.Scan(&p.ID, &p.CategoryGroupID, &p.Name, &p.Description, &p.Periodicity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		procedures = append(procedures, p)
	}
	return procedures, rows.Err()
}

func (r *StandardProcedureRepository) GetOperationsByProcedure(ctx context.Context, procedureID uint64) ([]entities.StandardOperation, error) {
	query := `
		SELECT id, procedure_id, name, type, position, created_at, updated_at
		FROM standard_operations
		WHERE procedure_id = $1
		ORDER BY position, id
	`
	rows, err := r.storage.Query(ctx, query, procedureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var operations []entities.StandardOperation
	for rows.Next() {
		var op entities.StandardOperation
		if err := rows.Scan(&op.ID, &op.ProcedureID, &op.Name, &op.Type, &op.Position, &op.CreatedAt, &op.UpdatedAt); err != nil {
			return nil, err
		}
		operations = append(operations, op)
	}
	return operations, rows.Err()
}

func (r *StandardProcedureRepository) GetLabelsByOperation(ctx context.Context, operationID uint64) ([]entities.StandardOperationLabel, error) {
	query := `
		SELECT id, operation_id, name, created_at, updated_at
		FROM standard_operation_labels
		WHERE operation_id = $1
		ORDER BY id
	`
	rows, err := r.storage.Query(ctx, query, operationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []entities.StandardOperationLabel
	for rows.Next() {
		var l entities.StandardOperationLabel
		if err := rows.Scan(&l.ID, &l.OperationID, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (r *StandardProcedureRepository) GetParametersByOperation(ctx context.Context, operationID uint64) ([]entities.StandardOperationParameter, error) {
	query := `
		SELECT id, operation_id, name, min_value, max_value, unit_id, created_at, updated_at
		FROM standard_operation_parameters
		WHERE operation_id = $1
		ORDER BY id
	`
	rows, err := r.storage.Query(ctx, query, operationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parameters []entities.StandardOperationParameter
	for rows.Next() {
		var p entities.StandardOperationParameter
		if err := rows.Scan(&p.ID, &p.OperationID, &p.Name, &p.MinValue, &p.MaxValue, &p.UnitID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		parameters = append(parameters, p)
	}
	return parameters, rows.Err()
}
