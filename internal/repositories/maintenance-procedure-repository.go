package repositories

import (
	"context"
	"errors"
	"time"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MaintenanceProcedureRepositoryInterface interface {
	FindProcedure(ctx context.Context, id uint64) (*entities.MaintenanceProcedure, error)
	FindProceduresByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceProcedure, error)
	CreateProcedureInTx(ctx context.Context, tx pgx.Tx, procedure *entities.MaintenanceProcedure) (uint64, error)
	CreateOperationInTx(ctx context.Context, tx pgx.Tx, operation *entities.MaintenanceOperation) (uint64, error)
	CreateLabelInTx(ctx context.Context, tx pgx.Tx, label *entities.MaintenanceOperationLabel) error
	CreateParameterInTx(ctx context.Context, tx pgx.Tx, parameter *entities.MaintenanceOperationParameter) error
	SetDisabled(ctx context.Context, id uint64, isDisabled bool, toggleDate *time.Time) error
	SetDisabledInTx(ctx context.Context, tx pgx.Tx, id uint64, isDisabled bool, toggleDate *time.Time) error
}

type MaintenanceProcedureRepository struct {
	storage *pgxpool.Pool
}

func NewMaintenanceProcedureRepository(storage *pgxpool.Pool) MaintenanceProcedureRepositoryInterface {
	return &MaintenanceProcedureRepository{
		storage: storage,
	}
}

const procedureFields = `mp.id, mp.equipment_id, mp.name, mp.description, mp.periodicity,
	mp.is_from_standard, mp.is_disabled, mp.toggle_date, mp.created_at, mp.updated_at`

func scanProcedure(row pgx.Row) (*entities.MaintenanceProcedure, error) {
	var p entities.MaintenanceProcedure
	err := row.Scan(
		&p.ID,
		&p.EquipmentID,
		&p.Name,
		&p.Description,
		&p.Periodicity,
		&p.IsFromStandard,
		&p.IsDisabled,
		&p.ToggleDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProcedureNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MaintenanceProcedureRepository) FindProcedure(ctx context.Context, id uint64) (*entities.MaintenanceProcedure, error) {
	query := `
		SELECT ` + procedureFields + `
		FROM maintenance_procedures mp
		WHERE mp.id = $1
	`
	return scanProcedure(r.storage.QueryRow(ctx, query, id))
}

func (r *MaintenanceProcedureRepository) FindProceduresByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceProcedure, error) {
	query := `
		SELECT ` + procedureFields + `
		FROM maintenance_procedures mp
		WHERE mp.equipment_id = $1
		ORDER BY mp.id
	`
	rows, err := r.storage.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var procedures []entities.MaintenanceProcedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		procedures = append(procedures, *p)
	}
	return procedures, rows.Err()
}

func (r *MaintenanceProcedureRepository) CreateProcedureInTx(ctx context.Context, tx pgx.Tx, procedure *entities.MaintenanceProcedure) (uint64, error) {
	query := `
		INSERT INTO maintenance_procedures
			(equipment_id, name, description, periodicity, is_from_standard, is_disabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id uint64
	err := tx.QueryRow(ctx, query,
		procedure.EquipmentID,
		procedure.Name,
		procedure.Description,
		procedure.Periodicity,
		procedure.IsFromStandard,
		procedure.IsDisabled,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *MaintenanceProcedureRepository) CreateOperationInTx(ctx context.Context, tx pgx.Tx, operation *entities.MaintenanceOperation) (uint64, error) {
	query := `
		INSERT INTO maintenance_operations (procedure_id, name, type, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id uint64
	err := tx.QueryRow(ctx, query,
		operation.ProcedureID,
		operation.Name,
		operation.Type,
		operation.Position,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *MaintenanceProcedureRepository) CreateLabelInTx(ctx context.Context, tx pgx.Tx, label *entities.MaintenanceOperationLabel) error {
	query := `
		INSERT INTO maintenance_operation_labels (operation_id, name)
		VALUES ($1, $2)
	`
	_, err := tx.Exec(ctx, query, label.OperationID, label.Name)
	return err
}

func (r *MaintenanceProcedureRepository) CreateParameterInTx(ctx context.Context, tx pgx.Tx, parameter *entities.MaintenanceOperationParameter) error {
	query := `
		INSERT INTO maintenance_operation_parameters (operation_id, name, min_value, max_value, unit_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.Exec(ctx, query,
		parameter.OperationID,
		parameter.Name,
		parameter.MinValue,
		parameter.MaxValue,
		parameter.UnitID,
	)
	return err
}

func setProcedureDisabled(ctx context.Context, q querier, id uint64, isDisabled bool, toggleDate *time.Time) error {
	query := `
		UPDATE maintenance_procedures
		SET is_disabled = $1, toggle_date = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	result, err := q.Exec(ctx, query, isDisabled, toggleDate, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrProcedureNotFound
	}
	return nil
}

func (r *MaintenanceProcedureRepository) SetDisabled(ctx context.Context, id uint64, isDisabled bool, toggleDate *time.Time) error {
	return setProcedureDisabled(ctx, r.storage, id, isDisabled, toggleDate)
}

func (r *MaintenanceProcedureRepository) SetDisabledInTx(ctx context.Context, tx pgx.Tx, id uint64, isDisabled bool, toggleDate *time.Time) error {
	return setProcedureDisabled(ctx, tx, id, isDisabled, toggleDate)
}
