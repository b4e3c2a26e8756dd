package repositories

import (
	"context"

	"maintenance-system/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EquipmentInputRepositoryInterface interface {
	GetByEquipment(ctx context.Context, equipmentID uint64) ([]entities.EquipmentInput, error)
	ReplaceInputsInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, inputs []entities.EquipmentInput) error
}

type EquipmentInputRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentInputRepository(storage *pgxpool.Pool) EquipmentInputRepositoryInterface {
	return &EquipmentInputRepository{
		storage: storage,
	}
}

func (r *EquipmentInputRepository) GetByEquipment(ctx context.Context, equipmentID uint64) ([]entities.EquipmentInput, error) {
	query := `
		SELECT id, equipment_id, name, value, unit_id, created_at, updated_at
		FROM equipment_inputs
		WHERE equipment_id = $1
		ORDER BY id
	`
	rows, err := r.storage.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inputs []entities.EquipmentInput
	for rows.Next() {
		var in entities.EquipmentInput
		if err := rows.Scan(&in.ID, &in.EquipmentID, &in.Name, &in.Value, &in.UnitID, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, rows.Err()
}

// ReplaceInputsInTx полностью заменяет набор характеристик оборудования.
func (r *EquipmentInputRepository) ReplaceInputsInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, inputs []entities.EquipmentInput) error {
	if _, err := tx.Exec(ctx, `DELETE FROM equipment_inputs WHERE equipment_id = $1`, equipmentID); err != nil {
		return err
	}

	query := `
		INSERT INTO equipment_inputs (equipment_id, name, value, unit_id)
		VALUES ($1, $2, $3, $4)
	`
	for _, in := range inputs {
		if _, err := tx.Exec(ctx, query, equipmentID, in.Name, in.Value, in.UnitID); err != nil {
			return err
		}
	}
	return nil
}
