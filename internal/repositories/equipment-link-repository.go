package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EquipmentLinkRepositoryInterface interface {
	LinkInTx(ctx context.Context, tx pgx.Tx, sourceID, destinationID uint64) error
	UnlinkInTx(ctx context.Context, tx pgx.Tx, sourceID, destinationID uint64) error
	GetLinkedIDs(ctx context.Context, equipmentID uint64) ([]uint64, error)
}

type EquipmentLinkRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentLinkRepository(storage *pgxpool.Pool) EquipmentLinkRepositoryInterface {
	return &EquipmentLinkRepository{
		storage: storage,
	}
}

// LinkInTx пишет связь в обе стороны. ON CONFLICT делает повторную
// привязку безвредной.
func (r *EquipmentLinkRepository) LinkInTx(ctx context.Context, tx pgx.Tx, sourceID, destinationID uint64) error {
	query := `
		INSERT INTO equipment_links (equipment_id, linked_equipment_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT (equipment_id, linked_equipment_id) DO NOTHING
	`
	_, err := tx.Exec(ctx, query, sourceID, destinationID)
	return err
}

func (r *EquipmentLinkRepository) UnlinkInTx(ctx context.Context, tx pgx.Tx, sourceID, destinationID uint64) error {
	query := `
		DELETE FROM equipment_links
		WHERE (equipment_id = $1 AND linked_equipment_id = $2)
			OR (equipment_id = $2 AND linked_equipment_id = $1)
	`
	_, err := tx.Exec(ctx, query, sourceID, destinationID)
	return err
}

func (r *EquipmentLinkRepository) GetLinkedIDs(ctx context.Context, equipmentID uint64) ([]uint64, error) {
	query := `
		SELECT linked_equipment_id
		FROM equipment_links
		WHERE equipment_id = $1
		ORDER BY linked_equipment_id
	`
	rows, err := r.storage.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
