package repositories

import (
	"context"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PmpEventRepositoryInterface interface {
	CreateWindowInTx(ctx context.Context, tx pgx.Tx, window *entities.PmpEventWindow) (uint64, error)
	ChangeEventsDraftToPlanned(ctx context.Context, equipmentID uint64) (int64, error)
	RemoveEventsForProcedure(ctx context.Context, procedureID uint64) (int64, error)
}

type PmpEventRepository struct {
	storage *pgxpool.Pool
}

func NewPmpEventRepository(storage *pgxpool.Pool) PmpEventRepositoryInterface {
	return &PmpEventRepository{
		storage: storage,
	}
}

// CreateWindowInTx фиксирует заявку на генерацию событий обслуживания.
// Расчётом конкретных дат занимается планировщик событий, не ядро.
func (r *PmpEventRepository) CreateWindowInTx(ctx context.Context, tx pgx.Tx, window *entities.PmpEventWindow) (uint64, error) {
	query := `
		INSERT INTO pmp_event_windows (procedure_id, equipment_id, project_id, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id uint64
	err := tx.QueryRow(ctx, query,
		window.ProcedureID,
		window.EquipmentID,
		window.ProjectID,
		window.StartDate,
		window.EndDate,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PmpEventRepository) ChangeEventsDraftToPlanned(ctx context.Context, equipmentID uint64) (int64, error) {
	query := `
		UPDATE pmp_events
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE equipment_id = $2 AND status = $3
	`
	result, err := r.storage.Exec(ctx, query, constants.PmpEventStatusPlanned, equipmentID, constants.PmpEventStatusDraft)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (r *PmpEventRepository) RemoveEventsForProcedure(ctx context.Context, procedureID uint64) (int64, error) {
	result, err := r.storage.Exec(ctx, `DELETE FROM pmp_events WHERE procedure_id = $1`, procedureID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
