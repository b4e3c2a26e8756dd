package repositories

import (
	"context"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepositoryInterface interface {
	GetByEquipment(ctx context.Context, equipmentID uint64) ([]entities.Location, error)
	ReplaceEquipmentLocationsInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, locations []entities.Location) error
}

type LocationRepository struct {
	storage *pgxpool.Pool
}

func NewLocationRepository(storage *pgxpool.Pool) LocationRepositoryInterface {
	return &LocationRepository{
		storage: storage,
	}
}

func (r *LocationRepository) GetByEquipment(ctx context.Context, equipmentID uint64) ([]entities.Location, error) {
	query := `
		SELECT l.id, l.project_id, l.scope, l.building, l.level, l.room, l.created_at, l.updated_at
		FROM locations l
			JOIN equipment_locations el ON el.location_id = l.id
		WHERE el.equipment_id = $1
		ORDER BY l.id
	`
	rows, err := r.storage.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []entities.Location
	for rows.Next() {
		var l entities.Location
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Scope, &l.Building, &l.Level, &l.Room, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *LocationRepository) ReplaceEquipmentLocationsInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, locations []entities.Location) error {
	unlinkQuery := `DELETE FROM equipment_locations WHERE equipment_id = $1`
	if _, err := tx.Exec(ctx, unlinkQuery, equipmentID); err != nil {
		return err
	}

	insertLocation := `
		INSERT INTO locations (project_id, scope, building, level, room)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	linkQuery := `INSERT INTO equipment_locations (equipment_id, location_id) VALUES ($1, $2)`

	for _, l := range locations {
		var locationID uint64
		err := tx.QueryRow(ctx, insertLocation,
			l.ProjectID,
			constants.LocationScopeEquipment,
			l.Building,
			l.Level,
			l.Room,
		).Scan(&locationID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, linkQuery, equipmentID, locationID); err != nil {
			return err
		}
	}
	return nil
}
