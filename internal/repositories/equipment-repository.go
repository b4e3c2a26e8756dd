package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const equipmentTable = "equipments"
const equipmentFields = `e.id, e.name, e.state, e.toggle_date, e.is_readonly, e.is_deletable,
	e.project_id, e.equipment_model_id, e.manufacturer_id,
	e.category_group_id, e.project_category_id,
	e.standard_category_group_id, e.standard_category_id,
	e.created_at, e.updated_at`
const projectFieldsForEquipmentJoin = "p.id, p.name, p.status, p.start_date, p.global_updated_at"

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, projectID uint64, filter types.Filter) ([]map[string]interface{}, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	CreateEquipmentInTx(ctx context.Context, tx pgx.Tx, equipment *entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, id uint64, equipment *entities.Equipment) error
	UpdateLifecycle(ctx context.Context, id uint64, state string, toggleDate *time.Time, isReadonly bool) error
	UpdateLifecycleInTx(ctx context.Context, tx pgx.Tx, id uint64, state string, toggleDate *time.Time, isReadonly bool) error
	SetReadonly(ctx context.Context, id uint64) error
	DeleteEquipment(ctx context.Context, id uint64) error
	FindDueToggles(ctx context.Context, day time.Time) ([]entities.Equipment, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{
		storage: storage,
	}
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, projectID uint64, filter types.Filter) ([]map[string]interface{}, uint64, error) {
	where := map[string]interface{}{}
	if projectID != 0 {
		where["e.project_id"] = projectID
	}

	data, total, err := FetchDataAndCount(ctx, r.storage, Params{
		Table:   equipmentTable + " AS e",
		Columns: "e.id, e.name, e.state, e.toggle_date, e.is_readonly, e.is_deletable, e.project_id, e.project_category_id, e.category_group_id, pc.name AS project_category_name, cg.name AS category_group_name",
		Relations: []Join{
			{Table: "equipment_project_categories", Alias: "pc", OnLeft: "pc.id", OnRight: "e.project_category_id", JoinType: "LEFT"},
			{Table: "equipment_category_groups", Alias: "cg", OnLeft: "cg.id", OnRight: "e.category_group_id", JoinType: "LEFT"},
		},
		WithPg:                true,
		Limit:                 uint64(filter.Limit),
		Offset:                uint64(filter.Offset),
		Search:                filter.Search,
		OrderBy:               "e.id ASC",
		Where:                 where,
		Filter:                filter.Filter,
		AllowedFilterCollumns: []string{"e.state", "e.project_category_id", "e.category_group_id"},
		AllowedSearchCollumns: []string{"e.name"},
	})

	return data, total, err
}

func scanEquipment(row pgx.Row, withProject bool) (*entities.Equipment, error) {
	var equipment entities.Equipment
	var project entities.Project

	dest := []interface{}{
		&equipment.ID,
		&equipment.Name,
		&equipment.State,
		&equipment.ToggleDate,
		&equipment.IsReadonly,
		&equipment.IsDeletable,
		&equipment.ProjectID,
		&equipment.EquipmentModelID,
		&equipment.ManufacturerID,
		&equipment.CategoryGroupID,
		&equipment.ProjectCategoryID,
		&equipment.StandardCategoryGroupID,
		&equipment.StandardCategoryID,
		&equipment.CreatedAt,
		&equipment.UpdatedAt,
	}
	if withProject {
		dest = append(dest,
			&project.ID,
			&project.Name,
			&project.Status,
			&project.StartDate,
			&project.GlobalUpdatedAt,
		)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEquipmentNotFound
		}
		return nil, err
	}

	if withProject {
		equipment.Project = &project
	}
	return &equipment, nil
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf(`
		SELECT
			%s,
			%s
		FROM %s e
			JOIN projects p ON e.project_id = p.id
		WHERE e.id = $1
	`, equipmentFields, projectFieldsForEquipmentJoin, equipmentTable)

	return scanEquipment(r.storage.QueryRow(ctx, query, id), true)
}

// FindEquipmentForUpdateInTx блокирует строку оборудования до конца транзакции.
// Сериализует конкурирующие мутации жизненного цикла (интерактив против свипа).
func (r *EquipmentRepository) FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf(`
		SELECT
			%s
		FROM %s e
		WHERE e.id = $1
		FOR UPDATE OF e
	`, equipmentFields, equipmentTable)

	return scanEquipment(tx.QueryRow(ctx, query, id), false)
}

func (r *EquipmentRepository) CreateEquipmentInTx(ctx context.Context, tx pgx.Tx, equipment *entities.Equipment) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, state, is_readonly, is_deletable, project_id,
			equipment_model_id, manufacturer_id, category_group_id, project_category_id,
			standard_category_group_id, standard_category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, equipmentTable)

	var id uint64
	err := tx.QueryRow(ctx, query,
		equipment.Name,
		equipment.State,
		equipment.IsReadonly,
		equipment.IsDeletable,
		equipment.ProjectID,
		equipment.EquipmentModelID,
		equipment.ManufacturerID,
		equipment.CategoryGroupID,
		equipment.ProjectCategoryID,
		equipment.StandardCategoryGroupID,
		equipment.StandardCategoryID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, id uint64, equipment *entities.Equipment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, state = $2, equipment_model_id = $3, manufacturer_id = $4,
			category_group_id = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
	`, equipmentTable)

	result, err := r.storage.Exec(ctx, query,
		equipment.Name,
		equipment.State,
		equipment.EquipmentModelID,
		equipment.ManufacturerID,
		equipment.CategoryGroupID,
		id,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEquipmentNotFound
	}
	return nil
}

func lifecycleUpdate(ctx context.Context, q querier, id uint64, state string, toggleDate *time.Time, isReadonly bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET state = $1, toggle_date = $2, is_readonly = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`, equipmentTable)

	result, err := q.Exec(ctx, query, state, toggleDate, isReadonly, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrEquipmentNotFound
	}
	return nil
}

func (r *EquipmentRepository) UpdateLifecycle(ctx context.Context, id uint64, state string, toggleDate *time.Time, isReadonly bool) error {
	return lifecycleUpdate(ctx, r.storage, id, state, toggleDate, isReadonly)
}

func (r *EquipmentRepository) UpdateLifecycleInTx(ctx context.Context, tx pgx.Tx, id uint64, state string, toggleDate *time.Time, isReadonly bool) error {
	return lifecycleUpdate(ctx, tx, id, state, toggleDate, isReadonly)
}

func (r *EquipmentRepository) SetReadonly(ctx context.Context, id uint64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET is_readonly = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = $1
	`, equipmentTable)

	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrEquipmentNotFound
	}
	return nil
}

func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", equipmentTable)

	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503 — нарушение внешнего ключа: оборудование используется
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.ErrEquipmentInUse
		}
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEquipmentNotFound
	}
	return nil
}

// FindDueToggles отбирает оборудование, у которого наступила дата
// отложенного переключения. Без блокировок: свип перечитывает каждую
// строку FOR UPDATE уже в своей транзакции.
func (r *EquipmentRepository) FindDueToggles(ctx context.Context, day time.Time) ([]entities.Equipment, error) {
	query := fmt.Sprintf(`
		SELECT
			%s
		FROM %s e
		WHERE e.toggle_date = $1
			AND e.state <> $2
		ORDER BY e.id
	`, equipmentFields, equipmentTable)

	rows, err := r.storage.Query(ctx, query, day, constants.EquipmentStateArchived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []entities.Equipment
	for rows.Next() {
		equipment, err := scanEquipment(rows, false)
		if err != nil {
			return nil, err
		}
		result = append(result, *equipment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
