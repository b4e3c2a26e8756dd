package repositories

import (
	"context"
	"errors"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepositoryInterface interface {
	FindProject(ctx context.Context, id uint64) (*entities.Project, error)
	HasUserAccess(ctx context.Context, projectID, userID uint64) (bool, error)
	TouchGlobalUpdatedAt(ctx context.Context, id uint64) error
}

type ProjectRepository struct {
	storage *pgxpool.Pool
}

func NewProjectRepository(storage *pgxpool.Pool) ProjectRepositoryInterface {
	return &ProjectRepository{
		storage: storage,
	}
}

func (r *ProjectRepository) FindProject(ctx context.Context, id uint64) (*entities.Project, error) {
	query := `
		SELECT id, name, status, start_date, global_updated_at
		FROM projects
		WHERE id = $1
	`
	var project entities.Project
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Status,
		&project.StartDate,
		&project.GlobalUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) HasUserAccess(ctx context.Context, projectID, userID uint64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM project_members
			WHERE project_id = $1 AND user_id = $2
		)
	`
	var hasAccess bool
	if err := r.storage.QueryRow(ctx, query, projectID, userID).Scan(&hasAccess); err != nil {
		return false, err
	}
	return hasAccess, nil
}

// TouchGlobalUpdatedAt сдвигает глобальную отметку проекта — клиенты по ней
// понимают, что состав оборудования изменился.
func (r *ProjectRepository) TouchGlobalUpdatedAt(ctx context.Context, id uint64) error {
	query := `
		UPDATE projects SET global_updated_at = CURRENT_TIMESTAMP WHERE id = $1
	`
	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}
