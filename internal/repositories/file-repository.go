package repositories

import (
	"context"

	"maintenance-system/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	FileKindMedia         = "media"
	FileKindDocumentation = "documentation"
)

type FileRepositoryInterface interface {
	FindExistingFileIDs(ctx context.Context, ids []uint64) ([]uint64, error)
	GetEquipmentFiles(ctx context.Context, equipmentID uint64, kind string) ([]entities.File, error)
	ReplaceEquipmentFilesInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, kind string, fileIDs []uint64) error
}

type FileRepository struct {
	storage *pgxpool.Pool
}

func NewFileRepository(storage *pgxpool.Pool) FileRepositoryInterface {
	return &FileRepository{
		storage: storage,
	}
}

// FindExistingFileIDs возвращает только реально существующие идентификаторы.
// Несуществующие молча отбрасываются — привязка файлов не должна ронять
// создание оборудования.
func (r *FileRepository) FindExistingFileIDs(ctx context.Context, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id FROM files WHERE id = ANY($1) ORDER BY id`
	rows, err := r.storage.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var existing []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing = append(existing, id)
	}
	return existing, rows.Err()
}

func (r *FileRepository) GetEquipmentFiles(ctx context.Context, equipmentID uint64, kind string) ([]entities.File, error) {
	query := `
		SELECT f.id, f.uuid, f.name, f.path, f.created_at, f.updated_at
		FROM files f
			JOIN equipment_files ef ON ef.file_id = f.id
		WHERE ef.equipment_id = $1 AND ef.kind = $2
		ORDER BY f.id
	`
	rows, err := r.storage.Query(ctx, query, equipmentID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []entities.File
	for rows.Next() {
		var f entities.File
		if err := rows.Scan(&f.ID, &f.UUID, &f.Name, &f.Path, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *FileRepository) ReplaceEquipmentFilesInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, kind string, fileIDs []uint64) error {
	deleteQuery := `DELETE FROM equipment_files WHERE equipment_id = $1 AND kind = $2`
	if _, err := tx.Exec(ctx, deleteQuery, equipmentID, kind); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO equipment_files (equipment_id, file_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	for _, fileID := range fileIDs {
		if _, err := tx.Exec(ctx, insertQuery, equipmentID, fileID, kind); err != nil {
			return err
		}
	}
	return nil
}
