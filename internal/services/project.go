package services

import (
	"context"
	"fmt"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"

	"go.uber.org/zap"
)

const projectAccessCacheTTL = 5 * time.Minute

type ProjectServiceInterface interface {
	FindProject(ctx context.Context, id uint64) (*entities.Project, error)
	FindWritableProject(ctx context.Context, id uint64) (*entities.Project, error)
	CheckUserAccess(ctx context.Context, projectID, userID uint64) error
	TouchGlobalUpdatedAt(ctx context.Context, id uint64) error
}

type ProjectService struct {
	projectRepo repositories.ProjectRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	logger      *zap.Logger
}

func NewProjectService(
	projectRepo repositories.ProjectRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) ProjectServiceInterface {
	return &ProjectService{
		projectRepo: projectRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

func (s *ProjectService) FindProject(ctx context.Context, id uint64) (*entities.Project, error) {
	return s.projectRepo.FindProject(ctx, id)
}

// FindWritableProject возвращает проект, если он открыт для изменений.
// Архивный проект не принимает мутаций оборудования.
func (s *ProjectService) FindWritableProject(ctx context.Context, id uint64) (*entities.Project, error) {
	project, err := s.projectRepo.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Status == constants.ProjectStatusArchived {
		return nil, apperrors.ErrProjectArchived
	}
	return project, nil
}

// CheckUserAccess проверяет членство пользователя в проекте.
// Положительный ответ кешируется, чтобы не ходить в базу на каждый запрос.
func (s *ProjectService) CheckUserAccess(ctx context.Context, projectID, userID uint64) error {
	cacheKey := fmt.Sprintf("project_access:%d:%d", projectID, userID)

	if cached, err := s.cacheRepo.Get(ctx, cacheKey); err == nil && cached == "1" {
		return nil
	}

	hasAccess, err := s.projectRepo.HasUserAccess(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !hasAccess {
		s.logger.Warn("Отказ в доступе к проекту",
			zap.Uint64("project_id", projectID),
			zap.Uint64("user_id", userID))
		return apperrors.ErrAccessDenied
	}

	if err := s.cacheRepo.Set(ctx, cacheKey, "1", projectAccessCacheTTL); err != nil {
		// Кеш не критичен: живём без него, но шумим в лог
		s.logger.Warn("Не удалось записать доступ к проекту в кеш", zap.Error(err))
	}
	return nil
}

func (s *ProjectService) TouchGlobalUpdatedAt(ctx context.Context, id uint64) error {
	return s.projectRepo.TouchGlobalUpdatedAt(ctx, id)
}
