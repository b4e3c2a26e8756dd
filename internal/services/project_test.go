package services

import (
	"context"
	"testing"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProjectRepo struct {
	projects    map[uint64]*entities.Project
	members     map[uint64]map[uint64]bool
	accessCalls int
}

func (r *fakeProjectRepo) FindProject(ctx context.Context, id uint64) (*entities.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	return p, nil
}

func (r *fakeProjectRepo) HasUserAccess(ctx context.Context, projectID, userID uint64) (bool, error) {
	r.accessCalls++
	return r.members[projectID][userID], nil
}

func (r *fakeProjectRepo) TouchGlobalUpdatedAt(ctx context.Context, id uint64) error {
	return nil
}

type fakeCacheRepo struct {
	values map[string]string
}

func (r *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	v, ok := r.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (r *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	r.values[key] = value.(string)
	return nil
}

func (r *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}

func newProjectTestService() (*fakeProjectRepo, *fakeCacheRepo, ProjectServiceInterface) {
	projectRepo := &fakeProjectRepo{
		projects: map[uint64]*entities.Project{
			1: {ID: 1, Name: "Котельная", Status: constants.ProjectStatusActive},
			2: {ID: 2, Name: "Старый цех", Status: constants.ProjectStatusArchived},
		},
		members: map[uint64]map[uint64]bool{
			1: {77: true},
		},
	}
	cacheRepo := &fakeCacheRepo{values: make(map[string]string)}
	return projectRepo, cacheRepo, NewProjectService(projectRepo, cacheRepo, zap.NewNop())
}

func TestFindWritableProject(t *testing.T) {
	_, _, svc := newProjectTestService()

	_, err := svc.FindWritableProject(context.Background(), 1)
	assert.NoError(t, err)

	_, err = svc.FindWritableProject(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrProjectArchived)

	_, err = svc.FindWritableProject(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestCheckUserAccessCached(t *testing.T) {
	projectRepo, _, svc := newProjectTestService()

	require.NoError(t, svc.CheckUserAccess(context.Background(), 1, 77))
	require.NoError(t, svc.CheckUserAccess(context.Background(), 1, 77))
	assert.Equal(t, 1, projectRepo.accessCalls, "повторная проверка берётся из кеша")
}

func TestCheckUserAccessDenied(t *testing.T) {
	projectRepo, cacheRepo, svc := newProjectTestService()

	err := svc.CheckUserAccess(context.Background(), 1, 99)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	assert.Empty(t, cacheRepo.values, "отказ не кешируется")
	assert.Equal(t, 1, projectRepo.accessCalls)
}
