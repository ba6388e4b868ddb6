package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotforge-api/internal/domain/entity"
	"plotforge-api/internal/domain/repository"
	apperrors "plotforge-api/pkg/errors"
)

type fakeProjectRepo struct {
	projects map[string]*entity.Project
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *entity.Project) error { return nil }

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	return r.projects[id], nil
}

func (r *fakeProjectRepo) ListByUser(ctx context.Context, userID string, p repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	return repository.NewPagedResult([]*entity.Project{}, 0, p), nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, p *entity.Project) error { return nil }
func (r *fakeProjectRepo) Delete(ctx context.Context, id string) error         { return nil }

func newTestChecker() *Checker {
	return NewChecker(&fakeProjectRepo{projects: map[string]*entity.Project{
		"p1": {
			ID:      "p1",
			OwnerID: "owner",
			Collaborators: []entity.Collaborator{
				{UserID: "editor", Role: entity.RoleEditor},
				{UserID: "viewer", Role: entity.RoleViewer},
			},
		},
	}})
}

func TestChecker(t *testing.T) {
	checker := newTestChecker()
	ctx := context.Background()

	t.Run("所有者可读可写", func(t *testing.T) {
		assert.NoError(t, checker.CanRead(ctx, "owner", "p1"))
		assert.NoError(t, checker.CanWrite(ctx, "owner", "p1"))
		assert.NoError(t, checker.IsOwner(ctx, "owner", "p1"))
	})

	t.Run("editor 可读可写但非所有者", func(t *testing.T) {
		assert.NoError(t, checker.CanRead(ctx, "editor", "p1"))
		assert.NoError(t, checker.CanWrite(ctx, "editor", "p1"))
		assert.Error(t, checker.IsOwner(ctx, "editor", "p1"))
	})

	t.Run("viewer 只读", func(t *testing.T) {
		assert.NoError(t, checker.CanRead(ctx, "viewer", "p1"))

		err := checker.CanWrite(ctx, "viewer", "p1")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeForbidden, apperrors.AsAppError(err).Code)
	})

	t.Run("非成员读写均拒绝", func(t *testing.T) {
		err := checker.CanRead(ctx, "stranger", "p1")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeForbidden, apperrors.AsAppError(err).Code)
		assert.Error(t, checker.CanWrite(ctx, "stranger", "p1"))
	})

	t.Run("未知项目返回 404 级错误", func(t *testing.T) {
		err := checker.CanRead(ctx, "owner", "missing")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeProjectNotFound, apperrors.AsAppError(err).Code)
	})
}
