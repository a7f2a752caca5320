package repository

import (
	"context"

	"github.com/taskboardhq/taskboard/internal/model"
)

type TaskRepository interface {
	// ListByOwner returns every task for the owner ordered by
	// ("order" asc, created_at asc).
	ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
	// MaxOrder reports the highest order value among the owner's tasks.
	// exists is false when the owner has no tasks.
	MaxOrder(ctx context.Context, ownerID string) (max int, exists bool, err error)
	Create(ctx context.Context, task model.Task) (model.Task, error)
	GetByID(ctx context.Context, ownerID, taskID string) (model.Task, error)
	Update(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
	// Reorder sets order = index for each id in sequence, scoped to the
	// owner; ids not owned by ownerID are skipped by the predicate.
	Reorder(ctx context.Context, ownerID string, orderedIDs []string) error
}
