package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/internal/model"
	"github.com/taskboardhq/taskboard/internal/repository"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	Deadline    *string // YYYY-MM-DD
}

// UpdateTaskInput carries only the fields present in the request. A nil
// pointer means "leave unchanged"; DeadlineSet distinguishes an explicit
// null (clear the deadline) from an absent field.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	Deadline    *string
	DeadlineSet bool
	Order       *int
}

type TaskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, ownerID string, input CreateTaskInput) (model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	max, exists, err := s.repo.MaxOrder(ctx, ownerID)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to compute task order: %w", err)
	}
	order := 0
	if exists {
		order = max + 1
	}

	task := model.Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      model.NormalizeStatus(input.Status),
		Priority:    model.NormalizePriority(input.Priority),
		Deadline:    trimDeadline(input.Deadline),
		Order:       order,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return created, nil
}

func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, input UpdateTaskInput) (model.Task, error) {
	existing, err := s.repo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task for update: %w", err)
	}

	if input.Title != nil {
		existing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		existing.Description = strings.TrimSpace(*input.Description)
	}
	// Invalid status/priority values are ignored, not rejected.
	if input.Status != nil {
		if st := model.TaskStatus(*input.Status); st.IsValid() {
			existing.Status = st
		}
	}
	if input.Priority != nil {
		if pr := model.TaskPriority(*input.Priority); pr.IsValid() {
			existing.Priority = pr
		}
	}
	if input.DeadlineSet {
		existing.Deadline = trimDeadline(input.Deadline)
	}
	if input.Order != nil {
		existing.Order = *input.Order
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		// The row can vanish between GetByID and the write.
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	err := s.repo.Delete(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Reorder assigns order = index for each id in sequence. Ids that do not
// belong to the owner are skipped by the repository predicate rather than
// rejected.
func (s *TaskService) Reorder(ctx context.Context, ownerID string, orderedIDs []string) ([]string, error) {
	if err := s.repo.Reorder(ctx, ownerID, orderedIDs); err != nil {
		return nil, fmt.Errorf("failed to reorder tasks: %w", err)
	}
	return orderedIDs, nil
}

func trimDeadline(deadline *string) *string {
	if deadline == nil {
		return nil
	}
	d := strings.TrimSpace(*deadline)
	if d == "" {
		return nil
	}
	return &d
}
