package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/taskboardhq/taskboard/internal/client/store"
	"github.com/taskboardhq/taskboard/internal/model"
)

// TasksService keeps a TasksStore synchronized with the server. Load
// never returns request failures to the caller; they land in the store's
// error field for the UI to surface. The remaining operations both update
// the store and return the error so call sites can react.
type TasksService struct {
	client *Client
	store  *store.TasksStore
}

func NewTasksService(client *Client, tasksStore *store.TasksStore) *TasksService {
	return &TasksService{client: client, store: tasksStore}
}

func (s *TasksService) Store() *store.TasksStore { return s.store }

// Load fetches the full task list. Failures are recorded on the store.
func (s *TasksService) Load(ctx context.Context) {
	s.store.SetLoading(true)
	var tasks []model.Task
	if err := s.client.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		s.store.SetError(errorMessage(err, "failed to load tasks"))
		return
	}
	s.store.SetTasks(tasks)
}

// CreateTaskInput mirrors the create endpoint body. Title is required;
// the server applies the same check.
type CreateTaskInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
}

func (s *TasksService) Create(ctx context.Context, input CreateTaskInput) (model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		err := fmt.Errorf("title is required")
		s.store.SetError(err.Error())
		return model.Task{}, err
	}
	var created model.Task
	if err := s.client.do(ctx, http.MethodPost, "/api/tasks", input, &created); err != nil {
		s.store.SetError(errorMessage(err, "failed to create task"))
		return model.Task{}, err
	}
	s.store.AddTask(created)
	return created, nil
}

// UpdateTaskInput holds the subset of fields to change. Nil pointers are
// omitted from the request; ClearDeadline sends an explicit null.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	Deadline      *string
	ClearDeadline bool
	Order         *int
}

func (in UpdateTaskInput) body() map[string]any {
	body := map[string]any{}
	if in.Title != nil {
		body["title"] = *in.Title
	}
	if in.Description != nil {
		body["description"] = *in.Description
	}
	if in.Status != nil {
		body["status"] = *in.Status
	}
	if in.Priority != nil {
		body["priority"] = *in.Priority
	}
	if in.ClearDeadline {
		body["deadline"] = nil
	} else if in.Deadline != nil {
		body["deadline"] = *in.Deadline
	}
	if in.Order != nil {
		body["order"] = *in.Order
	}
	return body
}

// Update patches the remote task and merges the server's representation
// back into the store; the server is authoritative for timestamps.
func (s *TasksService) Update(ctx context.Context, id string, input UpdateTaskInput) (model.Task, error) {
	var updated model.Task
	if err := s.client.do(ctx, http.MethodPatch, "/api/tasks/"+id, input.body(), &updated); err != nil {
		s.store.SetError(errorMessage(err, "failed to update task"))
		return model.Task{}, err
	}
	s.store.UpdateTask(id, store.PatchFromTask(updated))
	return updated, nil
}

func (s *TasksService) Delete(ctx context.Context, id string) error {
	if err := s.client.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil); err != nil {
		s.store.SetError(errorMessage(err, "failed to delete task"))
		return err
	}
	s.store.RemoveTask(id)
	return nil
}

// Reorder applies the new sequence to the store immediately and then
// persists it. On failure the collection captured before the optimistic
// apply is restored and the error is recorded.
func (s *TasksService) Reorder(ctx context.Context, orderedIDs []string) error {
	snapshot := s.store.Tasks()
	s.store.ReorderTasks(orderedIDs)

	body := map[string]any{"order": orderedIDs}
	if err := s.client.do(ctx, http.MethodPatch, "/api/tasks/reorder", body, nil); err != nil {
		s.store.SetTasks(snapshot)
		s.store.SetError(errorMessage(err, "failed to reorder tasks"))
		return err
	}
	return nil
}

// errorMessage prefers the server-supplied message for API errors and
// falls back to a generic one for transport failures.
func errorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
