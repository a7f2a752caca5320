// Package store holds client-side application state: the task collection
// with its filter configuration and derived views, and the authenticated
// user. Mutations replace the state snapshot atomically; derived views are
// pure functions of the latest snapshot.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taskboardhq/taskboard/internal/model"
)

type SortKey string

const (
	SortByDeadline  SortKey = "deadline"
	SortByPriority  SortKey = "priority"
	SortByCreatedAt SortKey = "createdAt"
	SortByTitle     SortKey = "title"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filters is the client-side view configuration. Zero-valued Status and
// Priority mean "no filter". It is never sent to the server.
type Filters struct {
	Status    model.TaskStatus
	Priority  model.TaskPriority
	Search    string
	SortBy    SortKey
	SortOrder SortOrder
}

// FilterPatch shallow-merges into Filters; nil fields are left unchanged.
type FilterPatch struct {
	Status    *model.TaskStatus
	Priority  *model.TaskPriority
	Search    *string
	SortBy    *SortKey
	SortOrder *SortOrder
}

func defaultFilters() Filters {
	return Filters{
		SortBy:    SortByCreatedAt,
		SortOrder: SortDesc,
	}
}

// TaskPatch carries the fields of a task to merge into the store; nil
// fields are left unchanged. ClearDeadline removes the deadline.
type TaskPatch struct {
	Title         *string
	Description   *string
	Status        *model.TaskStatus
	Priority      *model.TaskPriority
	Deadline      *string
	ClearDeadline bool
	Order         *int
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
}

// PatchFromTask builds a full patch from a server task representation.
func PatchFromTask(t model.Task) TaskPatch {
	p := TaskPatch{
		Title:       &t.Title,
		Description: &t.Description,
		Status:      &t.Status,
		Priority:    &t.Priority,
		Order:       &t.Order,
		CreatedAt:   &t.CreatedAt,
		UpdatedAt:   &t.UpdatedAt,
	}
	if t.Deadline != nil {
		p.Deadline = t.Deadline
	} else {
		p.ClearDeadline = true
	}
	return p
}

// Stats aggregates the unfiltered collection.
type Stats struct {
	Total      int
	Todo       int
	InProgress int
	InReview   int
	InTesting  int
	Done       int
	// Overdue counts tasks whose deadline is strictly before today's
	// calendar date and whose status is not done.
	Overdue int
}

type TasksState struct {
	Tasks   []model.Task
	Filters Filters
	Loading bool
	Error   string
}

type TasksStore struct {
	mu    sync.RWMutex
	state TasksState
	now   func() time.Time
}

func NewTasksStore() *TasksStore {
	return &TasksStore{
		state: TasksState{
			Tasks:   []model.Task{},
			Filters: defaultFilters(),
		},
		now: time.Now,
	}
}

// State returns a snapshot; the returned task slice is a copy.
func (s *TasksStore) State() TasksState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Tasks = append([]model.Task(nil), s.state.Tasks...)
	return st
}

func (s *TasksStore) Tasks() []model.Task {
	return s.State().Tasks
}

func (s *TasksStore) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Filters
}

func (s *TasksStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

func (s *TasksStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Error
}

// SetTasks replaces the collection and clears the loading and error flags.
func (s *TasksStore) SetTasks(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Tasks = append([]model.Task(nil), tasks...)
	s.state.Loading = false
	s.state.Error = ""
}

func (s *TasksStore) AddTask(task model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Tasks = append(append([]model.Task(nil), s.state.Tasks...), task)
	s.state.Error = ""
}

// UpdateTask merges the patch into the matching task; a no-op when the id
// is absent.
func (s *TasksStore) UpdateTask(id string, patch TaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := append([]model.Task(nil), s.state.Tasks...)
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		applyPatch(&tasks[i], patch)
		break
	}
	s.state.Tasks = tasks
	s.state.Error = ""
}

func applyPatch(t *model.Task, p TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDeadline {
		t.Deadline = nil
	} else if p.Deadline != nil {
		d := *p.Deadline
		t.Deadline = &d
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	if p.CreatedAt != nil {
		t.CreatedAt = *p.CreatedAt
	}
	if p.UpdatedAt != nil {
		t.UpdatedAt = *p.UpdatedAt
	}
}

func (s *TasksStore) RemoveTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]model.Task, 0, len(s.state.Tasks))
	for _, t := range s.state.Tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	s.state.Tasks = tasks
	s.state.Error = ""
}

// ReorderTasks assigns order = index to each task named in orderedIDs;
// unknown ids are skipped. Tasks not mentioned keep their order and follow
// the reordered set; the final collection is sorted by order ascending.
// Reapplying the same sequence is a no-op.
func (s *TasksStore) ReorderTasks(orderedIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]model.Task, len(s.state.Tasks))
	for _, t := range s.state.Tasks {
		byID[t.ID] = t
	}

	mentioned := make(map[string]bool, len(orderedIDs))
	reordered := make([]model.Task, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		mentioned[id] = true
		if t, ok := byID[id]; ok {
			t.Order = i
			reordered = append(reordered, t)
		}
	}

	rest := make([]model.Task, 0, len(s.state.Tasks))
	for _, t := range s.state.Tasks {
		if !mentioned[t.ID] {
			rest = append(rest, t)
		}
	}

	tasks := append(reordered, rest...)
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Order < tasks[j].Order })
	s.state.Tasks = tasks
}

func (s *TasksStore) SetFilters(patch FilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.state.Filters
	if patch.Status != nil {
		f.Status = *patch.Status
	}
	if patch.Priority != nil {
		f.Priority = *patch.Priority
	}
	if patch.Search != nil {
		f.Search = *patch.Search
	}
	if patch.SortBy != nil {
		f.SortBy = *patch.SortBy
	}
	if patch.SortOrder != nil {
		f.SortOrder = *patch.SortOrder
	}
	s.state.Filters = f
}

func (s *TasksStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = loading
}

// SetError records an error and clears the loading flag. An empty message
// clears the error.
func (s *TasksStore) SetError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = message
	s.state.Loading = false
}

// FilteredAndSorted applies the status, priority and search filters in
// that order, then sorts by the configured key and direction. Tasks
// without a deadline sort last regardless of direction; ties keep their
// prior relative order.
func (s *TasksStore) FilteredAndSorted() []model.Task {
	s.mu.RLock()
	tasks := append([]model.Task(nil), s.state.Tasks...)
	filters := s.state.Filters
	s.mu.RUnlock()

	// A collator carries mutable iterator state, so concurrent reads
	// cannot share one. Construction is cheap relative to the sort.
	coll := collate.New(language.English)

	result := tasks[:0]
	for _, t := range tasks {
		if filters.Status != "" && t.Status != filters.Status {
			continue
		}
		if filters.Priority != "" && t.Priority != filters.Priority {
			continue
		}
		if q := strings.TrimSpace(filters.Search); q != "" {
			q = strings.ToLower(q)
			if !strings.Contains(strings.ToLower(t.Title), q) &&
				!strings.Contains(strings.ToLower(t.Description), q) {
				continue
			}
		}
		result = append(result, t)
	}

	mult := -1
	if filters.SortOrder == SortAsc {
		mult = 1
	}

	sort.SliceStable(result, func(i, j int) bool {
		return compareTasks(coll, result[i], result[j], filters.SortBy, mult) < 0
	})

	return result
}

// compareTasks orders a before b when the result is negative. Missing
// deadlines compare after present ones independent of mult.
func compareTasks(coll *collate.Collator, a, b model.Task, key SortKey, mult int) int {
	switch key {
	case SortByDeadline:
		switch {
		case a.Deadline == nil && b.Deadline == nil:
			return 0
		case a.Deadline == nil:
			return 1
		case b.Deadline == nil:
			return -1
		}
		return mult * coll.CompareString(*a.Deadline, *b.Deadline)
	case SortByPriority:
		return mult * coll.CompareString(string(a.Priority), string(b.Priority))
	case SortByTitle:
		return mult * coll.CompareString(a.Title, b.Title)
	default: // createdAt
		switch {
		case a.CreatedAt.Equal(b.CreatedAt):
			return 0
		case a.CreatedAt.Before(b.CreatedAt):
			return mult * -1
		}
		return mult
	}
}

// ByStatus partitions the filtered, sorted view into the five board
// columns, preserving relative order within each.
func (s *TasksStore) ByStatus() map[model.TaskStatus][]model.Task {
	buckets := make(map[model.TaskStatus][]model.Task, len(model.TaskStatuses))
	for _, st := range model.TaskStatuses {
		buckets[st] = []model.Task{}
	}
	for _, t := range s.FilteredAndSorted() {
		buckets[t.Status] = append(buckets[t.Status], t)
	}
	return buckets
}

// Stats aggregates over the unfiltered collection.
func (s *TasksStore) Stats() Stats {
	s.mu.RLock()
	tasks := s.state.Tasks
	today := s.now().Format("2006-01-02")
	s.mu.RUnlock()

	var stats Stats
	stats.Total = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case model.TaskStatusTodo:
			stats.Todo++
		case model.TaskStatusInProgress:
			stats.InProgress++
		case model.TaskStatusInReview:
			stats.InReview++
		case model.TaskStatusInTesting:
			stats.InTesting++
		case model.TaskStatusDone:
			stats.Done++
		}
		// Calendar-date comparison: YYYY-MM-DD strings order correctly.
		if t.Deadline != nil && *t.Deadline < today && t.Status != model.TaskStatusDone {
			stats.Overdue++
		}
	}
	return stats
}
