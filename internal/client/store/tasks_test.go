package store_test

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/taskboardhq/taskboard/internal/client/store"
	"github.com/taskboardhq/taskboard/internal/model"
)

func strPtr(s string) *string { return &s }

func task(id string, opts ...func(*model.Task)) model.Task {
	t := model.Task{
		ID:        id,
		Title:     "task " + id,
		Status:    model.TaskStatusTodo,
		Priority:  model.TaskPriorityMedium,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func withTitle(title string) func(*model.Task) {
	return func(t *model.Task) { t.Title = title }
}

func withDescription(desc string) func(*model.Task) {
	return func(t *model.Task) { t.Description = desc }
}

func withStatus(s model.TaskStatus) func(*model.Task) {
	return func(t *model.Task) { t.Status = s }
}

func withPriority(p model.TaskPriority) func(*model.Task) {
	return func(t *model.Task) { t.Priority = p }
}

func withDeadline(d string) func(*model.Task) {
	return func(t *model.Task) { t.Deadline = &d }
}

func withOrder(n int) func(*model.Task) {
	return func(t *model.Task) { t.Order = n }
}

func withCreatedAt(at time.Time) func(*model.Task) {
	return func(t *model.Task) { t.CreatedAt = at }
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestTasksStore_SetTasksClearsLoadingAndError(t *testing.T) {
	s := store.NewTasksStore()
	s.SetLoading(true)
	s.SetError("boom")

	s.SetTasks([]model.Task{task("t1")})

	st := s.State()
	if st.Loading {
		t.Error("expected loading cleared")
	}
	if st.Error != "" {
		t.Errorf("expected error cleared, got %q", st.Error)
	}
	if len(st.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(st.Tasks))
	}
}

func TestTasksStore_SetErrorClearsLoading(t *testing.T) {
	s := store.NewTasksStore()
	s.SetLoading(true)
	s.SetError("request failed")

	if s.Loading() {
		t.Error("expected loading cleared by SetError")
	}
	if got := s.Error(); got != "request failed" {
		t.Errorf("expected error recorded, got %q", got)
	}
}

func TestTasksStore_UpdateTask(t *testing.T) {
	s := store.NewTasksStore()
	s.SetTasks([]model.Task{
		task("t1", withTitle("original"), withDeadline("2026-03-01")),
		task("t2"),
	})

	s.UpdateTask("t1", store.TaskPatch{
		Title:         strPtr("renamed"),
		ClearDeadline: true,
	})

	tasks := s.Tasks()
	if tasks[0].Title != "renamed" {
		t.Errorf("expected title updated, got %q", tasks[0].Title)
	}
	if tasks[0].Deadline != nil {
		t.Error("expected deadline cleared")
	}
	if tasks[0].Status != model.TaskStatusTodo {
		t.Errorf("expected untouched field preserved, got %q", tasks[0].Status)
	}
	if tasks[1].Title != "task t2" {
		t.Errorf("expected other task untouched, got %q", tasks[1].Title)
	}
}

func TestTasksStore_UpdateTask_UnknownIDIsNoop(t *testing.T) {
	s := store.NewTasksStore()
	s.SetTasks([]model.Task{task("t1")})
	before := s.Tasks()

	s.UpdateTask("ghost", store.TaskPatch{Title: strPtr("nope")})

	if !reflect.DeepEqual(before, s.Tasks()) {
		t.Error("expected collection unchanged for unknown id")
	}
}

func TestTasksStore_RemoveTask(t *testing.T) {
	s := store.NewTasksStore()
	s.SetTasks([]model.Task{task("t1"), task("t2"), task("t3")})

	s.RemoveTask("t2")

	if got := ids(s.Tasks()); !reflect.DeepEqual(got, []string{"t1", "t3"}) {
		t.Errorf("expected [t1 t3], got %v", got)
	}

	s.RemoveTask("ghost")
	if got := len(s.Tasks()); got != 2 {
		t.Errorf("expected removing unknown id to be a no-op, got %d tasks", got)
	}
}

func TestTasksStore_ReorderTasks(t *testing.T) {
	s := store.NewTasksStore()
	s.SetTasks([]model.Task{
		task("t1", withOrder(0)),
		task("t2", withOrder(1)),
		task("t3", withOrder(2)),
	})

	s.ReorderTasks([]string{"t3", "t1", "t2"})

	tasks := s.Tasks()
	if got := ids(tasks); !reflect.DeepEqual(got, []string{"t3", "t1", "t2"}) {
		t.Fatalf("expected [t3 t1 t2], got %v", got)
	}
	for i, task := range tasks {
		if task.Order != i {
			t.Errorf("expected task %s order %d, got %d", task.ID, i, task.Order)
		}
	}
}

func TestTasksStore_ReorderTasks_Idempotent(t *testing.T) {
	s := store.NewTasksStore()
	s.SetTasks([]model.Task{
		task("t1", withOrder(0)),
		task("t2", withOrder(1)),
	})

	s.ReorderTasks([]string{"t2", "t1"})
	first := s.Tasks()
	s.ReorderTasks([]string{"t2", "t1"})

	if !reflect.DeepEqual(first, s.Tasks()) {
		t.Error("expected reapplying the same sequence to be a no-op")
	}
}

func TestTasksStore_ReorderTasks_UnmentionedRetained(t *testing.T) {
	s := store.NewTasksStore()
	s.SetTasks([]model.Task{
		task("t1", withOrder(0)),
		task("t2", withOrder(1)),
		task("t3", withOrder(5)),
	})

	s.ReorderTasks([]string{"t2", "t1", "ghost"})

	if got := ids(s.Tasks()); !reflect.DeepEqual(got, []string{"t2", "t1", "t3"}) {
		t.Errorf("expected unmentioned task retained after reordered set, got %v", got)
	}
}

func TestTasksStore_FilteredAndSorted_Filters(t *testing.T) {
	s := store.NewTasksStore()
	s.SetTasks([]model.Task{
		task("t1", withTitle("Write report"), withStatus(model.TaskStatusTodo)),
		task("t2", withTitle("Review PR"), withStatus(model.TaskStatusDone), withPriority(model.TaskPriorityHigh)),
		task("t3", withTitle("Plan sprint"), withDescription("quarterly report prep"), withStatus(model.TaskStatusTodo)),
	})

	todo := model.TaskStatusTodo
	s.SetFilters(store.FilterPatch{Status: &todo})
	if got := ids(s.FilteredAndSorted()); !reflect.DeepEqual(got, []string{"t1", "t3"}) {
		t.Errorf("status filter: expected [t1 t3], got %v", got)
	}

	high := model.TaskPriorityHigh
	none := model.TaskStatus("")
	s.SetFilters(store.FilterPatch{Status: &none, Priority: &high})
	if got := ids(s.FilteredAndSorted()); !reflect.DeepEqual(got, []string{"t2"}) {
		t.Errorf("priority filter: expected [t2], got %v", got)
	}

	anyPriority := model.TaskPriority("")
	search := "REPORT"
	s.SetFilters(store.FilterPatch{Priority: &anyPriority, Search: &search})
	if got := ids(s.FilteredAndSorted()); !reflect.DeepEqual(got, []string{"t1", "t3"}) {
		t.Errorf("search matches title and description case-insensitively: expected [t1 t3], got %v", got)
	}
}

func TestTasksStore_FilteredAndSorted_DefaultSortCreatedAtDesc(t *testing.T) {
	s := store.NewTasksStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.SetTasks([]model.Task{
		task("old", withCreatedAt(base)),
		task("new", withCreatedAt(base.Add(48*time.Hour))),
		task("mid", withCreatedAt(base.Add(24*time.Hour))),
	})

	if got := ids(s.FilteredAndSorted()); !reflect.DeepEqual(got, []string{"new", "mid", "old"}) {
		t.Errorf("expected newest first by default, got %v", got)
	}
}

func TestTasksStore_FilteredAndSorted_DeadlineNilLast(t *testing.T) {
	s := store.NewTasksStore()
	s.SetTasks([]model.Task{
		task("none"),
		task("late", withDeadline("2026-06-01")),
		task("soon", withDeadline("2026-02-01")),
	})

	byDeadline := store.SortByDeadline
	asc := store.SortAsc
	s.SetFilters(store.FilterPatch{SortBy: &byDeadline, SortOrder: &asc})
	if got := ids(s.FilteredAndSorted()); !reflect.DeepEqual(got, []string{"soon", "late", "none"}) {
		t.Errorf("asc: expected nil deadline last, got %v", got)
	}

	desc := store.SortDesc
	s.SetFilters(store.FilterPatch{SortOrder: &desc})
	if got := ids(s.FilteredAndSorted()); !reflect.DeepEqual(got, []string{"late", "soon", "none"}) {
		t.Errorf("desc: expected nil deadline still last, got %v", got)
	}
}

func TestTasksStore_FilteredAndSorted_TitleSortAndStableTies(t *testing.T) {
	s := store.NewTasksStore()
	s.SetTasks([]model.Task{
		task("b1", withTitle("beta")),
		task("a1", withTitle("alpha")),
		task("b2", withTitle("beta")),
	})

	byTitle := store.SortByTitle
	asc := store.SortAsc
	s.SetFilters(store.FilterPatch{SortBy: &byTitle, SortOrder: &asc})

	if got := ids(s.FilteredAndSorted()); !reflect.DeepEqual(got, []string{"a1", "b1", "b2"}) {
		t.Errorf("expected alphabetical with stable ties, got %v", got)
	}
}

func TestTasksStore_FilteredAndSorted_Pure(t *testing.T) {
	s := store.NewTasksStore()
	s.SetTasks([]model.Task{
		task("t1", withDeadline("2026-02-01")),
		task("t2"),
	})
	before := s.Tasks()

	s.FilteredAndSorted()
	s.ByStatus()
	s.Stats()

	if !reflect.DeepEqual(before, s.Tasks()) {
		t.Error("expected derived views to leave state untouched")
	}
}

func TestTasksStore_FilteredAndSorted_ConcurrentReaders(t *testing.T) {
	s := store.NewTasksStore()
	tasks := make([]model.Task, 40)
	for i := range tasks {
		tasks[i] = task(fmt.Sprintf("t%02d", i), withTitle(fmt.Sprintf("title %02d", 39-i)))
	}
	s.SetTasks(tasks)

	byTitle := store.SortByTitle
	asc := store.SortAsc
	s.SetFilters(store.FilterPatch{SortBy: &byTitle, SortOrder: &asc})

	want := ids(s.FilteredAndSorted())

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				results[i] = ids(s.FilteredAndSorted())
			}
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !reflect.DeepEqual(got, want) {
			t.Errorf("reader %d: concurrent sort diverged: got %v, want %v", i, got, want)
		}
	}
}

func TestTasksStore_ByStatus(t *testing.T) {
	s := store.NewTasksStore()
	s.SetTasks([]model.Task{
		task("t1", withStatus(model.TaskStatusTodo)),
		task("t2", withStatus(model.TaskStatusDone)),
		task("t3", withStatus(model.TaskStatusTodo)),
	})

	asc := store.SortAsc
	byTitle := store.SortByTitle
	s.SetFilters(store.FilterPatch{SortBy: &byTitle, SortOrder: &asc})

	buckets := s.ByStatus()
	if len(buckets) != len(model.TaskStatuses) {
		t.Fatalf("expected %d buckets, got %d", len(model.TaskStatuses), len(buckets))
	}
	if got := ids(buckets[model.TaskStatusTodo]); !reflect.DeepEqual(got, []string{"t1", "t3"}) {
		t.Errorf("expected todo bucket [t1 t3], got %v", got)
	}
	if got := ids(buckets[model.TaskStatusDone]); !reflect.DeepEqual(got, []string{"t2"}) {
		t.Errorf("expected done bucket [t2], got %v", got)
	}
	if got := buckets[model.TaskStatusInReview]; len(got) != 0 {
		t.Errorf("expected empty in-review bucket, got %v", got)
	}
}

func TestTasksStore_Stats(t *testing.T) {
	s := store.NewTasksStore()
	store.SetNow(s, func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	})
	s.SetTasks([]model.Task{
		task("t1", withStatus(model.TaskStatusTodo), withDeadline("2026-03-14")),
		task("t2", withStatus(model.TaskStatusDone), withDeadline("2026-01-01")),
		task("t3", withStatus(model.TaskStatusInProgress), withDeadline("2026-03-15")),
		task("t4", withStatus(model.TaskStatusInReview)),
		task("t5", withStatus(model.TaskStatusInTesting)),
	})

	// Stats ignore the active filters.
	done := model.TaskStatusDone
	s.SetFilters(store.FilterPatch{Status: &done})

	stats := s.Stats()
	if stats.Total != 5 {
		t.Errorf("expected total 5, got %d", stats.Total)
	}
	if stats.Todo != 1 || stats.InProgress != 1 || stats.InReview != 1 || stats.InTesting != 1 || stats.Done != 1 {
		t.Errorf("unexpected per-status counts: %+v", stats)
	}
	// t1 is past due; t2 is past due but done; t3 is due today, not overdue.
	if stats.Overdue != 1 {
		t.Errorf("expected 1 overdue task, got %d", stats.Overdue)
	}
}
