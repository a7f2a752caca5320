// Command taskctl is a terminal client for the task API. It drives the
// same client services the UI uses: tokens persist under the user config
// dir, so a login survives between invocations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/taskboardhq/taskboard/internal/client/api"
	"github.com/taskboardhq/taskboard/internal/client/store"
	"github.com/taskboardhq/taskboard/internal/model"
)

const defaultBaseURL = "http://localhost:3000"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "taskctl:", err)
		os.Exit(1)
	}
}

type app struct {
	tasks *api.TasksService
	auth  *api.AuthService
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	baseURL := os.Getenv("TASKBOARD_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	tokenPath, err := tokenFilePath()
	if err != nil {
		return err
	}
	client := api.NewClient(baseURL, api.NewFileTokenStore(tokenPath))
	client.OnUnauthorized = func() {
		fmt.Fprintln(os.Stderr, "session expired, run `taskctl login`")
	}

	a := &app{
		tasks: api.NewTasksService(client, store.NewTasksStore()),
		auth:  api.NewAuthService(client, store.NewAuthStore()),
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.auth.Logout()
	case "whoami":
		return a.whoami(ctx)
	case "list":
		return a.list(ctx, rest)
	case "add":
		return a.add(ctx, rest)
	case "done":
		return a.setStatus(ctx, rest, string(model.TaskStatusDone))
	case "rm":
		return a.remove(ctx, rest)
	case "reorder":
		return a.reorder(ctx, rest)
	case "stats":
		return a.stats(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: taskctl <command> [flags]

commands:
  register  -name -email -password   create an account and sign in
  login     -email -password         sign in
  logout                             discard the stored session
  whoami                             show the signed-in user
  list      [-status] [-priority] [-search] [-sort] [-desc]
  add       -title [-desc] [-status] [-priority] [-deadline]
  done      <task-id>                mark a task done
  rm        <task-id>                delete a task
  reorder   <task-id> ...            persist a new task sequence
  stats                              show per-status and overdue counts`)
}

func tokenFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "taskctl", "token"), nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	user, err := a.auth.Register(ctx, api.RegisterInput{Name: *name, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("registered and signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	user, err := a.auth.Login(ctx, api.LoginInput{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if err := a.auth.LoadUser(ctx); err != nil {
		return err
	}
	user, ok := a.auth.Store().User()
	if !ok {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.ID)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "", "filter by status")
	priority := fs.String("priority", "", "filter by priority")
	search := fs.String("search", "", "substring match on title and description")
	sortBy := fs.String("sort", "", "sort key: deadline|priority|createdAt|title")
	desc := fs.Bool("desc", false, "sort descending")
	fs.Parse(args)

	tasksStore := a.tasks.Store()
	patch := store.FilterPatch{}
	if *status != "" {
		st := model.TaskStatus(*status)
		patch.Status = &st
	}
	if *priority != "" {
		p := model.TaskPriority(*priority)
		patch.Priority = &p
	}
	if *search != "" {
		patch.Search = search
	}
	if *sortBy != "" {
		key := store.SortKey(*sortBy)
		patch.SortBy = &key
		order := store.SortAsc
		if *desc {
			order = store.SortDesc
		}
		patch.SortOrder = &order
	}
	tasksStore.SetFilters(patch)

	a.tasks.Load(ctx)
	if msg := tasksStore.Error(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tDEADLINE")
	for _, t := range tasksStore.FilteredAndSorted() {
		deadline := "-"
		if t.Deadline != nil {
			deadline = *t.Deadline
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Status, t.Priority, deadline)
	}
	return w.Flush()
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "task title (required)")
	desc := fs.String("desc", "", "description")
	status := fs.String("status", "", "initial status")
	priority := fs.String("priority", "", "priority")
	deadline := fs.String("deadline", "", "deadline (YYYY-MM-DD)")
	fs.Parse(args)

	input := api.CreateTaskInput{
		Title:       *title,
		Description: *desc,
		Status:      *status,
		Priority:    *priority,
	}
	if *deadline != "" {
		input.Deadline = deadline
	}
	created, err := a.tasks.Create(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", created.Title, created.ID)
	return nil
}

func (a *app) setStatus(ctx context.Context, args []string, status string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one task id")
	}
	_, err := a.tasks.Update(ctx, args[0], api.UpdateTaskInput{Status: &status})
	return err
}

func (a *app) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one task id")
	}
	return a.tasks.Delete(ctx, args[0])
}

func (a *app) reorder(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("expected at least one task id")
	}
	if err := a.tasks.Reorder(ctx, args); err != nil {
		return err
	}
	fmt.Println("reordered:", strings.Join(args, ", "))
	return nil
}

func (a *app) stats(ctx context.Context) error {
	a.tasks.Load(ctx)
	tasksStore := a.tasks.Store()
	if msg := tasksStore.Error(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	stats := tasksStore.Stats()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "total\t%d\n", stats.Total)
	fmt.Fprintf(w, "todo\t%d\n", stats.Todo)
	fmt.Fprintf(w, "in-progress\t%d\n", stats.InProgress)
	fmt.Fprintf(w, "in-review\t%d\n", stats.InReview)
	fmt.Fprintf(w, "in-testing\t%d\n", stats.InTesting)
	fmt.Fprintf(w, "done\t%d\n", stats.Done)
	fmt.Fprintf(w, "overdue\t%d\n", stats.Overdue)
	return w.Flush()
}
