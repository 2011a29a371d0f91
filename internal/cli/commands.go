package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/service"
	"github.com/spec-kit/ticketdesk/internal/state"
	"github.com/spec-kit/ticketdesk/internal/view"
	apperrors "github.com/spec-kit/ticketdesk/pkg/errorutil"
)

func runSignup(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("signup")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password, at least 6 characters")
	confirm := fs.String("confirm-password", "", "repeat the password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := e.auth.Signup(ctx, e.profile, service.SignupInput{
		Name:            *name,
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *confirm,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.streams.Out, "Signed in as %s <%s>\n", current.User.Name, current.User.Email)
	return nil
}

func runLogin(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := e.auth.Login(ctx, e.profile, service.LoginInput{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.streams.Out, "Signed in as %s <%s>\n", current.User.Name, current.User.Email)
	return nil
}

func runLogout(ctx context.Context, e *env, _ []string) error {
	return e.auth.Logout(ctx, e.profile)
}

func runWhoami(ctx context.Context, e *env, _ []string) error {
	current, err := e.auth.CurrentSession(ctx, e.profile)
	if err != nil {
		return err
	}
	if current == nil {
		fmt.Fprintln(e.streams.Out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(e.streams.Out, "%s <%s>\n", current.User.Name, current.User.Email)
	return nil
}

func runCreate(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("create")
	title := fs.String("title", "", "ticket title, at most 120 characters")
	status := fs.String("status", string(domain.TicketStatusOpen), "open, in_progress or closed")
	priority := fs.String("priority", "", "optional priority label")
	description := fs.String("description", "", "optional description (Markdown)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ticket, err := e.tickets.Create(ctx, e.profile, domain.TicketPayload{
		Title:       *title,
		Status:      domain.TicketStatus(*status),
		Priority:    *priority,
		Description: *description,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(e.streams.Out, ticket.ID)
	return nil
}

func runEdit(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("edit")
	title := fs.String("title", "", "new title")
	status := fs.String("status", "", "new status")
	priority := fs.String("priority", "", "new priority label")
	description := fs.String("description", "", "new description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := singleArg(fs.Args(), "edit <id>")
	if err != nil {
		return err
	}

	current, ok := state.Find(e.tickets.List(ctx, e.profile), id)
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	payload := domain.TicketPayload{
		Title:       current.Title,
		Status:      current.Status,
		Priority:    current.Priority,
		Description: current.Description,
	}
	if fs.Changed("title") {
		payload.Title = *title
	}
	if fs.Changed("status") {
		payload.Status = domain.TicketStatus(*status)
	}
	if fs.Changed("priority") {
		payload.Priority = *priority
	}
	if fs.Changed("description") {
		payload.Description = *description
	}

	if _, ok, err := e.tickets.Update(ctx, e.profile, id, payload); err != nil {
		return err
	} else if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return nil
}

func runDelete(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("delete")
	yes := fs.BoolP("yes", "y", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := singleArg(fs.Args(), "delete <id>")
	if err != nil {
		return err
	}
	if _, ok := state.Find(e.tickets.List(ctx, e.profile), id); !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}

	confirmer := e.promptConfirmer()
	if *yes {
		confirmer = service.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	}
	deleted, err := e.tickets.Delete(ctx, e.profile, id, confirmer)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(e.streams.Out, "Cancelled.")
	}
	return nil
}

func (e *env) promptConfirmer() service.Confirmer {
	return service.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		fmt.Fprintf(e.streams.Err, "%s [y/N]: ", prompt)
		line, err := e.input.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}

func runList(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("list")
	status := fs.String("status", string(domain.FilterAll), "all, open, in_progress or closed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	filter, ok := domain.ParseFilter(*status)
	if !ok {
		return apperrors.NewFieldErrors("unknown filter", map[string]string{"status": "Unknown filter."})
	}

	tickets := view.List(e.tickets.List(ctx, e.profile), filter)
	if len(tickets) == 0 {
		fmt.Fprintln(e.streams.Out, "No tickets.")
		return nil
	}

	w := tabwriter.NewWriter(e.streams.Out, 2, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tTITLE\tCREATED")
	for _, t := range tickets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Status.Label(), dash(t.Priority), t.Title, t.CreatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func runStats(ctx context.Context, e *env, _ []string) error {
	current, err := e.auth.CurrentSession(ctx, e.profile)
	if err != nil {
		return err
	}
	if current == nil {
		return apperrors.NewUnauthorized("session required")
	}

	d := e.tickets.Dashboard(ctx, e.profile, current.User)
	out := e.streams.Out
	fmt.Fprintf(out, "Hi %s!\n\n", d.FirstName)
	fmt.Fprintf(out, "Total:       %d\n", d.Stats.Total)
	fmt.Fprintf(out, "Open:        %d\n", d.Stats.Open)
	fmt.Fprintf(out, "In progress: %d\n", d.Stats.InProgress)
	fmt.Fprintf(out, "Closed:      %d\n", d.Stats.Closed)
	fmt.Fprintf(out, "Completion:  %d%%\n", d.CompletionRate)

	fmt.Fprintln(out, "\nRecent:")
	if d.RecentEmpty {
		fmt.Fprintln(out, "  No tickets yet.")
		return nil
	}
	for _, card := range d.Recent {
		fmt.Fprintf(out, "  %s  [%s] %s\n", card.ID, card.StatusLabel, card.Title)
	}
	return nil
}

type exportDocument struct {
	Profile    string          `json:"profile" yaml:"profile"`
	ExportedAt time.Time       `json:"exportedAt" yaml:"exportedAt"`
	Tickets    []domain.Ticket `json:"tickets" yaml:"tickets"`
}

func runExport(ctx context.Context, e *env, args []string) error {
	fs := e.flagSet("export")
	format := fs.String("format", "yaml", "yaml or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc := exportDocument{
		Profile:    e.profile,
		ExportedAt: time.Now().UTC(),
		Tickets:    view.SortNewestFirst(e.tickets.List(ctx, e.profile)),
	}

	switch *format {
	case "yaml":
		enc := yaml.NewEncoder(e.streams.Out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(e.streams.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("--format must be yaml or json, got %q", *format)
	}
}

func singleArg(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: ticketctl %s", ErrUsage, usage)
	}
	return args[0], nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
