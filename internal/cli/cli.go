// Package cli implements ticketctl, a local client that keeps its data in a file or SQLite
// store. Each profile is an isolated namespace with its own accounts, session and tickets.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/observability"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/service"
	"github.com/spec-kit/ticketdesk/internal/storage"
	"github.com/spec-kit/ticketdesk/internal/view"
	"github.com/spec-kit/ticketdesk/internal/workspace"
	apperrors "github.com/spec-kit/ticketdesk/pkg/errorutil"
)

// Streams are the process's standard streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type command struct {
	summary string
	access  access
	run     func(ctx context.Context, e *env, args []string) error
}

type access int

const (
	anyone access = iota
	guestOnly
	signedIn
)

var commands = map[string]command{
	"signup": {summary: "create an account and sign in", access: guestOnly, run: runSignup},
	"login":  {summary: "sign in", access: guestOnly, run: runLogin},
	"logout": {summary: "sign out", access: anyone, run: runLogout},
	"whoami": {summary: "show the signed-in account", access: anyone, run: runWhoami},
	"create": {summary: "create a ticket", access: signedIn, run: runCreate},
	"edit":   {summary: "edit a ticket: edit <id> [--title ...]", access: signedIn, run: runEdit},
	"delete": {summary: "delete a ticket: delete <id> [--yes]", access: signedIn, run: runDelete},
	"list":   {summary: "list tickets, newest first", access: signedIn, run: runList},
	"stats":  {summary: "show the dashboard summary", access: signedIn, run: runStats},
	"export": {summary: "export tickets as yaml or json", access: signedIn, run: runExport},
}

// ErrUsage is returned when no valid command was given.
var ErrUsage = errors.New("usage")

type env struct {
	profile       string
	streams       Streams
	input         *bufio.Reader
	logger        *zap.Logger
	store         storage.Store
	auth          *service.AuthService
	tickets       *service.TicketService
	notifications *service.NotificationService
}

// Run executes ticketctl with args, which exclude the program name.
func Run(ctx context.Context, args []string, streams Streams) error {
	global := pflag.NewFlagSet("ticketctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(streams.Err)
	driver := global.String("driver", "", "storage backend: file or sqlite (default $STORAGE_DRIVER, else file)")
	dataDir := global.String("data-dir", "", "directory holding local data (default $STORAGE_DIR, else ./data)")
	profile := global.StringP("profile", "p", "default", "profile name; every profile has separate accounts and tickets")
	global.Usage = func() { printUsage(streams.Err, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		printUsage(streams.Err, global)
		return ErrUsage
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		printUsage(streams.Err, global)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, rest[0])
	}
	if err := storage.ValidateSegment("profile", *profile); err != nil {
		return err
	}

	e, err := newEnv(ctx, *driver, *dataDir, *profile, streams)
	if err != nil {
		return err
	}
	defer e.close()

	err = e.guard(ctx, cmd.access)
	if err == nil {
		err = cmd.run(ctx, e, rest[1:])
	}
	e.printToast()
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

func newEnv(ctx context.Context, driver, dataDir, profile string, streams Streams) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	source := "--driver"
	if driver == "" {
		driver, source = cfg.Storage.Driver, "STORAGE_DRIVER"
	}
	switch driver {
	case config.DriverFile, config.DriverSQLite:
		cfg.Storage.Driver = driver
	default:
		return nil, fmt.Errorf("%s must be %q or %q, got %q", source, config.DriverFile, config.DriverSQLite, driver)
	}
	if dataDir != "" {
		cfg.Storage.Dir = dataDir
		cfg.Storage.SQLitePath = filepath.Join(dataDir, "ticketdesk.db")
	}

	cfg.Logger.Output = "stderr"
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Logger.Level = "warn"
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}

	adapter := storage.NewAdapter(store, logger)
	workspaces := workspace.NewRegistry(cfg.Notification.DismissAfter())
	dispatcher := events.NewInMemoryDispatcher()

	notifications := service.NewNotificationService(dispatcher, workspaces, logger)
	notifications.RegisterHandlers()

	return &env{
		profile: profile,
		streams: streams,
		input:   bufio.NewReader(streams.In),
		logger:  logger,
		store:   store,
		auth: service.NewAuthService(cfg.Auth, service.AuthDependencies{
			UserRepo:    repository.NewUserRepository(adapter),
			SessionRepo: repository.NewSessionRepository(adapter),
			Workspaces:  workspaces,
			Dispatcher:  dispatcher,
		}),
		tickets: service.NewTicketService(service.TicketDependencies{
			TicketRepo: repository.NewTicketRepository(adapter),
			Workspaces: workspaces,
			Renderer:   view.NewRenderer(),
			Dispatcher: dispatcher,
		}),
		notifications: notifications,
	}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close storage", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func (e *env) guard(ctx context.Context, a access) error {
	switch a {
	case signedIn:
		ok, err := e.auth.EnsureAuth(ctx, e.profile)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewRedirect("SESSION_REQUIRED", "not signed in; run `ticketctl login` first", view.PathLogin, 401)
		}
	case guestOnly:
		ok, err := e.auth.EnsureGuest(ctx, e.profile)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewRedirect("ALREADY_AUTHENTICATED", "already signed in; run `ticketctl logout` first", view.PathDashboard, 409)
		}
	}
	return nil
}

func (e *env) printToast() {
	toast, ok := e.notifications.Current(e.profile)
	if !ok {
		return
	}
	fmt.Fprintf(e.streams.Err, "[%s] %s: %s\n", toast.Variant, toast.Title, toast.Message)
}

func (e *env) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(e.streams.Err)
	return fs
}

// Describe renders err for a terminal, listing field messages when present.
func Describe(err error) string {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		return err.Error()
	}

	var b strings.Builder
	b.WriteString(domainErr.Message)
	keys := make([]string, 0, len(domainErr.Details))
	for k := range domainErr.Details {
		if k == "redirect" || k == "prompt" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %v", k, domainErr.Details[k])
	}
	return b.String()
}

func printUsage(w io.Writer, global *pflag.FlagSet) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Usage: ticketctl [global flags] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	fmt.Fprint(w, global.FlagUsages())
}
