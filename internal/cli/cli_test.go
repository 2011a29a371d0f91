package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	apperrors "github.com/spec-kit/ticketdesk/pkg/errorutil"
)

type runner struct {
	t       *testing.T
	globals []string
}

func newRunner(t *testing.T, driver string) *runner {
	t.Helper()
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("STORAGE_DRIVER", "")
	return &runner{t: t, globals: []string{"--driver", driver, "--data-dir", t.TempDir(), "--profile", "work"}}
}

func (r *runner) run(stdin string, args ...string) (string, string, error) {
	r.t.Helper()
	var out, errOut bytes.Buffer
	err := Run(context.Background(), append(append([]string{}, r.globals...), args...), Streams{
		In:  strings.NewReader(stdin),
		Out: &out,
		Err: &errOut,
	})
	return out.String(), errOut.String(), err
}

func (r *runner) mustRun(args ...string) string {
	r.t.Helper()
	out, errOut, err := r.run("", args...)
	require.NoError(r.t, err, errOut)
	return out
}

func signupArgs() []string {
	return []string{"signup", "--name", "Ada Lovelace", "--email", "a@x.com", "--password", "secret1", "--confirm-password", "secret1"}
}

func TestRun_SessionLifecycle(t *testing.T) {
	for _, driver := range []string{"file", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			r := newRunner(t, driver)

			assert.Equal(t, "Not signed in.\n", r.mustRun("whoami"))

			_, errOut, err := r.run("", "list")
			require.Error(t, err)
			assert.Equal(t, "SESSION_REQUIRED", apperrors.CodeOf(err))
			assert.Contains(t, errOut, "Session required")

			_, errOut, err = r.run("", signupArgs()...)
			require.NoError(t, err)
			assert.Contains(t, errOut, "Account created")
			assert.Equal(t, "Ada Lovelace <a@x.com>\n", r.mustRun("whoami"))

			_, _, err = r.run("", "login", "--email", "a@x.com", "--password", "secret1")
			assert.Equal(t, "ALREADY_AUTHENTICATED", apperrors.CodeOf(err))

			_, errOut, err = r.run("", "logout")
			require.NoError(t, err)
			assert.Contains(t, errOut, "Signed out")

			_, errOut, err = r.run("", "login", "--email", "A@x.com", "--password", "nope12")
			assert.Equal(t, "UNAUTHORIZED", apperrors.CodeOf(err))
			assert.Contains(t, errOut, "Login failed")

			out := r.mustRun("login", "--email", "A@x.com", "--password", "secret1")
			assert.Contains(t, out, "a@x.com")
		})
	}
}

func TestRun_TicketLifecycle(t *testing.T) {
	r := newRunner(t, "file")
	r.mustRun(signupArgs()...)

	_, _, err := r.run("", "create", "--title", "")
	require.Error(t, err)
	assert.Contains(t, Describe(err), "title: Title is required.")

	id := strings.TrimSpace(r.mustRun("create", "--title", "Fix login", "--priority", "high"))
	require.NotEmpty(t, id)

	list := r.mustRun("list")
	assert.Contains(t, list, "Fix login")
	assert.Contains(t, list, "high")

	r.mustRun("edit", id, "--status", "in_progress")
	assert.Contains(t, r.mustRun("list", "--status", "in_progress"), "Fix login")
	assert.Equal(t, "No tickets.\n", r.mustRun("list", "--status", "closed"))

	stats := r.mustRun("stats")
	assert.Contains(t, stats, "Hi Ada!")
	assert.Contains(t, stats, "In progress: 1")

	out, errOut, err := r.run("n\n", "delete", id)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled.\n", out)
	assert.Contains(t, errOut, "Delete “Fix login”? This cannot be undone.")
	assert.Contains(t, r.mustRun("list"), "Fix login")

	_, errOut, err = r.run("y\n", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Ticket deleted")
	assert.Equal(t, "No tickets.\n", r.mustRun("list"))

	_, _, err = r.run("", "delete", id, "--yes")
	assert.Equal(t, "NOT_FOUND", apperrors.CodeOf(err))
}

func TestRun_Export(t *testing.T) {
	r := newRunner(t, "sqlite")
	r.mustRun(signupArgs()...)
	r.mustRun("create", "--title", "one", "--description", "first")
	r.mustRun("create", "--title", "two", "--status", "closed")

	var doc exportDocument
	require.NoError(t, yaml.Unmarshal([]byte(r.mustRun("export")), &doc))
	assert.Equal(t, "work", doc.Profile)
	require.Len(t, doc.Tickets, 2)
	assert.Equal(t, "two", doc.Tickets[0].Title)
	assert.Equal(t, "first", doc.Tickets[1].Description)

	assert.Contains(t, r.mustRun("export", "--format", "json"), `"title": "one"`)

	_, _, err := r.run("", "export", "--format", "xml")
	assert.Error(t, err)
}

func TestRun_ProfilesAreIsolated(t *testing.T) {
	r := newRunner(t, "file")
	r.mustRun(signupArgs()...)
	r.mustRun("create", "--title", "mine")

	other := &runner{t: t, globals: append(append([]string{}, r.globals[:4]...), "--profile", "home")}
	assert.Equal(t, "Not signed in.\n", other.mustRun("whoami"))
}

func TestRun_Usage(t *testing.T) {
	r := newRunner(t, "file")

	_, errOut, err := r.run("")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, errOut, "Commands:")

	_, _, err = r.run("", "frobnicate")
	assert.ErrorIs(t, err, ErrUsage)

	err = Run(context.Background(), []string{"--profile", "../etc", "whoami"}, Streams{
		In: strings.NewReader(""), Out: &bytes.Buffer{}, Err: &bytes.Buffer{},
	})
	assert.Error(t, err)

	_, _, err = r.run("", "--driver", "redis", "whoami")
	assert.Error(t, err)
}

func TestRun_InheritedDriverIsRestricted(t *testing.T) {
	t.Setenv("AUTH_BCRYPT_COST", "4")
	dataDir := t.TempDir()
	streams := func() Streams {
		return Streams{In: strings.NewReader(""), Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}
	}

	for _, driver := range []string{"memory", "redis", "postgres"} {
		t.Setenv("STORAGE_DRIVER", driver)
		err := Run(context.Background(), []string{"--data-dir", dataDir, "whoami"}, streams())
		require.Error(t, err, driver)
		assert.Contains(t, err.Error(), "STORAGE_DRIVER", driver)
	}

	t.Setenv("STORAGE_DRIVER", "sqlite")
	require.NoError(t, Run(context.Background(), []string{"--data-dir", dataDir, "whoami"}, streams()))
}
