package marklyctl_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marklyhq/markly.go/contrib/marklyctl"
	"github.com/marklyhq/markly.go/internal/fakemarkly"
	"github.com/marklyhq/markly.go/pkg/models"
)

// cli runs one marklyctl invocation against the fake server and returns
// its stdout.
func cli(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := marklyctl.Run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func setupCLI(t *testing.T) *fakemarkly.Server {
	t.Helper()
	srv := fakemarkly.NewServer()
	t.Cleanup(srv.Close)
	t.Setenv("MARKLY_ENDPOINT", srv.URL())
	t.Setenv("MARKLY_CONFIG_DIR", t.TempDir())
	return srv
}

func TestRun_NoCommand(t *testing.T) {
	setupCLI(t)
	_, err := cli(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a command is required")
}

func TestRun_UnknownCommand(t *testing.T) {
	setupCLI(t)
	_, err := cli(t, "frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frobnicate")
}

func TestRun_LoginWhoamiLogout(t *testing.T) {
	srv := setupCLI(t)
	srv.SeedUser("alice", "alice@example.com", "correct horse", "")

	_, err := cli(t, "login", "-email", "alice@example.com", "-password", "correct horse")
	require.NoError(t, err)

	out, err := cli(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "alice <alice@example.com>")

	_, err = cli(t, "logout")
	require.NoError(t, err)

	_, err = cli(t, "whoami")
	require.Error(t, err, "A logged-out session must not answer whoami")
}

func TestRun_LoginBadCredentials(t *testing.T) {
	srv := setupCLI(t)
	srv.SeedUser("alice", "alice@example.com", "correct horse", "")

	_, err := cli(t, "login", "-email", "alice@example.com", "-password", "wrong")
	assert.Error(t, err)
}

func TestRun_AddAndList(t *testing.T) {
	srv := setupCLI(t)
	srv.SeedUser("alice", "alice@example.com", "correct horse", "")
	_, err := cli(t, "login", "-email", "alice@example.com", "-password", "correct horse")
	require.NoError(t, err)

	out, err := cli(t, "add", "-url", "https://go.dev", "-title", "Go")
	require.NoError(t, err)
	assert.NotEmpty(t, out, "add prints the new bookmark id")

	out, err = cli(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "https://go.dev")
	assert.Contains(t, out, "Go")
}

func TestRun_ListFiltersByText(t *testing.T) {
	srv := setupCLI(t)
	srv.SeedUser("alice", "alice@example.com", "correct horse", "")
	srv.AddBookmark(models.Bookmark{URL: "https://go.dev", Title: "Go"})
	srv.AddBookmark(models.Bookmark{URL: "https://news.example.com", Title: "Morning News"})
	_, err := cli(t, "login", "-email", "alice@example.com", "-password", "correct horse")
	require.NoError(t, err)

	out, err := cli(t, "list", "-query", "morning")
	require.NoError(t, err)
	assert.Contains(t, out, "Morning News")
	assert.NotContains(t, out, "go.dev")
}

func TestRun_Stats(t *testing.T) {
	srv := setupCLI(t)
	srv.SeedUser("alice", "alice@example.com", "correct horse", "")
	srv.AddCategory("Dev")
	srv.AddBookmark(models.Bookmark{URL: "https://go.dev", Title: "Go", IsFav: true})
	srv.AddBookmark(models.Bookmark{URL: "https://example.com", Title: "Plain"})
	_, err := cli(t, "login", "-email", "alice@example.com", "-password", "correct horse")
	require.NoError(t, err)

	out, err := cli(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "bookmarks")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "favorites")
}

func TestRun_Tags(t *testing.T) {
	srv := setupCLI(t)
	srv.SeedUser("alice", "alice@example.com", "correct horse", "")
	tag := srv.AddTag("go")
	srv.AddBookmark(models.Bookmark{URL: "https://go.dev", Title: "Go", Tags: []string{tag.ID}})
	_, err := cli(t, "login", "-email", "alice@example.com", "-password", "correct horse")
	require.NoError(t, err)

	out, err := cli(t, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "go")
	assert.Contains(t, out, "1")
}
