package command

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/todo/internal/storage"
)

// runRoot executes the root command with args, feeding stdin and returning
// what was written to stdout.
func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := RootCommand()
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestUserCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "todo.sqlite")
	t.Setenv("TODO_DB_FILEPATH", dbPath)
	t.Setenv("TODO_AUTH_SIGNING_SECRET", strings.Repeat("s", 32))
	t.Setenv("TODO_AUTH_BCRYPT_COST", "4")

	createArgs := func(name string) []string {
		return []string{
			"user", "create", name,
			"--email", name + "@example.com",
			"--first-name", "Bob",
			"--last-name", "Builder",
		}
	}
	userExists := func(name string) bool {
		t.Helper()
		store, err := storage.NewDB(t.Context(), dbPath, slog.Default())
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		_, err = store.GetUserByName(t.Context(), name)
		return err == nil
	}

	_, err := runRoot(t, "hunter2222\n", createArgs("bob")...)
	require.NoError(t, err)
	require.True(t, userExists("bob"))

	_, err = runRoot(t, "hunter2222\n", createArgs("bob")...)
	require.Error(t, err, "duplicate username")

	_, err = runRoot(t, "short\n", createArgs("carol")...)
	require.Error(t, err, "password too short")
	assert.False(t, userExists("carol"))

	_, err = runRoot(t, "hunter2222\n", createArgs("alice")...)
	require.NoError(t, err)

	out, err := runRoot(t, "", "user", "list", "--page-size", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "USERNAME"))
	assert.True(t, strings.HasPrefix(lines[1], "alice "))
	assert.True(t, strings.HasPrefix(lines[2], "bob "))
	assert.Contains(t, lines[2], "bob@example.com")

	_, err = runRoot(t, "", "user", "list", "--page-size", "0")
	require.Error(t, err)

	_, err = runRoot(t, "n\n", "user", "delete", "bob")
	require.NoError(t, err)
	assert.True(t, userExists("bob"), "declined deletion keeps the user")

	_, err = runRoot(t, "y\n", "user", "delete", "bob")
	require.NoError(t, err)
	assert.False(t, userExists("bob"))

	_, err = runRoot(t, "y\n", "user", "delete", "bob")
	require.Error(t, err, "unknown user")
}
