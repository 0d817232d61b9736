package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletkun/jobapp-tracker/internal/apitest"
	"github.com/walletkun/jobapp-tracker/internal/models"
)

func run(t *testing.T, backend *apitest.Backend, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TRACKER_LOG_LEVEL", "fatal")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--env-file=" + filepath.Join(t.TempDir(), "none.env"),
		"--api-url=" + backend.URL,
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	backend := apitest.NewBackend(t)
	backend.Seed("Acme", "Backend Engineer", models.StatusOASent, 40)
	backend.Seed("Globex", "SRE", models.StatusRejected, 0)

	out, err := run(t, backend, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "COMPANY")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "OA Sent")
	assert.Contains(t, out, "40%")

	out, err = run(t, backend, "list", "--search", "globex")
	require.NoError(t, err)
	assert.Contains(t, out, "Globex")
	assert.NotContains(t, out, "Acme")
}

func TestAddStatusDeleteCommands(t *testing.T) {
	backend := apitest.NewBackend(t)

	out, err := run(t, backend, "add", "--company", "Acme", "--position", "SWE")
	require.NoError(t, err)
	assert.Contains(t, out, "added application 1: SWE at Acme (applied, 10%)")

	out, err = run(t, backend, "status", "1", "Offered")
	require.NoError(t, err)
	assert.Contains(t, out, "application 1 is now offered (85%)")

	out, err = run(t, backend, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted application 1")
	assert.Empty(t, backend.Snapshot())
}

func TestAddRequiresFlags(t *testing.T) {
	backend := apitest.NewBackend(t)

	_, err := run(t, backend, "add", "--company", "Acme")
	require.Error(t, err)
	assert.Empty(t, backend.Requests())
}

func TestStatusRejectsUnknownStatus(t *testing.T) {
	backend := apitest.NewBackend(t)
	backend.Seed("Acme", "SWE", models.StatusApplied, 10)

	_, err := run(t, backend, "status", "1", "ghosted")
	require.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestDeleteBadID(t *testing.T) {
	backend := apitest.NewBackend(t)

	_, err := run(t, backend, "delete", "zero")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid application id")
}

func TestShowAndStatsCommands(t *testing.T) {
	backend := apitest.NewBackend(t)
	backend.Seed("Acme", "SWE", models.StatusApplied, 10)
	backend.Seed("Globex", "SRE", models.StatusInterviewed, 60)

	out, err := run(t, backend, "show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Globex")

	out, err = run(t, backend, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "total applications: 2")
	assert.Contains(t, out, "Interviewed")
	assert.Contains(t, out, "latest: SRE at Globex")
}

func TestStatusesCommandUsesConfiguredTable(t *testing.T) {
	backend := apitest.NewBackend(t)
	t.Setenv("TRACKER_PROGRESS_TABLE", "ordered")

	out, err := run(t, backend, "statuses")
	require.NoError(t, err)
	assert.Regexp(t, `oa sent\s*\|\s*25%`, out)
}
