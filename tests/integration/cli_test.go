// CLI integration tests for detour.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain builds the detour binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "detour-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmpDir)

	binPath := filepath.Join(tmpDir, "detour")
	SetDetourBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/detour")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{Err: err, Output: string(output)})
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// cliEnv holds isolated config and data directories for one test.
type cliEnv struct {
	configDir string
	dataDir   string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	require.NoError(t, buildErr, "detour binary must build")
	return cliEnv{
		configDir: t.TempDir(),
		dataDir:   t.TempDir(),
	}
}

// run executes the detour binary with isolated directories.
func (e cliEnv) run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	cmd := exec.Command(detourBin, full...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

func TestCLI_Version(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "detour")
}

func TestCLI_InitCreatesDatabase(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "initialized detour store")

	_, statErr := os.Stat(filepath.Join(env.dataDir, "detour.db"))
	assert.NoError(t, statErr, "detour.db should exist after init")
}

func TestCLI_InsertThenFetch(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "init")
	require.NoError(t, err)

	stdout, stderr, err := env.run(t, "--json", "call", "insert", "todos",
		"--payload", `{"title":"ship it","done":false}`)
	require.NoError(t, err, "insert failed: %s", stderr)

	var inserted []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &inserted))
	require.Len(t, inserted, 1)
	assert.Equal(t, "ship it", inserted[0]["title"])
	assert.NotEmpty(t, inserted[0]["id"], "insert should generate an id")

	stdout, stderr, err = env.run(t, "--json", "call", "fetch", "todos",
		"--filter", "done=eq:false")
	require.NoError(t, err, "fetch failed: %s", stderr)

	var fetched []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &fetched))
	require.Len(t, fetched, 1)
	assert.Equal(t, "ship it", fetched[0]["title"])
}

func TestCLI_DeleteIsVoid(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "init")
	require.NoError(t, err)

	_, _, err = env.run(t, "call", "insert", "todos",
		"--payload", `{"id":"days","title":"numbered"}`)
	require.NoError(t, err)

	stdout, _, err := env.run(t, "call", "delete", "todos",
		"--filter", `id=eq:"days"`, "--minimal")
	require.NoError(t, err)
	assert.Equal(t, "ok", strings.TrimSpace(stdout))

	stdout, _, err = env.run(t, "--json", "call", "fetch", "todos")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	assert.Empty(t, rows)
}

func TestCLI_FixtureOverrideShortCircuits(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "init")
	require.NoError(t, err)

	_, _, err = env.run(t, "call", "insert", "todos", "--payload", `{"title":"real row"}`)
	require.NoError(t, err)

	fixture := filepath.Join(t.TempDir(), "overrides.json")
	require.NoError(t, os.WriteFile(fixture, []byte(
		`[{"strategy":"kind","kind":"fetchMany","table":"todos","value":[{"id":"stub","title":"canned"}]}]`,
	), 0o644))

	stdout, _, err := env.run(t, "--json", "call", "fetch", "todos", "--fixture", fixture)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "canned", rows[0]["title"], "fixture override must win over the real data")

	// Without the fixture the real row comes back.
	stdout, _, err = env.run(t, "--json", "call", "fetch", "todos")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "real row", rows[0]["title"])
}

func TestCLI_FixtureErrorOverrideSurfaces(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "init")
	require.NoError(t, err)

	fixture := filepath.Join(t.TempDir(), "overrides.json")
	require.NoError(t, os.WriteFile(fixture, []byte(
		`[{"strategy":"id","id":"probe-1","error":"auth expired"}]`,
	), 0o644))

	_, stderr, err := env.run(t, "call", "fetch", "todos",
		"--route-id", "probe-1", "--fixture", fixture)
	require.Error(t, err, "override failure should exit non-zero")
	assert.Contains(t, stderr, "auth expired")
}

func TestCLI_UnknownOperation(t *testing.T) {
	env := newCLIEnv(t)

	_, stderr, err := env.run(t, "call", "truncate", "todos")
	require.Error(t, err)
	assert.Contains(t, stderr, "unknown operation")
}
