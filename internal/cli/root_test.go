package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/hibernator/model/execution"
)

func execute(t *testing.T, args ...string) (string, error) {
	root := NewRootCommand("test-version")
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	assert.NoError(t, err)
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "worker")
}

func TestNewRootCommand_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "worker", "unified")
	assert.Error(t, err)
}

func TestWorkerCommand_UnknownRole(t *testing.T) {
	_, err := execute(t, "worker", "sidecar")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, execution.ExitPrecondition, exitErr.Code)
}

func TestWorkerCommand_Unified(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHECKPOINT_URL", filepath.Join(dir, "checkpoint"))
	t.Setenv("HANDOFF_URL", filepath.Join(dir, "handoff"))
	t.Setenv("EXECUTION_ID", "cli-1")
	t.Setenv("STATUS", "WAITING_FOR_HUMAN")

	_, err := execute(t, "--log-format", "json", "worker", "unified")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, execution.ExitHibernate, exitErr.Code)
	_, statErr := os.Stat(filepath.Join(dir, "checkpoint", "state_cli-1.json"))
	assert.NoError(t, statErr)

	t.Setenv("STATUS", "APPROVED")
	_, err = execute(t, "worker", "unified")
	assert.NoError(t, err)
	_, statErr = os.Stat(filepath.Join(dir, "checkpoint", "state_cli-1.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWorkerCommand_PostWithoutHandoff(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHECKPOINT_URL", filepath.Join(dir, "checkpoint"))
	t.Setenv("HANDOFF_URL", filepath.Join(dir, "handoff"))
	t.Setenv("EXECUTION_ID", "cli-2")
	t.Setenv("STATUS", "APPROVED")

	_, err := execute(t, "worker", "post")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, execution.ExitPrecondition, exitErr.Code)
}

func TestRunCommand_DemoFlagsRequireMemoryCore(t *testing.T) {
	t.Setenv("CORE_URL", "http://localhost:1")
	_, err := execute(t, "run", "--trigger", "x")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, "debug", "json")
	assert.NoError(t, err)
	_, err = newLogger(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
