package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hibernator/model/checkpoint"
	"github.com/viant/hibernator/model/handoff"
	"github.com/viant/hibernator/service/dao"
)

func TestService_RoundTrip(t *testing.T) {
	testCases := []struct {
		description string
		record      *checkpoint.Checkpoint
	}{
		{
			description: "string payload",
			record:      &checkpoint.Checkpoint{ExecutionID: "exec-1", Step: checkpoint.StepPreLaunch, Data: "ready_to_launch"},
		},
		{
			description: "structured payload",
			record: &checkpoint.Checkpoint{ExecutionID: "exec_2", Step: checkpoint.StepPreLaunch, Data: map[string]interface{}{
				"target": "db",
				"count":  float64(2),
			}},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			ctx := context.Background()
			srv, err := New[checkpoint.Checkpoint](t.TempDir(), "state_", checkpoint.Key)
			require.NoError(t, err)

			require.NoError(t, srv.Save(ctx, testCase.record))
			loaded, err := srv.Load(ctx, testCase.record.ExecutionID)
			require.NoError(t, err)
			assert.EqualValues(t, testCase.record, loaded)
		})
	}
}

func TestService_SingleFilePerID(t *testing.T) {
	ctx := context.Background()
	baseDir := filepath.Join(t.TempDir(), "checkpoint")
	srv, err := New[checkpoint.Checkpoint](baseDir, "state_", checkpoint.Key)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, srv.Save(ctx, &checkpoint.Checkpoint{ExecutionID: "exec-1", Step: checkpoint.StepPreLaunch, Data: i}))
	}
	entries, err := os.ReadDir(baseDir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.Equal(t, []string{"state_exec-1.json"}, names)

	require.NoError(t, srv.Delete(ctx, "exec-1"))
	_, err = srv.Load(ctx, "exec-1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, srv.Delete(ctx, "exec-1"), dao.ErrNotFound)
}

func TestService_SaveWritesRecordFile(t *testing.T) {
	ctx := context.Background()
	baseDir := filepath.Join(t.TempDir(), "checkpoint")
	srv, err := New[checkpoint.Checkpoint](baseDir, "state_", checkpoint.Key)
	require.NoError(t, err)
	record := &checkpoint.Checkpoint{ExecutionID: "e1", Step: checkpoint.StepPreLaunch, Data: "D"}

	require.NoError(t, srv.Save(ctx, record))
	require.NoError(t, srv.Save(ctx, record))
	info, err := os.Stat(filepath.Join(baseDir, "state_e1.json"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	data, err := os.ReadFile(filepath.Join(baseDir, "state_e1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"D"`)

	reopened, err := New[checkpoint.Checkpoint](baseDir, "state_", checkpoint.Key)
	require.NoError(t, err)
	loaded, err := reopened.Load(ctx, "e1")
	require.NoError(t, err)
	assert.EqualValues(t, record, loaded)
	list, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_RecreatesRemovedBase(t *testing.T) {
	ctx := context.Background()
	baseDir := filepath.Join(t.TempDir(), "checkpoint")
	srv, err := New[checkpoint.Checkpoint](baseDir, "state_", checkpoint.Key)
	require.NoError(t, err)
	record := &checkpoint.Checkpoint{ExecutionID: "e1", Step: checkpoint.StepPreLaunch}

	require.NoError(t, srv.Save(ctx, record))
	require.NoError(t, os.RemoveAll(baseDir))
	require.NoError(t, srv.Save(ctx, record))
	_, err = srv.Load(ctx, "e1")
	assert.NoError(t, err)
}

func TestService_SanitizesID(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()
	srv, err := New[checkpoint.Checkpoint](baseDir, "state_", checkpoint.Key)
	require.NoError(t, err)

	location, err := srv.URL("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(location, "state_etcpasswd.json"), location)

	_, err = srv.URL("../..")
	assert.ErrorIs(t, err, dao.ErrInvalidID)
	assert.ErrorIs(t, srv.Save(ctx, &checkpoint.Checkpoint{ExecutionID: "/"}), dao.ErrInvalidID)
	assert.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	srv, err := New[checkpoint.Checkpoint](t.TempDir(), "state_", checkpoint.Key)
	require.NoError(t, err)

	list, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, srv.Save(ctx, &checkpoint.Checkpoint{ExecutionID: "a", Step: checkpoint.StepPreLaunch}))
	require.NoError(t, srv.Save(ctx, &checkpoint.Checkpoint{ExecutionID: "b", Step: checkpoint.StepPreLaunch}))
	list, err = srv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestNewHandoffs(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()
	srv, err := NewHandoffs(baseDir)
	require.NoError(t, err)
	record := &handoff.Context{ExecutionID: "exec-9", Target: "Production DB", Risk: "HIGH", Timestamp: time.Unix(1700000000, 0).UTC()}
	require.NoError(t, srv.Save(ctx, record))
	_, err = os.Stat(filepath.Join(baseDir, "context_exec-9.json"))
	assert.NoError(t, err)
	loaded, err := srv.Load(ctx, "exec-9")
	require.NoError(t, err)
	assert.True(t, record.Timestamp.Equal(loaded.Timestamp))
	assert.Equal(t, record.Target, loaded.Target)
}
