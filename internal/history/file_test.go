package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobapply-automation/internal/config"
	"go-jobapply-automation/internal/models"
)

func quietLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func TestFileStore_RecordAndReload(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	fs, err := OpenFile(dir, 24*time.Hour, quietLogger())
	require.NoError(t, err)

	require.NoError(t, fs.Record(ctx, models.Application{URL: "https://example.si/1", Status: models.StatusApplied}))
	require.NoError(t, fs.Record(ctx, models.Application{URL: "https://example.si/2", Status: models.StatusFailed, Reason: "timeout"}))

	reopened, err := OpenFile(dir, 24*time.Hour, quietLogger())
	require.NoError(t, err)

	applied, err := reopened.Applied(ctx, "https://example.si/1")
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = reopened.Applied(ctx, "https://example.si/2")
	require.NoError(t, err)
	assert.False(t, applied, "failed attempts are retried in later runs")

	applied, err = reopened.Applied(ctx, "https://example.si/3")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestFileStore_AppliedIsNotDowngraded(t *testing.T) {
	ctx := context.Background()
	fs, err := OpenFile(t.TempDir(), time.Hour, quietLogger())
	require.NoError(t, err)

	require.NoError(t, fs.Record(ctx, models.Application{URL: "https://example.si/1", Status: models.StatusApplied}))
	require.NoError(t, fs.Record(ctx, models.Application{URL: "https://example.si/1", Status: models.StatusFailed}))

	applied, err := fs.Applied(ctx, "https://example.si/1")
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestFileStore_RetentionDropsOldEntries(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-48 * time.Hour).UnixMilli()
	fresh := time.Now().Add(-time.Hour).UnixMilli()
	data, err := json.Marshal([]fileEntry{
		{URL: "https://example.si/old", Status: models.StatusApplied, Timestamp: old},
		{URL: "https://example.si/new", Status: models.StatusApplied, Timestamp: fresh},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, historyFile), data, 0644))

	fs, err := OpenFile(dir, 24*time.Hour, quietLogger())
	require.NoError(t, err)

	ctx := context.Background()
	applied, _ := fs.Applied(ctx, "https://example.si/old")
	assert.False(t, applied)
	applied, _ = fs.Applied(ctx, "https://example.si/new")
	assert.True(t, applied)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, historyFile), []byte("{not json"), 0644))

	_, err := OpenFile(dir, time.Hour, quietLogger())
	assert.Error(t, err)
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, config.HistoryConfig{Backend: "none"}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, Nop{}, store)

	store, err = Open(ctx, config.HistoryConfig{Backend: "file", Path: t.TempDir(), Retention: time.Hour}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
	assert.NoError(t, store.Close())

	_, err = Open(ctx, config.HistoryConfig{Backend: "redis"}, quietLogger())
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var s Store = Nop{}
	require.NoError(t, s.Record(ctx, models.Application{URL: "https://example.si/1", Status: models.StatusApplied}))
	applied, err := s.Applied(ctx, "https://example.si/1")
	require.NoError(t, err)
	assert.False(t, applied)
}
