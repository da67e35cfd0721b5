package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/daylog/formatter"
	"github.com/lixenwraith/daylog/record"
)

type syncBuffer struct {
	bytes.Buffer
	synced int
}

func (b *syncBuffer) Sync() error {
	b.synced++
	return nil
}

func TestWriterPersist(t *testing.T) {
	var buf syncBuffer
	w := NewWriter(&buf, WithFormatter(formatter.New().ShowTimestamp(false)))

	require.NoError(t, w.Persist(record.New("one", "", "", 0), record.LevelInfo))
	require.NoError(t, w.Persist(record.New("two", "main.go", "", 7), record.LevelError))
	require.NoError(t, w.Sync())

	assert.Equal(t, "INFO one\nERROR [main.go:7] two\n", buf.String())
	assert.Equal(t, 1, buf.synced)
}

func TestWriterSyncWithoutSyncer(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	assert.NoError(t, w.Sync())
}

func TestRollingPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	r := NewRolling(RollingConfig{Path: path, MaxSizeMB: 1, MaxBackups: 2}, WithFormatter(plainFormatter()))
	defer r.Close()

	require.NoError(t, r.Persist(record.New("first", "", "", 0), record.LevelInfo))
	require.NoError(t, r.Rotate())
	require.NoError(t, r.Persist(record.New("second", "", "", 0), record.LevelInfo))
	require.NoError(t, r.Close())

	assert.Equal(t, path, r.Path())

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "app-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "one backup after a forced rotation")

	content := readFile(t, path)
	assert.Equal(t, "second\n", content)
	assert.True(t, strings.HasSuffix(readFile(t, matches[0]), "first\n"))
}

func TestRollingReportsUncreatableDirectory(t *testing.T) {
	// A regular file in the path blocks directory creation, even as root
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	var errs []error
	r := NewRolling(RollingConfig{Path: filepath.Join(blocker, "logs", "app.log"), MaxSizeMB: 1},
		WithErrorHandler(func(err error) { errs = append(errs, err) }))
	defer r.Close()

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "failed to create rolling log directory")
	assert.Error(t, r.Persist(record.New("lost", "", "", 0), record.LevelInfo))
}

func TestRollingCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	var errs []error
	r := NewRolling(RollingConfig{Path: path}, WithErrorHandler(func(err error) { errs = append(errs, err) }))
	defer r.Close()

	assert.Empty(t, errs)
	assert.DirExists(t, filepath.Dir(path))
}
