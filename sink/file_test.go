package sink

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/daylog/formatter"
	"github.com/lixenwraith/daylog/record"
)

// fakeClock is a settable clock for day-file naming
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// writeAged creates a file with a fixed modification time
func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0644))
	mt := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mt, mt))
	return path
}

func plainFormatter() formatter.Formatter {
	return formatter.Func(func(rec record.Record, _ record.Level) string {
		return rec.Message
	})
}

func TestFileCurrentFileName(t *testing.T) {
	clock := &fakeClock{now: day(2024, time.March, 9)}
	f := NewFile(t.TempDir(), 3, WithClock(clock.Now))
	defer f.Close()

	assert.Equal(t, "2024-3-9.log", f.CurrentFileName())
	assert.Equal(t, filepath.Join(f.Directory(), "2024-3-9.log"), f.CurrentFilePath())

	clock.Set(day(2024, time.December, 31))
	assert.Equal(t, "2024-12-31.log", f.CurrentFileName())
}

func TestFileCreatesDirectoryAndStartMarker(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	clock := &fakeClock{now: day(2024, time.March, 9)}

	f := NewFile(dir, 3, WithClock(clock.Now), WithFormatter(plainFormatter()))
	require.NoError(t, f.Persist(record.New("hello", "", "", 0), record.LevelInfo))
	require.NoError(t, f.Close())

	content, err := os.ReadFile(filepath.Join(dir, "2024-3-9.log"))
	require.NoError(t, err)
	assert.Equal(t, sessionStartMarker+"\nhello\n"+sessionEndMarker+"\n", string(content))
}

func TestFileAppendsAcrossSessions(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{now: day(2024, time.March, 9)}

	for _, msg := range []string{"first", "second"} {
		f := NewFile(dir, 3, WithClock(clock.Now), WithFormatter(plainFormatter()))
		require.NoError(t, f.Persist(record.New(msg, "", "", 0), record.LevelInfo))
		require.NoError(t, f.Close())
	}

	content, err := os.ReadFile(filepath.Join(dir, "2024-3-9.log"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(content), sessionStartMarker))
	assert.Equal(t, 2, strings.Count(string(content), sessionEndMarker))
	assert.Less(t, strings.Index(string(content), "first"), strings.Index(string(content), "second"))
}

func TestFileEvictionAtConstruction(t *testing.T) {
	dir := t.TempDir()
	oldest := writeAged(t, dir, "2024-1-1.log", 72*time.Hour)
	middle := writeAged(t, dir, "2024-1-2.log", 48*time.Hour)
	newest := writeAged(t, dir, "2024-1-3.log", 24*time.Hour)

	clock := &fakeClock{now: day(2024, time.January, 4)}
	f := NewFile(dir, 2, WithClock(clock.Now))
	defer f.Close()

	// Only the single oldest goes, then the current day file joins the two survivors
	assert.NoFileExists(t, oldest)
	assert.FileExists(t, middle)
	assert.FileExists(t, newest)
	assert.FileExists(t, f.CurrentFilePath())
}

func TestFileFilesToDelete(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{now: day(2024, time.January, 4)}
	f := NewFile(dir, 2, WithClock(clock.Now))
	defer f.Close()

	// Only the current day file exists
	candidates, err := f.FilesToDelete()
	require.NoError(t, err)
	assert.Empty(t, candidates)

	a := writeAged(t, dir, "a.log", 48*time.Hour)
	b := writeAged(t, dir, "b.log", 72*time.Hour)
	writeAged(t, dir, ".hidden", 96*time.Hour)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	candidates, err = f.FilesToDelete()
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, b, candidates[0].Path)

	assert.Equal(t, 1, f.DeleteOldLogs())
	assert.NoFileExists(t, b)
	assert.FileExists(t, a)
	assert.FileExists(t, filepath.Join(dir, ".hidden"))
}

func TestFileAllLogFilesSkipsHiddenAndDirectories(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{now: day(2024, time.January, 4)}
	f := NewFile(dir, 5, WithClock(clock.Now))
	defer f.Close()

	writeAged(t, dir, ".DS_Store", time.Hour)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0755))

	files, err := f.AllLogFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, f.CurrentFilePath(), files[0].Path)
	assert.False(t, files[0].ModTime.IsZero())
}

func TestFileDeleteAllLogs(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{now: day(2024, time.January, 4)}
	writeAged(t, dir, "2024-1-2.log", 48*time.Hour)
	writeAged(t, dir, "2024-1-3.log", 24*time.Hour)

	f := NewFile(dir, 5, WithClock(clock.Now), WithFormatter(plainFormatter()))
	require.NoError(t, f.Persist(record.New("before", "", "", 0), record.LevelInfo))

	require.NoError(t, f.DeleteAllLogs())
	require.NoError(t, f.Persist(record.New("after", "", "", 0), record.LevelInfo))
	require.NoError(t, f.Close())

	files, err := f.AllLogFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)

	content, err := os.ReadFile(f.CurrentFilePath())
	require.NoError(t, err)
	assert.NotContains(t, string(content), "before")
	assert.Equal(t, sessionStartMarker+"\nafter\n"+sessionEndMarker+"\n", string(content))
}

func TestFileDayRollover(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{now: time.Date(2024, time.March, 9, 23, 59, 59, 0, time.UTC)}

	f := NewFile(dir, 5, WithClock(clock.Now), WithFormatter(plainFormatter()))
	require.NoError(t, f.Persist(record.New("late", "", "", 0), record.LevelInfo))

	clock.Set(time.Date(2024, time.March, 10, 0, 0, 1, 0, time.UTC))
	require.NoError(t, f.Persist(record.New("early", "", "", 0), record.LevelInfo))
	require.NoError(t, f.Close())

	first, err := os.ReadFile(filepath.Join(dir, "2024-3-9.log"))
	require.NoError(t, err)
	assert.Equal(t, sessionStartMarker+"\nlate\n"+sessionEndMarker+"\n", string(first))

	second, err := os.ReadFile(filepath.Join(dir, "2024-3-10.log"))
	require.NoError(t, err)
	assert.Equal(t, sessionStartMarker+"\nearly\n"+sessionEndMarker+"\n", string(second))
}

func TestFileEvictOnRollover(t *testing.T) {
	dir := t.TempDir()
	oldest := writeAged(t, dir, "2024-3-7.log", 72*time.Hour)
	middle := writeAged(t, dir, "2024-3-8.log", 48*time.Hour)
	clock := &fakeClock{now: day(2024, time.March, 9)}

	// Two files is not above the cap, so construction keeps both
	f := NewFile(dir, 2, WithClock(clock.Now), WithEvictOnRollover(true))
	defer f.Close()
	assert.FileExists(t, oldest)
	firstDay := f.CurrentFilePath()

	clock.Set(day(2024, time.March, 10))
	require.NoError(t, f.Persist(record.New("next day", "", "", 0), record.LevelInfo))

	assert.NoFileExists(t, oldest)
	assert.FileExists(t, middle)
	assert.FileExists(t, firstDay)
	assert.FileExists(t, f.CurrentFilePath())
}

func TestFileNoEvictionOnRolloverByDefault(t *testing.T) {
	dir := t.TempDir()
	oldest := writeAged(t, dir, "2024-3-7.log", 72*time.Hour)
	writeAged(t, dir, "2024-3-8.log", 48*time.Hour)
	clock := &fakeClock{now: day(2024, time.March, 9)}

	f := NewFile(dir, 2, WithClock(clock.Now))
	defer f.Close()

	clock.Set(day(2024, time.March, 10))
	require.NoError(t, f.Persist(record.New("next day", "", "", 0), record.LevelInfo))

	assert.FileExists(t, oldest)
	files, err := f.AllLogFiles()
	require.NoError(t, err)
	assert.Len(t, files, 4)
}

func TestFileMaxFilesDefault(t *testing.T) {
	f := NewFile(t.TempDir(), 0)
	defer f.Close()
	assert.Equal(t, DefaultMaxFiles, f.MaxFiles())
}

func TestFileUnwritableDirectoryReportsError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0500))
	defer os.Chmod(parent, 0755)

	var errs []error
	f := NewFile(filepath.Join(parent, "logs"), 3, WithErrorHandler(func(err error) {
		errs = append(errs, err)
	}))
	assert.NotEmpty(t, errs)

	err := f.Persist(record.New("x", "", "", 0), record.LevelInfo)
	assert.Error(t, err)
	assert.NoError(t, f.Close())
}


func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}
