package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/lixenwraith/daylog/formatter"
	"github.com/lixenwraith/daylog/record"
)

// DefaultMaxFiles is the retention cap used when none is given
const DefaultMaxFiles = 7

const (
	sessionStartMarker = "==== START of session ===="
	sessionEndMarker   = "==== END of session ===="
)

// LogFile is a file found in the log directory
type LogFile struct {
	Path    string
	ModTime time.Time
}

// File writes records into one file per calendar day ("2024-3-9.log") and caps the number of
// files kept in its directory. The handle is owned by the sink and only touched from the
// dispatcher worker, or during Close.
type File struct {
	identity
	formatter       formatter.Formatter
	dir             string
	maxFiles        int
	evictOnRollover bool
	now             func() time.Time
	onError         func(error)

	file     *os.File
	fileName string // Day name the open handle belongs to
	buf      []byte
}

// NewFile creates the directory if needed, evicts files over the cap and opens the current
// day file. Failures are reported to the error handler and leave the sink without a handle;
// the next Persist retries the open.
func NewFile(dir string, maxFiles int, opts ...Option) *File {
	o := buildOptions(func() formatter.Formatter { return formatter.New() }, opts)
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	f := &File{
		identity:        identity{id: identifierOr(o.id)},
		formatter:       o.formatter,
		dir:             dir,
		maxFiles:        maxFiles,
		evictOnRollover: o.evictOnRollover,
		now:             o.clock,
		onError:         o.onError,
		buf:             make([]byte, 0, 1024),
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.onError(fmt.Errorf("sink: failed to create log directory '%s': %w", dir, err))
	}
	f.DeleteOldLogs()
	if err := f.openFile(); err != nil {
		f.onError(err)
	}
	return f
}

// Formatter implements Sink
func (f *File) Formatter() formatter.Formatter {
	return f.formatter
}

// Directory returns the log directory
func (f *File) Directory() string {
	return f.dir
}

// MaxFiles returns the retention cap
func (f *File) MaxFiles() int {
	return f.maxFiles
}

// CurrentFileName derives the file name from the current calendar day
func (f *File) CurrentFileName() string {
	t := f.now()
	return fmt.Sprintf("%d-%d-%d.log", t.Year(), int(t.Month()), t.Day())
}

// CurrentFilePath returns the full path of the current day file
func (f *File) CurrentFilePath() string {
	return filepath.Join(f.dir, f.CurrentFileName())
}

// Persist implements Sink. The target file is recomputed on every call so crossing midnight
// rolls to a new file without a restart.
func (f *File) Persist(rec record.Record, level record.Level) error {
	if name := f.CurrentFileName(); f.file == nil || name != f.fileName {
		rolled := f.file != nil
		if err := f.closeFile(); err != nil {
			f.onError(err)
		}
		if rolled && f.evictOnRollover {
			f.DeleteOldLogs()
		}
		if err := f.openFile(); err != nil {
			return err
		}
	}

	f.buf = append(f.buf[:0], f.formatter.Format(rec, level)...)
	f.buf = append(f.buf, '\n')
	if _, err := f.file.Write(f.buf); err != nil {
		return fmt.Errorf("sink: failed to write to log file '%s': %w", f.file.Name(), err)
	}
	return nil
}

// AllLogFiles lists every visible regular file in the log directory with its modification time
func (f *File) AllLogFiles() ([]LogFile, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("sink: failed to read log directory '%s': %w", f.dir, err)
	}

	files := make([]LogFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		files = append(files, LogFile{
			Path:    filepath.Join(f.dir, entry.Name()),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// FilesToDelete returns the files beyond the maxFiles newest, newest first.
// Nothing is eligible while the directory holds fewer than maxFiles files.
func (f *File) FilesToDelete() ([]LogFile, error) {
	files, err := f.AllLogFiles()
	if err != nil {
		return nil, err
	}
	if len(files) < f.maxFiles {
		return nil, nil
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Path > files[j].Path
		}
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files[f.maxFiles:], nil
}

// DeleteOldLogs removes the eviction candidates oldest first and returns how many were removed
func (f *File) DeleteOldLogs() int {
	candidates, err := f.FilesToDelete()
	if err != nil {
		f.onError(err)
		return 0
	}

	removed := 0
	for i := len(candidates) - 1; i >= 0; i-- {
		if err := os.Remove(candidates[i].Path); err != nil {
			f.onError(fmt.Errorf("sink: failed to remove old log file '%s': %w", candidates[i].Path, err))
			continue
		}
		removed++
	}
	return removed
}

// DeleteAllLogs removes every file in the directory, drops the handle and opens a fresh
// current-day file
func (f *File) DeleteAllLogs() error {
	var errs error
	if f.file != nil {
		errs = multierr.Append(errs, f.file.Close())
		f.file = nil
		f.fileName = ""
	}

	files, err := f.AllLogFiles()
	errs = multierr.Append(errs, err)
	for i := len(files) - 1; i >= 0; i-- {
		if err := os.Remove(files[i].Path); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("sink: failed to remove log file '%s': %w", files[i].Path, err))
		}
	}

	return multierr.Append(errs, f.openFile())
}

// Sync commits the open file to stable storage
func (f *File) Sync() error {
	if f.file == nil {
		return nil
	}
	return f.file.Sync()
}

// Close writes the end-of-session marker and releases the handle
func (f *File) Close() error {
	return f.closeFile()
}

// openFile opens or creates the current day file for append and marks the session start
func (f *File) openFile() error {
	if f.file != nil {
		if err := f.closeFile(); err != nil {
			f.onError(err)
		}
	}

	name := f.CurrentFileName()
	path := filepath.Join(f.dir, name)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("sink: failed to open/create log file '%s': %w", path, err)
	}
	f.file = file
	f.fileName = name

	if _, err := file.WriteString(sessionStartMarker + "\n"); err != nil {
		return fmt.Errorf("sink: failed to write session marker to '%s': %w", path, err)
	}
	return nil
}

// closeFile writes the end-of-session marker and closes the handle
func (f *File) closeFile() error {
	if f.file == nil {
		return nil
	}
	file := f.file
	f.file = nil
	f.fileName = ""

	_, werr := file.WriteString(sessionEndMarker + "\n")
	err := multierr.Combine(werr, file.Close())
	if err != nil {
		return fmt.Errorf("sink: failed to close log file '%s': %w", file.Name(), err)
	}
	return nil
}
