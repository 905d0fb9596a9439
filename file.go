// FILE: file.go
package rtlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/panjf2000/ants/v2"
)

const (
	// Workers for background zip archival; rotation itself never waits on them
	compressWorkers = 2
	// Buffered writer size for the active log file
	fileWriterSize = 32 * 1024
)

// FileAppender writes formatted entries to timestamp-named files in the log
// directory, rotating when the active file exceeds the configured size.
// Rotated files are archived to a sibling zip in the background and the
// original is deleted after successful archival. Retention counts logs and
// archives together.
type FileAppender struct {
	mu sync.Mutex

	dir  string
	name string
	ext  string

	maxBytes    int64
	maxFiles    int
	compress    bool
	flushEveryN int

	file      *os.File
	w         *bufio.Writer
	path      string
	size      int64
	unflushed int
	buf       []byte

	pool         *ants.Pool
	compressions sync.WaitGroup

	rotations atomic.Uint64
	deletions atomic.Uint64

	// onError reports rotation/compression/deletion failures without
	// interrupting the write that triggered them
	onError func(format string, args ...any)
}

// NewFileAppender creates the log directory if needed and opens the first
// timestamp-named file.
func NewFileAppender(cfg *Config) (*FileAppender, error) {
	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return nil, fmtErrorf("failed to create log directory '%s': %w", cfg.Directory, err)
	}

	pool, err := ants.NewPool(compressWorkers)
	if err != nil {
		return nil, fmtErrorf("failed to create compression pool: %w", err)
	}

	mirror := cfg.InternalErrorsToStderr
	f := &FileAppender{
		dir:         cfg.Directory,
		name:        cfg.Name,
		ext:         cfg.Extension,
		maxBytes:    cfg.MaxFileSizeMB * 1024 * 1024,
		maxFiles:    int(cfg.MaxFiles),
		compress:    cfg.CompressRotated,
		flushEveryN: int(cfg.FlushEveryN),
		buf:         make([]byte, 0, 512),
		pool:        pool,
		onError: func(format string, args ...any) {
			internalLog(mirror, format, args...)
		},
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.openNewLocked(); err != nil {
		pool.Release()
		return nil, err
	}
	return f, nil
}

// Append formats and writes one entry, rotating first when the active file
// would exceed the size limit. Writes are buffered; the buffer is flushed
// every flushEveryN entries rather than per write.
func (f *FileAppender) Append(e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		if err := f.openNewLocked(); err != nil {
			return err
		}
	}

	f.buf = appendLine(f.buf[:0], e, e.Level >= LevelError)

	if f.size > 0 && f.size+int64(len(f.buf)) > f.maxBytes {
		if err := f.rotateLocked(); err != nil {
			f.onError("rotation failed: %v", err)
			if f.file == nil {
				return err
			}
		}
	}

	n, err := f.w.Write(f.buf)
	f.size += int64(n)
	if err != nil {
		return fmtErrorf("failed to write to log file '%s': %w", f.path, err)
	}

	f.unflushed++
	if f.unflushed >= f.flushEveryN {
		if err := f.w.Flush(); err != nil {
			return fmtErrorf("failed to flush log file '%s': %w", f.path, err)
		}
		f.unflushed = 0
	}
	return nil
}

// Flush forces any buffered entries to disk immediately
func (f *FileAppender) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushLocked()
}

// Close flushes and closes the file handle, then waits for in-flight
// compression tasks before releasing the worker pool.
func (f *FileAppender) Close() error {
	f.mu.Lock()
	err := f.flushLocked()
	if f.file != nil {
		err = combineErrors(err, f.file.Close())
		f.file = nil
		f.w = nil
	}
	f.mu.Unlock()

	f.compressions.Wait()
	f.pool.Release()
	return err
}

// Rotations returns the number of completed file rotations
func (f *FileAppender) Rotations() uint64 {
	return f.rotations.Load()
}

// Deletions returns the number of files removed by retention pruning
func (f *FileAppender) Deletions() uint64 {
	return f.deletions.Load()
}

func (f *FileAppender) flushLocked() error {
	if f.w == nil {
		return nil
	}
	if err := f.w.Flush(); err != nil {
		return fmtErrorf("failed to flush log file '%s': %w", f.path, err)
	}
	f.unflushed = 0
	if f.file != nil {
		if err := f.file.Sync(); err != nil {
			return fmtErrorf("failed to sync log file '%s': %w", f.path, err)
		}
	}
	return nil
}

// logFileName builds a timestamp-based filename for a file created at t
func (f *FileAppender) logFileName(t time.Time) string {
	ts := t.Format("060102_150405")
	if f.ext != "" {
		return fmt.Sprintf("%s_%s_%d.%s", f.name, ts, t.Nanosecond(), f.ext)
	}
	return fmt.Sprintf("%s_%s_%d", f.name, ts, t.Nanosecond())
}

// openNewLocked opens a fresh timestamp-named file as the active log
func (f *FileAppender) openNewLocked() error {
	path := filepath.Join(f.dir, f.logFileName(time.Now()))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmtErrorf("failed to open log file '%s': %w", path, err)
	}
	f.file = file
	f.w = bufio.NewWriterSize(file, fileWriterSize)
	f.path = path
	f.size = 0
	f.unflushed = 0
	return nil
}

// rotateLocked closes the active file, schedules it for background
// archival, opens a successor, and prunes retained files. The append that
// triggered rotation may block briefly on the directory scan, but
// compression runs on the worker pool so it never stalls subsequent writes.
func (f *FileAppender) rotateLocked() error {
	if f.w != nil {
		if err := f.w.Flush(); err != nil {
			f.onError("flush before rotation failed: %v", err)
		}
	}
	if f.file != nil {
		if err := f.file.Close(); err != nil {
			f.onError("close before rotation failed: %v", err)
		}
	}
	closedPath := f.path
	f.file = nil
	f.w = nil

	if f.compress && closedPath != "" {
		f.compressions.Add(1)
		task := func() {
			defer f.compressions.Done()
			f.compressFile(closedPath)
		}
		if err := f.pool.Submit(task); err != nil {
			// Pool unavailable: archive inline rather than skip
			task()
		}
	}

	if err := f.openNewLocked(); err != nil {
		return err
	}
	f.rotations.Add(1)

	f.pruneLocked()
	return nil
}

// compressFile archives a rotated file to a sibling zip with the same base
// name, deleting the original only after successful archival. Failures are
// reported and the original is kept.
func (f *FileAppender) compressFile(path string) {
	zipPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".zip"

	if err := writeZip(zipPath, path); err != nil {
		_ = os.Remove(zipPath) // drop any partial archive
		f.onError("failed to compress rotated log '%s': %v", path, err)
		return
	}

	if err := os.Remove(path); err != nil {
		f.onError("failed to remove archived log '%s': %v", path, err)
	}
}

// writeZip creates a zip at zipPath containing the single file at srcPath
func writeZip(zipPath, srcPath string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	entry, err := zw.Create(filepath.Base(srcPath))
	if err == nil {
		_, err = io.Copy(entry, in)
	}
	err = combineErrors(err, zw.Close())
	err = combineErrors(err, out.Close())
	return err
}

// pruneLocked deletes the oldest files beyond the retention count. Logs and
// archives are considered together, newest first by modification time; the
// active file is never deleted.
func (f *FileAppender) pruneLocked() {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		f.onError("failed to read log directory '%s' for pruning: %v", f.dir, err)
		return
	}

	type fileMeta struct {
		name    string
		modTime time.Time
	}
	prefix := f.name + "_"
	targetExt := "." + f.ext
	var files []fileMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != targetExt && ext != ".zip" {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		files = append(files, fileMeta{name: entry.Name(), modTime: info.ModTime()})
	}

	if len(files) <= f.maxFiles {
		return
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime.After(files[j].modTime) })

	for _, meta := range files[f.maxFiles:] {
		path := filepath.Join(f.dir, meta.name)
		if path == f.path {
			continue
		}
		if err := os.Remove(path); err != nil {
			f.onError("failed to remove old log file '%s': %v", path, err)
			continue
		}
		f.deletions.Add(1)
	}
}
