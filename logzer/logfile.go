package logzer

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gwos/datetime/datetime"
)

// LogFile provides file rotation.
// Rotated files get the rotation instant in basic form as suffix,
// so their names sort in the order they were written.
type LogFile struct {
	mu       sync.Mutex
	file     *os.File
	fileSize int64
	rotated  time.Time

	FilePath string
	MaxSize  int64
	Rotate   int
}

// Close implements io.Closer interface
func (f *LogFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// Write implements io.Writer interface
func (f *LogFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		f.open()
	}
	if f.file != nil &&
		(f.MaxSize > 0 && f.MaxSize < f.fileSize+int64(len(p))) {
		f.rotate()
	}
	if f.file == nil {
		return 0, os.ErrClosed
	}

	n, err := f.file.Write(p)
	if err != nil {
		f.open()
		n, err = f.file.Write(p)
	}
	if err == nil {
		f.fileSize += int64(n)
	}
	return n, err
}

// Rotated returns rotated file names, oldest first
func (f *LogFile) Rotated() []string {
	matches, _ := filepath.Glob(f.FilePath + ".*")
	suffixLen := len(datetime.InstantLayoutBasic) + 1
	names := matches[:0]
	for _, m := range matches {
		if len(m) == len(f.FilePath)+suffixLen {
			names = append(names, m)
		}
	}
	sort.Strings(names)
	return names
}

func (f *LogFile) open() {
	if f.file != nil {
		_ = f.file.Close()
		f.file = nil
	}
	if file, err := os.OpenFile(f.FilePath,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		f.file = file
		f.fileSize = 0
		if fileInfo, err := file.Stat(); err == nil {
			f.fileSize = fileInfo.Size()
		}
	}
}

func (f *LogFile) rotate() {
	_ = f.file.Close()
	f.file = nil
	if f.Rotate == 0 {
		_ = os.Remove(f.FilePath)
	} else {
		/* keep suffixes strictly increasing on coarse clocks */
		ts := time.Now().UTC()
		if !ts.After(f.rotated) {
			ts = f.rotated.Add(time.Nanosecond)
		}
		f.rotated = ts
		_ = os.Rename(f.FilePath, f.FilePath+"."+datetime.FormatInstant(datetime.NewInstant(ts)))
		if names := f.Rotated(); len(names) > f.Rotate {
			for _, name := range names[:len(names)-f.Rotate] {
				_ = os.Remove(name)
			}
		}
	}
	f.open()
}
