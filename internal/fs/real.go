package fs

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sys/unix"
)

// Real implements [FS] using the real filesystem.
//
// All methods are pure passthroughs to the [os] package with identical
// behavior and error semantics. The only exceptions are [Real.Exists] which
// wraps [os.Stat], [Real.WriteFileAtomic] which uses atomic file writes,
// and [Real.Lock] which provides file locking.
type Real struct{}

// NewReal returns a new [Real] filesystem.
func NewReal() *Real {
	return &Real{}
}

// --- File Operations ---

// A passthrough wrapper for [os.Open].
func (r *Real) Open(path string) (File, error) {
	return os.Open(path)
}

// A passthrough wrapper for [os.OpenFile].
func (r *Real) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(path, flag, perm)
}

// --- Convenience Methods ---

// A passthrough wrapper for [os.ReadFile].
func (r *Real) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (r *Real) WriteFileAtomic(path string, data []byte, _ os.FileMode) error {
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// --- Directory Operations ---

// A passthrough wrapper for [os.ReadDir].
func (r *Real) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// A passthrough wrapper for [os.MkdirAll].
func (r *Real) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// --- Metadata ---

// A passthrough wrapper for [os.Stat].
func (r *Real) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Exists checks if a file exists using [os.Stat].
// Returns (true, nil) if the file exists, (false, nil) if it does not,
// or (false, err) for other errors.
func (r *Real) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// --- Mutations ---

// A passthrough wrapper for [os.Remove].
func (r *Real) Remove(path string) error {
	return os.Remove(path)
}

// A passthrough wrapper for [os.Rename].
func (r *Real) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// --- Locking ---

const (
	lockTimeout = 2 * time.Second
	lockRetry   = 5 * time.Millisecond
	lockPerms   = 0o644
	dirPerms    = 0o755
)

// realLock holds an exclusive flock on a lock file.
type realLock struct {
	file *os.File
}

func (l *realLock) Close() error {
	if l.file == nil {
		return nil
	}

	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	err := l.file.Close()
	l.file = nil

	return err
}

// Lock takes an exclusive flock on <dir>/.locks/<base>.lock.
//
// Lock files live in a hidden subdirectory so listings of the data
// directory stay clean. The lock file is never removed, which keeps the
// inode stable for every process that locks it.
func (r *Real) Lock(path string) (Locker, error) {
	locksDir := filepath.Join(filepath.Dir(path), ".locks")
	lockPath := filepath.Join(locksDir, filepath.Base(path)+".lock")

	if err := os.MkdirAll(locksDir, dirPerms); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, lockPerms)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(lockTimeout)

	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &realLock{file: file}, nil
		}

		if err != unix.EWOULDBLOCK && err != unix.EINTR {
			file.Close()

			return nil, &os.PathError{Op: "flock", Path: lockPath, Err: err}
		}

		if time.Now().After(deadline) {
			file.Close()

			return nil, os.ErrDeadlineExceeded
		}

		time.Sleep(lockRetry)
	}
}

// Compile-time interface check.
var _ FS = (*Real)(nil)
