// Package fs provides the file-access collaborator used by record stores and
// the file manager, plus a fault-injecting implementation for tests.
//
// The main types are:
//   - [FS]: interface for filesystem operations
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os] package
//   - [Chaos]: testing implementation that injects failures
//
// The device exposes a single flat namespace of paths on removable flash.
// Every operation here is synchronous and bounded by the file size.
//
// Example usage:
//
//	fsys := fs.NewReal()
//	f, err := fsys.Open("tasks.txt")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	scanner := bufio.NewScanner(f)
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This interface is satisfied by [os.File] and can be used with all
// standard library functions that accept [io.Reader], [io.Writer],
// [io.Seeker], or [io.Closer].
type File interface {
	io.ReadWriteCloser
	io.Seeker

	// Fd returns the file descriptor. See [os.File.Fd].
	// Used for flock(2) in [Real.Lock].
	Fd() uintptr

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)

	// Sync commits the file's contents to disk. See [os.File.Sync].
	Sync() error
}

// Locker represents a held file lock.
// Call [Locker.Close] to release the lock.
//
// Example:
//
//	lock, err := fsys.Lock("tasks.txt")
//	if err != nil {
//	    return err // lock contention or timeout
//	}
//	defer lock.Close()
type Locker interface {
	io.Closer
}

// FS defines filesystem operations for reading, writing, and managing files.
//
// Two implementations are provided:
//   - [Real]: production use, wraps [os] package
//   - [Chaos]: testing use, injects failures
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// --- File Operations ---

	// Open opens a file for reading. See [os.Open].
	Open(path string) (File, error)

	// OpenFile opens a file with specified flags and permissions. See [os.OpenFile].
	// Used for append and exclusive-create.
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// --- Convenience Methods ---

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces the file with data atomically.
	// Uses a temp file + rename so a reader never observes a half-written file.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// --- Directory Operations ---

	// ReadDir reads a directory and returns its entries sorted by name. See [os.ReadDir].
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// --- Metadata ---

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// --- Mutations ---

	// Remove deletes a file or empty directory. See [os.Remove].
	Remove(path string) error

	// Rename moves/renames a file. See [os.Rename].
	Rename(oldpath, newpath string) error

	// --- Locking ---

	// Lock acquires an exclusive lock guarding path.
	// Returns [os.ErrDeadlineExceeded] if the lock is not acquired in time.
	Lock(path string) (Locker, error)
}

// Compile-time interface checks.
var _ File = (*os.File)(nil)
