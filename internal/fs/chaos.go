package fs

import (
	iofs "io/fs"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	OpenFailRate    float64 // Fail Open/OpenFile/ReadFile
	WriteFailRate   float64 // Fail WriteFileAtomic
	RemoveFailRate  float64 // Fail Remove
	RenameFailRate  float64 // Fail Rename
	ReadDirFailRate float64 // Fail ReadDir
	LockFailRate    float64 // Fail Lock acquisition
}

// DefaultChaosConfig returns a config with reasonable fault rates for testing.
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{
		OpenFailRate:    0.05,
		WriteFailRate:   0.05,
		RemoveFailRate:  0.02,
		RenameFailRate:  0.02,
		ReadDirFailRate: 0.02,
		LockFailRate:    0.01,
	}
}

// PathState tracks the fault state of a path for consistent error injection.
type PathState int

const (
	// PathNormal means no persistent fault. Zero value.
	PathNormal PathState = iota
	// PathIOError is sticky: the path always returns EIO (card pulled, bad sector).
	PathIOError
	// PathReadOnly is sticky for writes: returns EROFS, reads still work.
	PathReadOnly
)

// ChaosMode controls how Chaos behaves.
type ChaosMode uint8

const (
	// ChaosModePassthrough behaves like the underlying FS.
	ChaosModePassthrough ChaosMode = iota

	// ChaosModeInject enables fault-rate injection and sticky path state.
	ChaosModeInject

	// ChaosModeStickyOnly applies only sticky path state. Fault rates are disabled.
	ChaosModeStickyOnly
)

// Chaos wraps an [FS] and injects failures for testing.
//
// Injected errors are *fs.PathError values carrying a syscall.Errno, so
// errors.Is(err, os.ErrNotExist) and friends behave like real failures.
// [IsInjected] tells injected errors apart from real ones.
//
// The zero mode is [ChaosModePassthrough]; use [Chaos.SetMode] to enable faults.
type Chaos struct {
	fs     FS
	rng    *rand.Rand
	config ChaosConfig
	mode   atomic.Uint32

	mu         sync.Mutex
	pathStates map[string]PathState

	openFails    atomic.Int64
	writeFails   atomic.Int64
	removeFails  atomic.Int64
	renameFails  atomic.Int64
	readDirFails atomic.Int64
	lockFails    atomic.Int64
}

// NewChaos creates a new Chaos filesystem wrapping the given [FS].
// The seed controls random fault injection for reproducibility.
func NewChaos(fs FS, seed int64, config ChaosConfig) *Chaos {
	return &Chaos{
		fs:         fs,
		rng:        rand.New(rand.NewSource(seed)),
		config:     config,
		pathStates: make(map[string]PathState),
	}
}

// SetMode updates Chaos behavior. Safe for concurrent use.
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// SetPathState pins a sticky fault on path (for testing).
func (c *Chaos) SetPathState(path string, state PathState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state == PathNormal {
		delete(c.pathStates, path)
	} else {
		c.pathStates[path] = state
	}
}

// PathState returns the current fault state for a path (for testing).
func (c *Chaos) PathState(path string) PathState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pathStates[path]
}

// ChaosStats contains counts of injected faults.
type ChaosStats struct {
	OpenFails    int64
	WriteFails   int64
	RemoveFails  int64
	RenameFails  int64
	ReadDirFails int64
	LockFails    int64
}

// Stats returns the current fault injection counts.
func (c *Chaos) Stats() ChaosStats {
	return ChaosStats{
		OpenFails:    c.openFails.Load(),
		WriteFails:   c.writeFails.Load(),
		RemoveFails:  c.removeFails.Load(),
		RenameFails:  c.renameFails.Load(),
		ReadDirFails: c.readDirFails.Load(),
		LockFails:    c.lockFails.Load(),
	}
}

// TotalFaults returns the total number of injected faults.
func (c *Chaos) TotalFaults() int64 {
	s := c.Stats()

	return s.OpenFails + s.WriteFails + s.RemoveFails + s.RenameFails + s.ReadDirFails + s.LockFails
}

// fault decides whether op on path fails, and with which errno.
// Sticky state wins over random rates. write reports whether op mutates.
func (c *Chaos) fault(path string, write bool, rate float64, errs ...syscall.Errno) (syscall.Errno, bool) {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return 0, false
	}

	switch c.PathState(path) {
	case PathIOError:
		return syscall.EIO, true
	case PathReadOnly:
		if write {
			return syscall.EROFS, true
		}
	case PathNormal:
	}

	if mode != ChaosModeInject || len(errs) == 0 {
		return 0, false
	}

	c.mu.Lock()
	hit := c.rng.Float64() < rate
	errno := errs[c.rng.Intn(len(errs))]
	c.mu.Unlock()

	if !hit {
		return 0, false
	}

	if errno == syscall.EIO {
		c.SetPathState(path, PathIOError)
	}

	return errno, true
}

// pathError creates an *fs.PathError with the given operation, path, and errno,
// registered as injected.
func pathError(op, path string, errno syscall.Errno) error {
	pe := &iofs.PathError{Op: op, Path: path, Err: errno}
	markInjectedPathError(pe)

	return pe
}

// --- File Operations ---

func (c *Chaos) Open(path string) (File, error) {
	if errno, ok := c.fault(path, false, c.config.OpenFailRate, syscall.EACCES, syscall.EIO, syscall.EMFILE); ok {
		c.openFails.Add(1)

		return nil, pathError("open", path, errno)
	}

	return c.fs.Open(path)
}

func (c *Chaos) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	isWrite := flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0

	if errno, ok := c.fault(path, isWrite, c.config.OpenFailRate, syscall.EACCES, syscall.EIO, syscall.ENOSPC); ok {
		c.openFails.Add(1)

		return nil, pathError("open", path, errno)
	}

	return c.fs.OpenFile(path, flag, perm)
}

// --- Convenience Methods ---

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if errno, ok := c.fault(path, false, c.config.OpenFailRate, syscall.EACCES, syscall.EIO); ok {
		c.openFails.Add(1)

		return nil, pathError("read", path, errno)
	}

	return c.fs.ReadFile(path)
}

func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if errno, ok := c.fault(path, true, c.config.WriteFailRate, syscall.EIO, syscall.ENOSPC, syscall.EROFS); ok {
		c.writeFails.Add(1)

		return pathError("write", path, errno)
	}

	return c.fs.WriteFileAtomic(path, data, perm)
}

// --- Directory Operations ---

func (c *Chaos) ReadDir(path string) ([]os.DirEntry, error) {
	if errno, ok := c.fault(path, false, c.config.ReadDirFailRate, syscall.EACCES, syscall.EIO); ok {
		c.readDirFails.Add(1)

		return nil, pathError("readdir", path, errno)
	}

	return c.fs.ReadDir(path)
}

func (c *Chaos) MkdirAll(path string, perm os.FileMode) error {
	if errno, ok := c.fault(path, true, 0); ok {
		return pathError("mkdir", path, errno)
	}

	return c.fs.MkdirAll(path, perm)
}

// --- Metadata ---

func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	if errno, ok := c.fault(path, false, 0); ok {
		return nil, pathError("stat", path, errno)
	}

	return c.fs.Stat(path)
}

func (c *Chaos) Exists(path string) (bool, error) {
	if errno, ok := c.fault(path, false, 0); ok {
		return false, pathError("stat", path, errno)
	}

	return c.fs.Exists(path)
}

// --- Mutations ---

func (c *Chaos) Remove(path string) error {
	if errno, ok := c.fault(path, true, c.config.RemoveFailRate, syscall.EACCES, syscall.EBUSY); ok {
		c.removeFails.Add(1)

		return pathError("remove", path, errno)
	}

	return c.fs.Remove(path)
}

func (c *Chaos) Rename(oldpath, newpath string) error {
	if errno, ok := c.fault(oldpath, true, c.config.RenameFailRate, syscall.EACCES, syscall.EXDEV); ok {
		c.renameFails.Add(1)

		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: inject(errno)}
	}

	return c.fs.Rename(oldpath, newpath)
}

// --- Locking ---

func (c *Chaos) Lock(path string) (Locker, error) {
	if _, ok := c.fault(path+".lock", true, c.config.LockFailRate, syscall.EAGAIN); ok {
		c.lockFails.Add(1)

		return nil, inject(os.ErrDeadlineExceeded)
	}

	return c.fs.Lock(path)
}

// Compile-time interface check.
var _ FS = (*Chaos)(nil)
