package mux

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockName is the lock file created in a locked directory.
const lockName = ".submux.lock"

// DirLock holds an exclusive lock on an output directory.
type DirLock struct {
	lock *flock.Flock
}

// LockDir creates dir if needed and takes an exclusive, non-blocking lock on
// it. It returns ErrLocked when another process holds the lock.
func LockDir(dir string) (*DirLock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", dir, ErrLocked)
	}
	return &DirLock{lock: lock}, nil
}

// Unlock releases the lock. The lock file is left in place so a waiting
// process never locks a file that is about to be unlinked.
func (l *DirLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
