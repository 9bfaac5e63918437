// Package jsonfile implements the employee directory and entry log ports as
// flat JSON files, guarded by file locks and replaced atomically on write.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"

	"github.com/punchcardhq/punchcard/internal/domain/port/driven"
)

// lockRetryDelay is the poll interval while waiting for the file lock.
const lockRetryDelay = 25 * time.Millisecond

// fileStore wraps one JSON file with the locking discipline both repos share.
// The flock serializes other processes touching the same file; the mutex
// serializes goroutines sharing this store, since a flock held by the process
// does not exclude its own goroutines.
type fileStore struct {
	path        string
	mu          sync.Mutex
	flk         *flock.Flock
	lockTimeout time.Duration
}

func newFileStore(path string, lockTimeout time.Duration) *fileStore {
	return &fileStore{
		path:        path,
		flk:         flock.New(path + ".lock"),
		lockTimeout: lockTimeout,
	}
}

// withLock runs fn while holding the store's exclusive lock. Acquisition is
// bounded by the configured timeout; contention past it surfaces as ErrBusy
// so callers can retry instead of blocking indefinitely.
func (s *fileStore) withLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	ok, err := s.flk.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("acquire lock for %s: %w", s.path, err)
	}
	if !ok {
		return fmt.Errorf("lock %s: %w", s.path, driven.ErrBusy)
	}
	defer func() { _ = s.flk.Unlock() }()

	return fn()
}

// readInto decodes the store file into v. A missing file leaves v untouched
// (empty store). Unparsable contents wrap ErrCorrupt so callers never mistake
// a damaged file for an empty one.
func (s *fileStore) readInto(v any) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s (%v): %w", s.path, err, driven.ErrCorrupt)
	}
	return nil
}

// write marshals v and atomically replaces the store file, so a crash
// mid-write can never leave a half-written JSON document behind.
func (s *fileStore) write(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
