// Package transfer performs the conflict-guarded move of an identified
// file into the library. Hash, classify, rename, and link form one
// logical unit per destination path, serialized through a single worker.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/gofrs/flock"

	"cinetree/internal/contentid"
	"cinetree/internal/fileutil"
	"cinetree/internal/logging"
	"cinetree/internal/services"
)

// Transferrer serializes moves. Concurrent callers queue on the in-process
// mutex; the advisory lock file keeps a second cinetree process from
// racing the check-then-move sequence on the same library.
type Transferrer struct {
	mu     sync.Mutex
	lock   *flock.Flock
	logger *slog.Logger
}

// New creates a transferrer whose advisory lock lives at lockPath.
// An empty lockPath disables cross-process locking (tests).
func New(lockPath string, logger *slog.Logger) *Transferrer {
	t := &Transferrer{logger: logging.WithComponent(logger, "transfer")}
	if lockPath != "" {
		t.lock = flock.New(lockPath)
	}
	return t
}

// Result describes what a Move did.
type Result struct {
	// Moved is true when the file now lives at FinalPath.
	Moved bool
	// SkippedDuplicate is true when the destination already held
	// bit-identical content; the incoming file was left untouched.
	SkippedDuplicate bool
	// Conflict carries the classification when the destination was
	// occupied by different content.
	Conflict  *contentid.ConflictInfo
	FinalPath string
	LinkPath  string
}

// Move transfers src to dst and, when linkPath is non-empty, creates the
// mirror symlink. The destination check, the move, and the link are one
// guarded unit: a bit-identical duplicate is skipped, any other occupant
// returns services.ErrConflict with the classification attached, and a
// link failure rolls the move back so the pre-move layout is restored.
func (t *Transferrer) Move(ctx context.Context, src, dst, linkPath string) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if t.lock != nil {
		if err := t.lock.Lock(); err != nil {
			return Result{}, services.Wrap(services.ErrTransient, "transfer", "acquire lock", t.lock.Path(), err)
		}
		defer t.lock.Unlock()
	}

	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, services.Wrap(services.ErrSourceVanished, "transfer", "stat source", src, err)
		}
		return Result{}, services.Wrap(services.ErrTransient, "transfer", "stat source", src, err)
	}

	if fileutil.Exists(dst) {
		info, err := contentid.Classify(src, dst)
		if err != nil {
			return Result{}, err
		}
		if info.Kind == contentid.Duplicate {
			t.logger.Info("destination already holds identical content, skipping",
				logging.String("source", src),
				logging.String("destination", dst),
				logging.String("hash", info.IncomingHash.String()))
			return Result{SkippedDuplicate: true, Conflict: &info, FinalPath: dst}, nil
		}
		t.logger.Warn("destination occupied by different content",
			logging.String("source", src),
			logging.String("destination", dst))
		return Result{Conflict: &info}, services.Wrap(services.ErrConflict, "transfer", "guard destination", dst, nil)
	}

	if err := fileutil.EnsureDir(filepath.Dir(dst)); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "transfer", "ensure destination dir", dst, err)
	}
	if err := renameOrCopy(src, dst); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "transfer", "move file", dst, err)
	}
	result := Result{Moved: true, FinalPath: dst}

	if linkPath != "" {
		if err := t.link(dst, linkPath); err != nil {
			// Best-effort rollback: restore the source so nothing is lost.
			if rbErr := renameOrCopy(dst, src); rbErr != nil {
				t.logger.Error("rollback after link failure also failed; file remains at destination",
					logging.String("destination", dst),
					logging.Error(rbErr))
			}
			return Result{}, services.Wrap(services.ErrTransient, "transfer", "create link", linkPath, err)
		}
		result.LinkPath = linkPath
	}

	t.logger.Info("file transferred",
		logging.String("source", src),
		logging.String("destination", dst),
		logging.Bool("linked", result.LinkPath != ""))
	return result, nil
}

func (t *Transferrer) link(target, linkPath string) error {
	if err := fileutil.EnsureDir(filepath.Dir(linkPath)); err != nil {
		return err
	}
	if err := os.Symlink(target, linkPath); err != nil {
		_ = os.Remove(linkPath)
		if retry := os.Symlink(target, linkPath); retry != nil {
			return fmt.Errorf("symlink %s: %w", linkPath, err)
		}
	}
	return nil
}

// renameOrCopy prefers an atomic rename and falls back to copy-then-delete
// only across filesystems.
func renameOrCopy(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if copyErr := fileutil.CopyFile(src, dst); copyErr != nil {
			return copyErr
		}
		return os.Remove(src)
	}
	return err
}
