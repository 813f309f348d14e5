// Package inbox watches a drop directory for change-set files and applies
// them through the same pipeline as the HTTP API. A file named
// <tripID>.json is applied to that trip, then moved to applied/ on
// success or failed/ on rejection.
package inbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/halvard/wayfare/internal/tripservice"
)

const (
	appliedDir = "applied"
	failedDir  = "failed"

	// debounceDelay is the quiet period after the last Create/Write event
	// before pending files are processed. Writers that stream a change-set
	// in chunks keep resetting the timer, so a file is only read once its
	// writer has gone silent.
	debounceDelay = 500 * time.Millisecond
)

// Watch starts an fsnotify watcher on dir and processes dropped change-set
// files until ctx is cancelled. Files already present at startup are
// processed first. Dropped files are debounced before processing so
// non-atomic writes are not read half-written. Malformed files are moved
// aside with a warning; nothing stops the watcher except ctx.
func Watch(ctx context.Context, dir string, svc *tripservice.Service, enrich bool, logger *slog.Logger) error {
	for _, sub := range []string{appliedDir, failedDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return err
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("inbox: started", slog.String("dir", dir))

	// Drain anything that was dropped while we weren't running.
	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
				process(ctx, dir, e.Name(), svc, enrich, logger)
			}
		}
	}

	// flushTimer debounces pending files: every Create/Write resets it, so
	// the flush only fires after debounceDelay of silence.
	pending := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func(name string) {
		pending[name] = struct{}{}
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounceDelay)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounceDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("inbox: stopped")
			return nil

		case <-flushCh:
			for name := range pending {
				delete(pending, name)
				process(ctx, dir, name, svc, enrich, logger)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".json") || filepath.Dir(ev.Name) != filepath.Clean(dir) {
				continue
			}
			schedule(name)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("inbox: watch error", slog.String("error", watchErr.Error()))
		}
	}
}

// process applies one dropped file and archives it. The trip id comes
// from a top-level tripId field when present, else the file name minus
// its extension.
func process(ctx context.Context, dir, name string, svc *tripservice.Service, enrich bool, logger *slog.Logger) {
	path := filepath.Join(dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("inbox: read failed", slog.String("file", name), slog.String("error", err.Error()))
		return
	}

	tripID := tripIDFrom(raw)
	if tripID == "" {
		tripID = strings.TrimSuffix(name, ".json")
	}
	res, err := svc.Apply(ctx, tripID, raw, tripservice.AllTargets(), enrich)
	if err != nil {
		logger.Warn("inbox: apply failed",
			slog.String("file", name),
			slog.String("trip", tripID),
			slog.String("error", err.Error()))
		archive(path, filepath.Join(dir, failedDir, name), logger)
		return
	}

	logger.Info("inbox: applied",
		slog.String("file", name),
		slog.String("trip", tripID),
		slog.String("summary", res.Summary))
	archive(path, filepath.Join(dir, appliedDir, name), logger)
}

// tripIDFrom peeks at the payload for an explicit tripId. The field is
// not part of the change-set contract, so the validator never sees it;
// it only routes the file.
func tripIDFrom(raw []byte) string {
	var peek struct {
		TripID string `json:"tripId"`
	}
	if err := json.Unmarshal(raw, &peek); err != nil {
		return ""
	}
	return peek.TripID
}

func archive(from, to string, logger *slog.Logger) {
	if err := os.Rename(from, to); err != nil {
		logger.Warn("inbox: archive failed", slog.String("file", from), slog.String("error", err.Error()))
	}
}
