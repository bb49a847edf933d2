package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/LegacyCodeHQ/relativize/rewriter"
	"github.com/LegacyCodeHQ/relativize/runner"
	"github.com/LegacyCodeHQ/relativize/sourcefs"
)

const debounceInterval = 300 * time.Millisecond

// rewriteLoop runs a rewrite pass whenever source files under the root
// change. Writes made by its own passes do not trigger another pass.
type rewriteLoop struct {
	cfg      runner.Config
	out      io.Writer
	errOut   io.Writer
	debounce time.Duration
	// written maps the files the last passes wrote to the hash of what was
	// written.
	written map[string]uint64
	// passDone, when set, is signalled after every pass.
	passDone chan<- runner.Totals
}

func newRewriteLoop(cfg runner.Config, out, errOut io.Writer) *rewriteLoop {
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = sourcefs.DefaultExtensions
	}
	return &rewriteLoop{
		cfg:      cfg,
		out:      out,
		errOut:   errOut,
		debounce: debounceInterval,
		written:  make(map[string]uint64),
	}
}

func (l *rewriteLoop) run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, l.cfg.Root); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	l.pass(ctx)

	var debounceTimer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}
			if !l.isRelevantChange(event) {
				continue
			}

			if debounceTimer == nil {
				debounceTimer = time.NewTimer(l.debounce)
			} else {
				debounceTimer.Reset(l.debounce)
			}
			fire = debounceTimer.C

		case <-fire:
			fire = nil
			l.pass(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(l.errOut, "watcher error: %v\n", err)
		}
	}
}

func (l *rewriteLoop) pass(ctx context.Context) {
	totals, err := runner.Run(ctx, l.cfg, passObserver{loop: l})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(l.errOut, "rewrite error: %v\n", err)
		}
	} else if totals.Replacements > 0 {
		fmt.Fprintf(l.out, "Replaced %d include directives in %d files (%d files scanned).\n",
			totals.Replacements, totals.FilesChanged, totals.FilesScanned)
	}

	if l.passDone != nil {
		select {
		case l.passDone <- totals:
		case <-ctx.Done():
		}
	}
}

// isRelevantChange reports whether event may change the outcome of a pass.
func (l *rewriteLoop) isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !sourcefs.HasExtension(event.Name, l.cfg.Extensions) {
		return false
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		delete(l.written, event.Name)
		return true
	}
	return !l.wroteCurrentContent(event.Name)
}

func (l *rewriteLoop) wroteCurrentContent(path string) bool {
	sum, ok := l.written[path]
	if !ok {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if xxhash.Sum64(data) != sum {
		delete(l.written, path)
		return false
	}
	return true
}

type passObserver struct {
	runner.NopObserver
	loop *rewriteLoop
}

func (o passObserver) Warn(message string) {
	fmt.Fprintf(o.loop.errOut, "Warning: %s\n", message)
}

func (o passObserver) Report(e rewriter.Event) {
	if e.Kind == rewriter.EventReplaced {
		fmt.Fprintf(o.loop.out, "%s: %s -> %s\n", e.File, e.Directive, e.Replacement)
	}
}

func (o passObserver) FileWritten(_, target string, data []byte) {
	if target != "" {
		o.loop.written[target] = xxhash.Sum64(data)
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

// addWatchDirsWithAdder registers root and its subdirectories. Directories
// that disappear while walking are ignored.
func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path != root {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && sourcefs.SkippedDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
