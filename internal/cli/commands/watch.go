package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces the burst of writes editors emit on save.
const watchDebounce = 250 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-solve a file on every change",
		Long: `Watch solves the file once, then watches it and solves again after
each save. Stop with Ctrl-C.`,
		Example: `  lsolve watch model.lse`,
		Args:    cobra.ExactArgs(1),
		RunE:    runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file: editors that replace
	// the file on save would otherwise drop the watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ctx := cmd.Context()
	solveWatched(ctx, cc, path)
	cc.Renderer.Println(cc.Renderer.Muted(fmt.Sprintf("watching %s", path)))

	target := filepath.Clean(path)
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Renderer.Error(fmt.Sprintf("watch error: %v", err))
		case <-timer.C:
			cc.Renderer.Println("")
			cc.Renderer.Println(cc.Renderer.Muted(time.Now().Format("15:04:05") + " " + path))
			solveWatched(ctx, cc, path)
		}
	}
}

// solveWatched reads, solves, and renders one pass over the watched
// file. Failures render as diagnostics; the watch keeps running.
func solveWatched(ctx context.Context, cc *CommandContext, path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		cc.Renderer.Error(fmt.Sprintf("failed to read %s: %v", path, err))
		return
	}

	res, err := cc.Engine.Run(ctx, fileLabel(path), string(source))
	if res == nil {
		if err != nil && ctx.Err() == nil {
			cc.Renderer.Error(err.Error())
		}
		return
	}
	if err := renderResult(cc.Renderer, res); err != nil {
		cc.Renderer.Error(err.Error())
	}
}
