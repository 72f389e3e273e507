package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mPokornyETM/oaprojects/pkg/service"
)

func NewWatchCmd(svc **service.Service) *cobra.Command {
	var watchDebounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the registry and search roots and refresh on change",
		Long: `The watch command keeps the project inventory fresh: it watches the
installation registry and the configured search roots, and re-reads the
environment whenever something changes. Press Ctrl+C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("creating watcher: %w", err)
			}
			defer watcher.Close()

			// The registry file may be replaced atomically, so watch its
			// directory rather than the file itself.
			paths := []string{filepath.Dir(s.Config.RegistryPath)}
			paths = append(paths, s.Config.SearchRoots...)

			watched := 0
			for _, p := range paths {
				if err := watcher.Add(p); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: cannot watch %s: %v\n", p, err)
					continue
				}
				watched++
			}
			if watched == 0 {
				return fmt.Errorf("nothing to watch: no registry directory or search root is accessible")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			refresh := func() {
				if _, err := s.Refresh(); err != nil {
					fmt.Fprintf(os.Stderr, "%s refresh failed: %v\n", time.Now().Format("15:04:05"), err)
					return
				}
				projects := s.Projects()
				unregistered := 0
				for _, p := range projects {
					if p.Unregistered {
						unregistered++
					}
				}
				fmt.Printf("%s %d project(s), %d unregistered\n", time.Now().Format("15:04:05"), len(projects), unregistered)
			}

			fmt.Printf("👀 Watching %d path(s)...\n", watched)
			refresh()

			// Bursts of filesystem events collapse into a single refresh.
			var debounce *time.Timer
			trigger := make(chan struct{}, 1)

			for {
				select {
				case <-ctx.Done():
					fmt.Println("\nStopped.")
					return nil
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
						continue
					}
					if debounce != nil {
						debounce.Stop()
					}
					debounce = time.AfterFunc(watchDebounce, func() {
						select {
						case trigger <- struct{}{}:
						default:
						}
					})
				case <-trigger:
					refresh()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
				}
			}
		},
	}

	cmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "How long to wait after the last change before refreshing")

	return cmd
}
