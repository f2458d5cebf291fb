package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/SRINIVASINDIA/Local-guide/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the guide HTTP API. When watch is enabled the guide document is
reparsed on change; existing sessions keep their version until they
refresh.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "override the configured port")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}
	if allowAll, _ := cmd.Flags().GetBool("allow-all-origins"); allowAll {
		cfg.AllowAll = true
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Watch {
		stop, err := watchGuide(ctx, cfg.GuideFile, eng.Reload)
		if err != nil {
			log.Printf("serve: guide watch disabled: %v", err)
		} else {
			defer stop()
		}
	}

	srv := server.New(server.Config{Port: cfg.Port, AllowAll: cfg.AllowAll}, eng)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

// watchGuide reloads the engine when the guide file changes. Editors
// often replace files rather than write in place, so the parent
// directory is watched and events are debounced.
func watchGuide(ctx context.Context, guideFile string, reload func() error) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(guideFile)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(300*time.Millisecond, func() {
					if err := reload(); err != nil {
						log.Printf("serve: guide reload failed, keeping previous version: %v", err)
					} else {
						log.Printf("serve: guide reloaded from %s", guideFile)
					}
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("serve: guide watch: %v", err)
			}
		}
	}()

	return func() { w.Close() }, nil
}
