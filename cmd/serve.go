package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/PsiACE/psiace/internal/config"
)

const debounceDuration = 500 * time.Millisecond

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and watches for changes",
	Long: `The serve command performs an initial build of your site, then starts a local
web server to serve your output directory. It also watches your content, layouts,
static directories and the site file for changes and automatically rebuilds the site.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), appConfig, logger)
	},
}

// rebuilder serializes builds so debounced rebuilds never overlap.
type rebuilder struct {
	mu       sync.Mutex
	timer    *time.Timer
	building sync.Mutex
	build    func() error
	log      zerolog.Logger
}

func (r *rebuilder) trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(debounceDuration, r.run)
}

func (r *rebuilder) run() {
	r.building.Lock()
	defer r.building.Unlock()
	r.log.Info().Msg("rebuilding site due to changes")
	if err := r.build(); err != nil {
		r.log.Error().Err(err).Msg("rebuild failed")
		return
	}
	r.log.Info().Msg("site rebuilt")
}

func runServe(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	log.Info().Msg("performing initial build")
	if err := runBuildProcess(ctx, cfg, log); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	rb := &rebuilder{
		build: func() error { return runBuildProcess(ctx, cfg, log) },
		log:   log,
	}
	go watch(ctx, watcher, rb, log)

	for _, root := range []string{cfg.ContentDir, cfg.LayoutsDir, cfg.StaticDir} {
		addRecursive(watcher, root, log)
	}
	if cfg.SiteFile != "" {
		if err := watcher.Add(cfg.SiteFile); err != nil {
			log.Debug().Err(err).Str("file", cfg.SiteFile).Msg("not watching site file")
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", serverPort),
		Handler:           siteHandler(cfg.OutputDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("dir", cfg.OutputDir).Msgf("serving site on http://localhost%s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func watch(ctx context.Context, watcher *fsnotify.Watcher, rb *rebuilder, log zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")

			// fsnotify is not recursive; new subdirectories need their own watch.
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				addRecursive(watcher, event.Name, log)
			}
			rb.trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string, log zerolog.Logger) {
	if !isDir(root) {
		log.Debug().Str("dir", root).Msg("directory not found, not watching")
		return
	}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("error walking directory")
			return nil
		}
		if d.IsDir() {
			if watchErr := watcher.Add(path); watchErr != nil {
				log.Warn().Err(watchErr).Str("dir", path).Msg("failed to watch")
			}
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("dir", root).Msg("error during directory walk for watching")
	}
}

// siteHandler serves outputDir without directory listings or caching.
func siteHandler(outputDir string) http.Handler {
	files := http.FileServer(http.Dir(outputDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(outputDir, filepath.FromSlash(r.URL.Path), "index.html")); os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		files.ServeHTTP(w, r)
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
