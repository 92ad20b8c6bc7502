package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/curlcount/internal/app"
	"github.com/ayusman/curlcount/internal/capture"
	"github.com/ayusman/curlcount/internal/config"
	"github.com/ayusman/curlcount/internal/log"
	"github.com/ayusman/curlcount/internal/server"
	"github.com/ayusman/curlcount/internal/session"
	"github.com/ayusman/curlcount/internal/store"
	"github.com/ayusman/curlcount/internal/tray"
)

type serveOptions struct {
	addr      string
	camera    int
	dataDir   string
	pluginDir string
	webDir    string
	tuning    string
	logLevel  string
	tray      bool
	start     bool
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the counter with the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", ":8080", "HTTP listen address")
	f.IntVar(&opts.camera, "camera", 0, "camera device ID")
	f.StringVar(&opts.dataDir, "data-dir", "", "data directory (default $CURLCOUNT_HOME or ~/.curlcount)")
	f.StringVar(&opts.pluginDir, "plugin-dir", "", "plugin directory (default ./plugins or <data-dir>/plugins)")
	f.StringVar(&opts.webDir, "web", "", "static web directory (default ./web or <data-dir>/web)")
	f.StringVar(&opts.tuning, "tuning", "", "JSON tuning file applied over the saved settings")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.BoolVar(&opts.tray, "tray", false, "show a system tray menu")
	f.BoolVar(&opts.start, "start", false, "start counting immediately instead of waiting for a thumbs-up")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	log.Init(opts.logLevel)

	dataDir, err := resolveDataDir(opts.dataDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(filepath.Join(dataDir, "curlcount.db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	var tuning *config.Tuning
	if opts.tuning != "" {
		if tuning, err = config.LoadTuning(opts.tuning); err != nil {
			return err
		}
	}

	camOpts := capture.DefaultOptions()
	camOpts.DeviceID = opts.camera

	pluginDir := firstDir(opts.pluginDir, "plugins")
	if pluginDir == "" {
		pluginDir = filepath.Join(dataDir, "plugins")
	}
	a, err := app.New(app.Config{
		Store:     st,
		PluginDir: pluginDir,
		Camera:    camOpts,
		Tuning:    tuning,
	})
	if err != nil {
		return err
	}
	if err := a.DiscoverPlugins(); err != nil {
		log.Warn("plugin discovery failed", "dir", pluginDir, "error", err)
	}

	if err := a.Start(); err != nil {
		// The API and replayed results still work without a camera.
		log.Error("camera unavailable", "device", opts.camera, "error", err)
	}
	defer a.Stop()
	if opts.start {
		a.SetEnabled(true)
	}

	webDir := firstDir(opts.webDir, "web", filepath.Join(dataDir, "web"))
	if webDir != "" {
		log.Info("serving static files", "dir", webDir)
	}
	srv := server.New(server.Config{
		StaticDir: webDir,
		App:       a,
		Store:     st,
		Frames:    a.Frames(),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !opts.tray {
		return serveHTTP(ctx, srv, opts.addr)
	}

	// The tray owns the main thread; HTTP runs beside it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t := tray.New(a.IsEnabled(), a.VoiceEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnReset(func() {
		if err := a.Reset(); err != nil {
			log.Error("reset failed", "error", err)
		}
	})
	t.OnVoice(func(on bool) {
		if err := a.SetVoice(on); err != nil {
			log.Error("failed to save voice setting", "error", err)
		}
	})
	t.OnOpen(func() { openBrowser(browserURL(opts.addr)) })
	t.OnQuit(cancel)

	unsubscribe := a.Subscribe(func(res session.Result) {
		t.SetEnabled(a.IsEnabled())
		t.Update(res)
	})
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() {
		errCh <- serveHTTP(ctx, srv, opts.addr)
		t.Quit()
	}()

	t.Run()
	cancel()
	return <-errCh
}

func serveHTTP(ctx context.Context, srv *server.Server, addr string) error {
	err := srv.ListenAndServe(ctx, addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// resolveDataDir picks the flag, then $CURLCOUNT_HOME, then ~/.curlcount.
func resolveDataDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("CURLCOUNT_HOME"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".curlcount"), nil
}

// firstDir returns explicit if set, otherwise the first candidate that is an
// existing directory, or "".
func firstDir(explicit string, candidates ...string) string {
	if explicit != "" {
		return explicit
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Warn("failed to open browser", "url", url, "error", err)
		return
	}
	go cmd.Wait()
}
