package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mshel/serpentine/internal/game"
	"github.com/Mshel/serpentine/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

const (
	defaultHostKeyPath = ".ssh/serpentine_ed25519"
	shutdownTimeout    = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	log.SetLevel(log.DebugLevel)

	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Could not load config", "error", err)
	}

	store, err := game.OpenResultStore(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Could not open results database", "error", err)
	}
	defer store.Close()

	keyPath := cfg.Server.PrivateKeyPath
	if keyPath == "" {
		keyPath = defaultHostKeyPath
	}
	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	limiter := newConnectionLimiter(cfg.Server.MaxConnectionsPerIP, log.Default())

	sshServer, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(keyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(viewHandler(cfg, store)),
			logging.Middleware(),
			activeterm.Middleware(),
			limiter.Middleware,
		),
	)
	if err != nil {
		log.Fatal("Failed to create ssh server", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	log.Info("Starting SSH server", "address", addr)
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		log.Error("Could not start server", "error", err)
	}

	log.Info("Stopping SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sshServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop server", "error", err)
	}
}

// viewHandler gives every session its own controller and match.
func viewHandler(cfg game.Config, store *game.ResultStore) bubbletea.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := s.Pty()
		logger := log.Default().With("session", s.Context().SessionID(), "user", s.User())
		model := ui.NewControllerModel(s.Context(), cfg, store, logger, pty.Window.Width, pty.Window.Height)
		return model, []tea.ProgramOption{tea.WithAltScreen()}
	}
}
