package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mshel/serpentine/internal/game"
	"github.com/Mshel/serpentine/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	headless := flag.Bool("headless", false, "run one match without the TUI and log the standings")
	logPath := flag.String("log", "serpentine.log", "log file used while the TUI owns the terminal")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Could not load config", "error", err)
	}

	store, err := game.OpenResultStore(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Could not open results database", "error", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *headless {
		if err := runHeadless(ctx, cfg, store); err != nil {
			log.Error("Match failed", "error", err)
			os.Exit(1)
		}
		return
	}

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal("Could not open log file", "path", *logPath, "error", err)
	}
	defer logFile.Close()
	logger := log.NewWithOptions(logFile, log.Options{ReportTimestamp: true, Level: log.GetLevel()})

	p := tea.NewProgram(ui.NewControllerModel(ctx, cfg, store, logger, 0, 0), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Error("TUI stopped", "error", err)
		os.Exit(1)
	}
}

// runHeadless plays a single match at full speed.
func runHeadless(ctx context.Context, cfg game.Config, store *game.ResultStore) error {
	cfg.TickDuration = 0
	match, err := game.NewMatch(cfg, store, log.Default())
	if err != nil {
		return err
	}
	defer match.Close()
	return match.Run(ctx)
}
