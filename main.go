package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"snag-frenzy/internal/app"
	"snag-frenzy/internal/config"
	"snag-frenzy/internal/game"

	"github.com/gdamore/tcell/v2"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML tuning file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	stateDir, err := game.StateDir()
	if err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	logFile, err := config.OpenLogFile(stateDir, game.AppName+".log")
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	log := config.NewLogger(cfg.LogLevel, logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sp := app.NewServiceProvider(cfg, log)
	defer sp.Close()

	dir := sp.DataDir()
	ledger, release := sp.Ledger(dir)
	defer release()
	runner := sp.NewCabinet(ctx, app.CabinetDeps{
		Ledger:   ledger,
		Observer: game.NewJournal(dir, ledger, log),
		Logger:   log,
	})

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	game.New(screen, runner, log).Run(ctx)
	return nil
}
