package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/api"
	"github.com/alexanderramin/twelveweeks/internal/cli"
	"github.com/alexanderramin/twelveweeks/internal/config"
	"github.com/alexanderramin/twelveweeks/internal/db"
	"github.com/alexanderramin/twelveweeks/internal/repository"
	"github.com/alexanderramin/twelveweeks/internal/service"
	"github.com/mattn/go-isatty"
)

const janitorInterval = time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	level.Set(cfg.Level())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	sessions := repository.NewSQLiteSessionRepo(database)
	prefs := repository.NewSQLitePreferenceRepo(database)

	tokens := &service.TokenStore{}
	client := api.New(cfg.API(), tokens, api.NewLogObserver(logger))
	cache := service.NewCache(service.CacheConfig{ListTTL: cfg.ListTTL, DetailTTL: cfg.DetailTTL})
	observer := service.NewLogUseCaseObserver(logger)

	plans := service.NewPlanService(client, cache, service.PlanOptions{
		WeekGoalsTimeout: cfg.WeekGoalsTimeout,
		WeekConcurrency:  cfg.WeekConcurrency,
		DemoFallback:     cfg.Demo(),
	}, observer)

	app := &cli.App{
		Plans:     plans,
		Goals:     service.NewGoalService(client, cache, observer),
		Tasks:     service.NewTaskService(client, cache, observer),
		Auth:      service.NewAuthService(client, tokens, cache, sessions, uow, observer),
		Dashboard: service.NewDashboardService(plans, client, cache, prefs, observer),
		Cache:     cache,
		LogLevel:  level,
	}

	// Forms and the full-screen dashboard need both ends on a terminal.
	app.IsInteractive = func() bool {
		return isTerminal(os.Stdin) && isTerminal(os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go cache.RunJanitor(ctx, janitorInterval)

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
