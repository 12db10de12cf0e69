package main

import (
	"context"
	"io/fs"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"homestead/db"
	httpadapter "homestead/internal/adapter/http"
	metricsinmem "homestead/internal/adapter/metrics/inmemory"
	metricsprom "homestead/internal/adapter/metrics/prom"
	gormrepo "homestead/internal/adapter/repo/gorm"
	"homestead/internal/adapter/repo/memory"
	"homestead/internal/app/action"
	"homestead/internal/app/entities"
	"homestead/internal/app/ports"
	"homestead/internal/app/profile"
	"homestead/internal/app/quests"
	"homestead/internal/app/replay"
	"homestead/internal/app/sweep"
	"homestead/internal/domain/catalog"
	"homestead/internal/domain/clock"
	"homestead/internal/domain/farm"

	"github.com/cloudwego/hertz/pkg/app/server"
)

type repos struct {
	tx      ports.TxManager
	state   ports.FarmStateRepository
	actions ports.ActionExecutionRepository
	events  ports.EventRepository
}

// sharedDice draws from the package-level source, which is safe for
// concurrent use.
type sharedDice struct{}

func (sharedDice) Float64() float64 { return rand.Float64() }
func (sharedDice) Intn(n int) int   { return rand.Intn(n) }

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	r := mustBuildRepos(cfg)

	engine := farm.NewEngine(cat, sharedDice{})
	clk := clock.NewMonotonic(clock.System())
	starter := cfg.starter()
	kpiRecorder := metricsinmem.NewRecorder()
	promRecorder := metricsprom.NewRecorder()

	h := httpadapter.Handler{
		ActionUC: action.UseCase{
			TxManager:  r.tx,
			StateRepo:  r.state,
			ActionRepo: r.actions,
			EventRepo:  r.events,
			Metrics:    ports.MultiMetrics{kpiRecorder, promRecorder},
			Engine:     engine,
			Starter:    starter,
			Clock:      clk,
		},
		ProfileUC:  profile.UseCase{TxManager: r.tx, StateRepo: r.state, Engine: engine, Starter: starter, Clock: clk},
		EntitiesUC: entities.UseCase{TxManager: r.tx, StateRepo: r.state, Engine: engine, Starter: starter, Clock: clk},
		QuestsUC:   quests.UseCase{TxManager: r.tx, StateRepo: r.state, Engine: engine, Starter: starter, Clock: clk},
		ReplayUC:   replay.UseCase{Events: r.events},
		Catalog:    cat,
		KPI:        kpiRecorder,
		Metrics:    promRecorder.Handler(),
		Logger:     logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.SweepInterval > 0 {
		sweeper := sweep.Sweeper{
			TxManager: r.tx,
			StateRepo: r.state,
			Engine:    engine,
			Clock:     clk,
			Logger:    logger,
		}
		go sweeper.Run(ctx, cfg.SweepInterval)
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	log.Printf("homestead server listening on %s (%d templates)", cfg.HTTPAddr, len(cat.Templates()))
	s.Spin()
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.LoadDefault()
	}
	return catalog.Load(path)
}

func mustBuildRepos(cfg config) repos {
	if cfg.DatabaseDSN == "" {
		log.Println("FARM_DB_DSN not set, using in-memory store")
		store := memory.NewStore()
		return repos{
			tx:      memory.NewTxManager(store),
			state:   memory.NewFarmStateRepo(store),
			actions: memory.NewActionExecutionRepo(store),
			events:  memory.NewEventRepo(store),
		}
	}

	gdb, err := gormrepo.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if cfg.AutoMigrate {
		if err := gormrepo.ApplyMigrations(context.Background(), gdb, migrationsFS(cfg.MigrationsDir)); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
	}
	return repos{
		tx:      gormrepo.NewTxManager(gdb),
		state:   gormrepo.NewFarmStateRepo(gdb),
		actions: gormrepo.NewActionExecutionRepo(gdb),
		events:  gormrepo.NewEventRepo(gdb),
	}
}

func migrationsFS(dir string) fs.FS {
	if strings.TrimSpace(dir) != "" {
		return os.DirFS(dir)
	}
	return db.Migrations()
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
}
