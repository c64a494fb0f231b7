package app

import (
	"context"
	"path/filepath"

	"github.com/doeshing/askcmd/internal/domain"
	"github.com/doeshing/askcmd/internal/infrastructure/backend"
	"github.com/doeshing/askcmd/internal/infrastructure/config"
	"github.com/doeshing/askcmd/internal/infrastructure/executor"
	"github.com/doeshing/askcmd/internal/infrastructure/history"
	"github.com/doeshing/askcmd/internal/infrastructure/lock"
	"github.com/doeshing/askcmd/internal/infrastructure/security"
	"github.com/doeshing/askcmd/internal/pkg/filesystem"
	"github.com/doeshing/askcmd/internal/pkg/logger"
	"github.com/doeshing/askcmd/internal/services"
)

// Container wires up application services with infrastructure adapters. The
// configuration is loaded exactly once here and passed by value downstream.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	QueryService *services.QueryService
	Classifier   *security.Classifier
	Ledger       *history.Ledger
	Index        *history.SQLiteIndex
	Logger       *logger.StdLogger
}

// BuildContainer constructs the dependency graph. The interactive console,
// clipboard and spinner are attached by the CLI layer, which owns the
// terminal.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	classifier, err := security.NewClassifier(cfg.Security.RulesFile)
	if err != nil {
		return nil, err
	}

	ledger := history.NewLedger(cfg.History, log)
	index := history.NewSQLiteIndex(filepath.Dir(filesystem.Expand(cfg.History.Path)))

	queryService := &services.QueryService{
		Config:   cfg,
		Backend:  backend.NewOllama(cfg.Model, log),
		Security: classifier,
		Ledger:   ledger,
		Index:    index,
		Executor: executor.NewLocalExecutor(""),
		Logger:   log,
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		QueryService: queryService,
		Classifier:   classifier,
		Ledger:       ledger,
		Index:        index,
		Logger:       log,
	}, nil
}

// DoctorService builds the diagnostics service from the wired components.
func (c *Container) DoctorService() *services.DoctorService {
	return &services.DoctorService{
		Config:       c.Config,
		BackendName:  c.QueryService.Backend.Name(),
		RuleCount:    len(c.Classifier.Rules()),
		LockBackend:  lock.ForFile(filesystem.Expand(c.Config.History.Path)).Backend(),
		IndexPath:    c.Index.Path(),
		IndexHealthy: c.Index.Healthy(),
	}
}
