package cmd

import (
	"github.com/compozy/releasegate/internal/config"
	"github.com/compozy/releasegate/internal/logger"
	"github.com/compozy/releasegate/internal/orchestrator"
	"github.com/compozy/releasegate/internal/repository"
	"github.com/compozy/releasegate/internal/service"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.

type container struct {
	cfg *config.Config
	log *zap.Logger

	fsRepo      repository.FileSystemRepository
	gitRepo     repository.GitRepository
	journalRepo repository.JournalRepository
	manifestSvc service.ManifestService
}

// newContainer creates a new container with all the dependencies.
func newContainer() (*container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Debug)
	if err != nil {
		return nil, err
	}

	fsRepo := repository.FileSystemRepository(afero.NewOsFs())
	gitRepo, err := repository.NewGitRepository(cfg.Remote, cfg.GitToken)
	if err != nil {
		return nil, err
	}
	journalRepo := repository.NewJSONJournalRepository(fsRepo, cfg.JournalDir, log)
	manifestSvc := service.NewManifestService(fsRepo, cfg.ManifestPath)

	return &container{
		cfg:         cfg,
		log:         log,
		fsRepo:      fsRepo,
		gitRepo:     gitRepo,
		journalRepo: journalRepo,
		manifestSvc: manifestSvc,
	}, nil
}

// newGatekeeper wires the gate orchestrator from the container
func (c *container) newGatekeeper() *orchestrator.Gatekeeper {
	return orchestrator.NewGatekeeper(
		c.gitRepo,
		c.manifestSvc,
		c.journalRepo,
		c.cfg.TagPrefix,
		c.cfg.Remote,
		c.log,
	)
}

// InitCommands initializes all commands with their dependencies
func InitCommands() error {
	c, err := newContainer()
	if err != nil {
		return err
	}

	gate := c.newGatekeeper()
	rootCmd.AddCommand(NewReleaseCmd(gate, c.cfg))
	rootCmd.AddCommand(NewCheckCmd(gate))
	rootCmd.AddCommand(NewPushCmd(gate))
	rootCmd.AddCommand(newVersionCmd())

	return nil
}
