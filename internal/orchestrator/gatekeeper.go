package orchestrator

import (
	"context"
	"fmt"

	"github.com/compozy/releasegate/internal/domain"
	"github.com/compozy/releasegate/internal/repository"
	"github.com/compozy/releasegate/internal/service"
	"github.com/compozy/releasegate/internal/usecase"
	"go.uber.org/zap"
)

// GateConfig contains configuration for a gate run.
type GateConfig struct {
	CheckOnly bool // Stop after the precondition checks, create nothing
	DryRun    bool // Run all checks but skip tag creation and push
	SkipPush  bool // Create the tag locally but do not push it
	CIOutput  bool // Output in CI-friendly key=value format
	Journal   bool // Persist a run record for auditing
}

// Gatekeeper orchestrates the release gate pipeline:
// CleanCheck -> ReadVersion -> ConflictCheck -> CreateTag -> PushTag.
type Gatekeeper struct {
	gitRepo     repository.GitRepository
	manifestSvc service.ManifestService
	journalRepo repository.JournalRepository
	tagPrefix   string
	remote      string
	log         *zap.Logger
}

// NewGatekeeper creates a new Gatekeeper.
func NewGatekeeper(
	gitRepo repository.GitRepository,
	manifestSvc service.ManifestService,
	journalRepo repository.JournalRepository,
	tagPrefix string,
	remote string,
	log *zap.Logger,
) *Gatekeeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gatekeeper{
		gitRepo:     gitRepo,
		manifestSvc: manifestSvc,
		journalRepo: journalRepo,
		tagPrefix:   tagPrefix,
		remote:      remote,
		log:         log,
	}
}

// gateContext holds shared state for one gate run
type gateContext struct {
	version *domain.Version
	tag     *domain.ReleaseTag
}

// Execute runs the gate pipeline to completion or first failure. On full
// success it returns the created release tag; in check-only and dry-run
// modes the returned tag is nil.
func (g *Gatekeeper) Execute(ctx context.Context, cfg GateConfig) (*domain.ReleaseTag, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultGateTimeout)
	defer cancel()

	pipeline := NewPipelineExecutor(g.journalRepo, cfg.Journal, g.log)
	pipeline.SetRemote(g.remote)
	gctx := &gateContext{}

	g.addCleanCheckStage(pipeline, cfg, gctx)
	g.addReadVersionStage(pipeline, cfg, gctx)
	g.addConflictCheckStage(pipeline, gctx)
	g.addCreateTagStage(pipeline, cfg, gctx)
	g.addPushTagStage(pipeline, cfg, gctx)

	if err := pipeline.Execute(ctx); err != nil {
		return nil, err
	}
	g.reportOutcome(cfg, gctx)
	return gctx.tag, nil
}

func (g *Gatekeeper) addCleanCheckStage(pipeline *PipelineExecutor, cfg GateConfig, _ *gateContext) {
	pipeline.AddStage(Stage{
		Name: "Clean Check",
		Type: domain.StageTypeCleanCheck,
		Execute: func(ctx context.Context) (map[string]any, error) {
			uc := &usecase.CheckCleanUseCase{GitRepo: g.gitRepo}
			if err := uc.Execute(ctx); err != nil {
				return nil, err
			}
			g.printStatus(cfg.CIOutput, "✅ Working tree is clean")
			return map[string]any{"clean": true}, nil
		},
	})
}

func (g *Gatekeeper) addReadVersionStage(pipeline *PipelineExecutor, cfg GateConfig, gctx *gateContext) {
	pipeline.AddStage(Stage{
		Name: "Read Version",
		Type: domain.StageTypeReadVersion,
		Execute: func(ctx context.Context) (map[string]any, error) {
			uc := &usecase.ReadVersionUseCase{ManifestSvc: g.manifestSvc}
			version, err := uc.Execute(ctx)
			if err != nil {
				return nil, err
			}
			if err := ValidateVersion(version.Core()); err != nil {
				return nil, &domain.MetadataError{Reason: "invalid version", Err: err}
			}
			gctx.version = version
			pipeline.SetVersion(version.Core())
			g.printCIOutput(cfg.CIOutput, "version=%s\n", version.Core())
			return map[string]any{"version": version.Core()}, nil
		},
	})
}

func (g *Gatekeeper) addConflictCheckStage(pipeline *PipelineExecutor, gctx *gateContext) {
	pipeline.AddStage(Stage{
		Name: "Conflict Check",
		Type: domain.StageTypeConflictCheck,
		Execute: func(ctx context.Context) (map[string]any, error) {
			uc := &usecase.CheckConflictUseCase{GitRepo: g.gitRepo, TagPrefix: g.tagPrefix}
			if err := uc.Execute(ctx, gctx.version); err != nil {
				return nil, err
			}
			return map[string]any{"version": gctx.version.Core()}, nil
		},
	})
}

func (g *Gatekeeper) addCreateTagStage(pipeline *PipelineExecutor, cfg GateConfig, gctx *gateContext) {
	pipeline.AddStage(Stage{
		Name: "Create Tag",
		Type: domain.StageTypeCreateTag,
		Execute: func(ctx context.Context) (map[string]any, error) {
			if cfg.CheckOnly || cfg.DryRun {
				return map[string]any{"skip": true}, nil
			}
			uc := &usecase.TagReleaseUseCase{GitRepo: g.gitRepo, TagPrefix: g.tagPrefix}
			tag, err := uc.Execute(ctx, gctx.version)
			if err != nil {
				return nil, err
			}
			gctx.tag = tag
			pipeline.SetTagName(tag.Name)
			g.printCIOutput(cfg.CIOutput, "tag=%s\n", tag.Name)
			return map[string]any{
				"tag":    tag.Name,
				"commit": tag.CommitSHA,
			}, nil
		},
	})
}

func (g *Gatekeeper) addPushTagStage(pipeline *PipelineExecutor, cfg GateConfig, gctx *gateContext) {
	pipeline.AddStage(Stage{
		Name: "Push Tag",
		Type: domain.StageTypePushTag,
		Execute: func(ctx context.Context) (map[string]any, error) {
			if cfg.CheckOnly || cfg.DryRun || cfg.SkipPush {
				return map[string]any{"skip": true}, nil
			}
			if err := g.gitRepo.PushTag(ctx, gctx.tag.Name); err != nil {
				return nil, &domain.PushError{Tag: gctx.tag.Name, Remote: g.remote, Err: err}
			}
			gctx.tag.Pushed = true
			g.printCIOutput(cfg.CIOutput, "pushed=true\n")
			return map[string]any{
				"tag":    gctx.tag.Name,
				"remote": g.remote,
			}, nil
		},
	})
}

// reportOutcome prints the human-facing result line
func (g *Gatekeeper) reportOutcome(cfg GateConfig, gctx *gateContext) {
	switch {
	case cfg.CheckOnly:
		g.printStatus(cfg.CIOutput,
			fmt.Sprintf("✅ Release %s%s is possible", g.tagPrefix, gctx.version.Core()))
	case cfg.DryRun:
		g.printStatus(cfg.CIOutput,
			fmt.Sprintf("🛈 Dry-run complete – release %s%s validated (no tag created, no push).",
				g.tagPrefix, gctx.version.Core()))
	case cfg.SkipPush:
		g.printStatus(cfg.CIOutput,
			fmt.Sprintf("✅ Tag %s created locally (push skipped)", gctx.tag.Name))
	default:
		g.printStatus(cfg.CIOutput,
			fmt.Sprintf("✅ Tag %s created and pushed to %s", gctx.tag.Name, g.remote))
	}
}

// RetryPush re-pushes an already-created local tag. This is the recovery
// path after a push failure; the tag itself is never recreated here.
func (g *Gatekeeper) RetryPush(ctx context.Context, cfg GateConfig, tag string) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultGateTimeout)
	defer cancel()
	if tag == "" {
		version, err := g.manifestSvc.ReadVersion(ctx)
		if err != nil {
			return err
		}
		tag = g.tagPrefix + version.Core()
	}
	if err := ValidateTagName(tag); err != nil {
		return fmt.Errorf("invalid tag name: %w", err)
	}
	exists, err := g.gitRepo.TagExists(ctx, tag)
	if err != nil {
		return fmt.Errorf("failed to check tag %s: %w", tag, err)
	}
	if !exists {
		return fmt.Errorf("tag %s does not exist locally; run `releasegate release` first", tag)
	}
	if err := g.gitRepo.PushTag(ctx, tag); err != nil {
		return &domain.PushError{Tag: tag, Remote: g.remote, Err: err}
	}
	g.printCIOutput(cfg.CIOutput, "pushed=true\n")
	g.printStatus(cfg.CIOutput, fmt.Sprintf("✅ Tag %s pushed to %s", tag, g.remote))
	return nil
}

// printCIOutput prints output in CI format if enabled
func (g *Gatekeeper) printCIOutput(ciOutput bool, format string, args ...any) {
	if ciOutput {
		fmt.Printf(format, args...)
	}
}

// printStatus prints status messages when not in CI mode
func (g *Gatekeeper) printStatus(ciOutput bool, message string) {
	if !ciOutput {
		fmt.Println(message)
	}
}
