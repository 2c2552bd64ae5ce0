package orchestrator

import (
	"context"
	"fmt"

	"github.com/compozy/releasegate/internal/domain"
	"github.com/compozy/releasegate/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage represents a single stage in the gate pipeline
type Stage struct {
	Name    string
	Type    domain.StageType
	Execute func(ctx context.Context) (detail map[string]any, err error)
}

// PipelineExecutor runs gate stages strictly in order. The first failure
// aborts the run; there is no rollback and no in-pipeline retry. Stage
// progression is recorded in a RunRecord and optionally journaled.
type PipelineExecutor struct {
	sessionID string
	journal   repository.JournalRepository
	record    *domain.RunRecord
	stages    []Stage
	persist   bool
	log       *zap.Logger
}

// NewPipelineExecutor creates a new pipeline executor
func NewPipelineExecutor(journal repository.JournalRepository, persist bool, log *zap.Logger) *PipelineExecutor {
	sessionID := uuid.New().String()
	if log == nil {
		log = zap.NewNop()
	}
	return &PipelineExecutor{
		sessionID: sessionID,
		journal:   journal,
		record:    domain.NewRunRecord(sessionID),
		stages:    []Stage{},
		persist:   persist,
		log:       log,
	}
}

// AddStage appends a stage to the pipeline
func (p *PipelineExecutor) AddStage(stage Stage) {
	p.stages = append(p.stages, stage)
	p.record.AddStage(stage.Type)
}

// Execute runs all stages in order, stopping at the first failure.
func (p *PipelineExecutor) Execute(ctx context.Context) error {
	if p.persist {
		if err := p.saveRecord(ctx); err != nil {
			return fmt.Errorf("failed to save initial run record: %w", err)
		}
	}
	p.record.Status = domain.RunStatusRunning
	for _, stage := range p.stages {
		if err := p.executeStage(ctx, stage); err != nil {
			p.record.MarkStageFailed(stage.Type, err)
			if p.persist {
				if saveErr := p.saveRecord(ctx); saveErr != nil {
					p.log.Warn("failed to journal aborted run", zap.Error(saveErr))
				}
			}
			p.log.Debug("gate aborted",
				zap.String("stage", stage.Name),
				zap.Error(err))
			// Abort errors are surfaced verbatim; the stage already
			// produced a typed, self-describing failure.
			return err
		}
	}
	p.record.Status = domain.RunStatusCompleted
	if p.persist {
		if saveErr := p.saveRecord(ctx); saveErr != nil {
			p.log.Warn("failed to journal completed run", zap.Error(saveErr))
		}
	}
	return nil
}

// executeStage runs a single stage and records its outcome
func (p *PipelineExecutor) executeStage(ctx context.Context, stage Stage) error {
	p.record.MarkStageStarted(stage.Type)
	if p.persist {
		if saveErr := p.saveRecord(ctx); saveErr != nil {
			p.log.Warn("failed to journal stage start", zap.Error(saveErr))
		}
	}
	p.log.Debug("running stage", zap.String("stage", stage.Name))
	detail, err := stage.Execute(ctx)
	if err != nil {
		return err
	}
	if skipped, ok := detail["skip"].(bool); ok && skipped {
		p.record.MarkStageSkipped(stage.Type)
	} else {
		p.record.MarkStageCompleted(stage.Type, detail)
	}
	if p.persist {
		if saveErr := p.saveRecord(ctx); saveErr != nil {
			p.log.Warn("failed to journal stage completion", zap.Error(saveErr))
		}
	}
	return nil
}

// saveRecord persists the current run record
func (p *PipelineExecutor) saveRecord(ctx context.Context) error {
	return p.journal.Save(ctx, p.record)
}

// GetRecord returns the current run record
func (p *PipelineExecutor) GetRecord() *domain.RunRecord {
	return p.record
}

// SetVersion sets the version in the run record
func (p *PipelineExecutor) SetVersion(version string) {
	p.record.Version = version
}

// SetTagName sets the tag name in the run record
func (p *PipelineExecutor) SetTagName(tagName string) {
	p.record.TagName = tagName
}

// SetRemote sets the remote in the run record
func (p *PipelineExecutor) SetRemote(remote string) {
	p.record.Remote = remote
}
