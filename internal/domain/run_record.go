package domain

import (
	"time"
)

// RunStatus represents the overall status of a gate run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusAborted   RunStatus = "aborted"
)

// StageStatus represents the status of an individual pipeline stage
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusRunning   StageStatus = "running"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
	StageStatusSkipped   StageStatus = "skipped"
)

// StageType identifies a pipeline stage
type StageType string

const (
	StageTypeCleanCheck    StageType = "clean_check"
	StageTypeReadVersion   StageType = "read_version"
	StageTypeConflictCheck StageType = "conflict_check"
	StageTypeCreateTag     StageType = "create_tag"
	StageTypePushTag       StageType = "push_tag"
)

// RunRecord captures the progression of a single gate run for auditing.
// It is persisted only when journaling is enabled; the gate itself never
// reads it back to make decisions.
type RunRecord struct {
	SessionID string        `json:"session_id"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Version   string        `json:"version,omitempty"`
	TagName   string        `json:"tag_name,omitempty"`
	Remote    string        `json:"remote,omitempty"`
	Stages    []StageRecord `json:"stages"`
	Status    RunStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
}

// StageRecord represents a single stage in the run
type StageRecord struct {
	Type        StageType      `json:"type"`
	Status      StageStatus    `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Detail      map[string]any `json:"detail,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// NewRunRecord creates a new run record
func NewRunRecord(sessionID string) *RunRecord {
	now := time.Now()
	return &RunRecord{
		SessionID: sessionID,
		StartedAt: now,
		UpdatedAt: now,
		Stages:    []StageRecord{},
		Status:    RunStatusPending,
	}
}

// AddStage appends a pending stage record
func (r *RunRecord) AddStage(stageType StageType) {
	r.Stages = append(r.Stages, StageRecord{
		Type:      stageType,
		Status:    StageStatusPending,
		StartedAt: time.Now(),
	})
	r.UpdatedAt = time.Now()
}

// MarkStageStarted marks a pending stage as running
func (r *RunRecord) MarkStageStarted(stageType StageType) {
	for i := range r.Stages {
		if r.Stages[i].Type == stageType && r.Stages[i].Status == StageStatusPending {
			r.Stages[i].Status = StageStatusRunning
			r.Stages[i].StartedAt = time.Now()
			r.UpdatedAt = time.Now()
			break
		}
	}
}

// MarkStageCompleted marks a running stage as completed with its detail
func (r *RunRecord) MarkStageCompleted(stageType StageType, detail map[string]any) {
	now := time.Now()
	for i := range r.Stages {
		if r.Stages[i].Type == stageType && r.Stages[i].Status == StageStatusRunning {
			r.Stages[i].Status = StageStatusCompleted
			r.Stages[i].CompletedAt = &now
			r.Stages[i].Detail = detail
			r.UpdatedAt = now
			break
		}
	}
}

// MarkStageSkipped marks a running stage as skipped
func (r *RunRecord) MarkStageSkipped(stageType StageType) {
	now := time.Now()
	for i := range r.Stages {
		if r.Stages[i].Type == stageType && r.Stages[i].Status == StageStatusRunning {
			r.Stages[i].Status = StageStatusSkipped
			r.Stages[i].CompletedAt = &now
			r.UpdatedAt = now
			break
		}
	}
}

// MarkStageFailed marks a running stage as failed and aborts the run
func (r *RunRecord) MarkStageFailed(stageType StageType, err error) {
	now := time.Now()
	for i := range r.Stages {
		if r.Stages[i].Type == stageType && r.Stages[i].Status == StageStatusRunning {
			r.Stages[i].Status = StageStatusFailed
			r.Stages[i].CompletedAt = &now
			r.Stages[i].Error = err.Error()
			r.UpdatedAt = now
			break
		}
	}
	r.Status = RunStatusAborted
	r.Error = err.Error()
}

// FailedStage returns the stage the run aborted on, or nil
func (r *RunRecord) FailedStage() *StageRecord {
	for i := range r.Stages {
		if r.Stages[i].Status == StageStatusFailed {
			return &r.Stages[i]
		}
	}
	return nil
}
