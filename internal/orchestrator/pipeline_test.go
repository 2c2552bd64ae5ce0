package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/compozy/releasegate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPipelineExecutor_Execute(t *testing.T) {
	t.Run("Should execute all stages in order", func(t *testing.T) {
		mockJournal := new(mockJournalRepository)
		pipeline := NewPipelineExecutor(mockJournal, false, nil)

		var order []string
		pipeline.AddStage(Stage{
			Name: "Stage 1",
			Type: domain.StageTypeCleanCheck,
			Execute: func(_ context.Context) (map[string]any, error) {
				order = append(order, "stage1")
				return map[string]any{"clean": true}, nil
			},
		})
		pipeline.AddStage(Stage{
			Name: "Stage 2",
			Type: domain.StageTypeReadVersion,
			Execute: func(_ context.Context) (map[string]any, error) {
				order = append(order, "stage2")
				return map[string]any{"version": "1.0.0"}, nil
			},
		})

		err := pipeline.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"stage1", "stage2"}, order)
		assert.Equal(t, domain.RunStatusCompleted, pipeline.GetRecord().Status)
		// Journaling disabled: nothing may be written
		mockJournal.AssertNotCalled(t, "Save")
	})

	t.Run("Should abort on first failure without running later stages", func(t *testing.T) {
		mockJournal := new(mockJournalRepository)
		pipeline := NewPipelineExecutor(mockJournal, false, nil)

		stageErr := errors.New("conflict detected")
		laterStageRan := false

		pipeline.AddStage(Stage{
			Name: "Failing Stage",
			Type: domain.StageTypeConflictCheck,
			Execute: func(_ context.Context) (map[string]any, error) {
				return nil, stageErr
			},
		})
		pipeline.AddStage(Stage{
			Name: "Later Stage",
			Type: domain.StageTypeCreateTag,
			Execute: func(_ context.Context) (map[string]any, error) {
				laterStageRan = true
				return nil, nil
			},
		})

		err := pipeline.Execute(context.Background())

		// The abort error is surfaced verbatim, not wrapped
		require.ErrorIs(t, err, stageErr)
		assert.False(t, laterStageRan)
		assert.Equal(t, domain.RunStatusAborted, pipeline.GetRecord().Status)
		failed := pipeline.GetRecord().FailedStage()
		require.NotNil(t, failed)
		assert.Equal(t, domain.StageTypeConflictCheck, failed.Type)
	})

	t.Run("Should mark skipping stages as skipped", func(t *testing.T) {
		mockJournal := new(mockJournalRepository)
		pipeline := NewPipelineExecutor(mockJournal, false, nil)

		pipeline.AddStage(Stage{
			Name: "Skipped Stage",
			Type: domain.StageTypePushTag,
			Execute: func(_ context.Context) (map[string]any, error) {
				return map[string]any{"skip": true}, nil
			},
		})

		err := pipeline.Execute(context.Background())

		require.NoError(t, err)
		record := pipeline.GetRecord()
		require.Len(t, record.Stages, 1)
		assert.Equal(t, domain.StageStatusSkipped, record.Stages[0].Status)
	})

	t.Run("Should journal the record when persistence is enabled", func(t *testing.T) {
		mockJournal := new(mockJournalRepository)
		mockJournal.On("Save", mock.Anything, mock.Anything).Return(nil)
		pipeline := NewPipelineExecutor(mockJournal, true, nil)

		pipeline.AddStage(Stage{
			Name: "Stage",
			Type: domain.StageTypeCleanCheck,
			Execute: func(_ context.Context) (map[string]any, error) {
				return map[string]any{"clean": true}, nil
			},
		})

		err := pipeline.Execute(context.Background())

		require.NoError(t, err)
		mockJournal.AssertCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Should journal the aborted record on failure", func(t *testing.T) {
		mockJournal := new(mockJournalRepository)
		mockJournal.On("Save", mock.Anything, mock.Anything).Return(nil)
		pipeline := NewPipelineExecutor(mockJournal, true, nil)

		pipeline.AddStage(Stage{
			Name: "Failing Stage",
			Type: domain.StageTypeCleanCheck,
			Execute: func(_ context.Context) (map[string]any, error) {
				return nil, errors.New("dirty tree")
			},
		})

		err := pipeline.Execute(context.Background())

		require.Error(t, err)
		assert.Equal(t, domain.RunStatusAborted, pipeline.GetRecord().Status)
		mockJournal.AssertCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
