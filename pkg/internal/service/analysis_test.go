package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/internal/detect"
	"github.com/yeisme/hazopvault/pkg/internal/ids"
	"github.com/yeisme/hazopvault/pkg/internal/model"
	"github.com/yeisme/hazopvault/pkg/internal/service"
)

func TestAnalyzeCreatesIndependentRecords(t *testing.T) {
	env := newTestEnv(t)

	svc, err := service.NewAnalysisService(env.ctx)
	require.NoError(t, err)

	fileID := ids.New()

	a1, err := svc.Analyze(env.ctx, fileID)
	require.NoError(t, err)

	a2, err := svc.Analyze(env.ctx, fileID)
	require.NoError(t, err)

	assert.NotEqual(t, a1.ID, a2.ID)
	assert.Equal(t, fileID, a1.FileID)
	assert.Equal(t, a1.Components, a2.Components)
	require.Len(t, a1.Components, 2)
	assert.Equal(t, "valve", a1.Components[0].Type)

	var count int64
	require.NoError(t, env.db.GetDB().Model(&model.Analysis{}).Where("file_id = ?", fileID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestAnalyzeDetectorFailure(t *testing.T) {
	env := newTestEnv(t)

	broken := detect.DetectorFunc(func(context.Context, string) (detect.Detection, error) {
		return detect.Detection{}, errors.New("model unavailable")
	})

	svc, err := service.NewAnalysisService(env.ctx, service.WithDetector(broken))
	require.NoError(t, err)

	_, err = svc.Analyze(env.ctx, ids.New())
	assert.ErrorIs(t, err, service.ErrDetectionFailed)

	var count int64
	require.NoError(t, env.db.GetDB().Model(&model.Analysis{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAnalyzeRejectsMalformedFileID(t *testing.T) {
	env := newTestEnv(t)

	svc, err := service.NewAnalysisService(env.ctx)
	require.NoError(t, err)

	_, err = svc.Analyze(env.ctx, "../etc/passwd")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestAnalysisGetByID(t *testing.T) {
	env := newTestEnv(t)

	svc, err := service.NewAnalysisService(env.ctx)
	require.NoError(t, err)

	created, err := svc.Analyze(env.ctx, ids.New())
	require.NoError(t, err)

	got, err := svc.GetByID(env.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.SafetyIssues, got.SafetyIssues)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	// 分析结果不可变，删除数据库行后仍从缓存读取
	require.NoError(t, env.db.GetDB().Where("id = ?", created.ID).Delete(&model.Analysis{}).Error)

	cached, err := svc.GetByID(env.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, cached.ID)

	_, err = svc.GetByID(env.ctx, ids.New())
	assert.ErrorIs(t, err, service.ErrNotFound)

	msg, _ := service.Message(err)
	assert.Equal(t, "Analysis not found", msg)
}
