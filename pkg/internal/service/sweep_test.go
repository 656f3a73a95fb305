package service_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/internal/service"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
)

func TestSweepRemovesOnlyOldUnreferencedReports(t *testing.T) {
	env := newTestEnv(t)
	a := newAnalysis(t, env)

	put := func(kind blob.Kind) blob.Info {
		info, err := env.store.Put(env.ctx, bytes.NewReader([]byte("%PDF-1.3")), 8, blob.Meta{
			Filename:    "x.pdf",
			ContentType: service.ContentTypePDF,
			Kind:        kind,
		})
		require.NoError(t, err)

		return info
	}

	// 宽限期之前写入的对象
	env.store.SetClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })

	oldOrphan := put(blob.KindReport)
	oldUpload := put(blob.KindUpload)

	reports, err := service.NewReportService(env.ctx)
	require.NoError(t, err)

	kept, err := reports.Generate(env.ctx, a.ID)
	require.NoError(t, err)

	env.store.SetClock(time.Now)

	freshOrphan := put(blob.KindReport)

	svc, err := service.NewSweepService(env.ctx)
	require.NoError(t, err)

	res, err := svc.Run(env.ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, []string{oldOrphan.ID}, res.Removed)
	assert.Zero(t, res.Failed)

	for _, id := range []string{oldUpload.ID, kept.FileID, freshOrphan.ID} {
		_, err := env.store.Stat(env.ctx, id)
		assert.NoError(t, err, id)
	}

	_, err = env.store.Stat(env.ctx, oldOrphan.ID)
	assert.ErrorIs(t, err, blob.ErrNotFound)

	again, err := svc.Run(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Removed)
}
