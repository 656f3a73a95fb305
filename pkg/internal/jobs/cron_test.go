package jobs_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/configs"
	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/jobs"
	"github.com/yeisme/hazopvault/pkg/internal/storage"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
	"github.com/yeisme/hazopvault/pkg/internal/storage/db"
	"github.com/yeisme/hazopvault/pkg/scheduler"
)

func newManager(t *testing.T) (*storage.Manager, *blob.MemoryStore) {
	t.Helper()

	configs.SetConfig(configs.Defaults())

	dbc, err := db.New(context.Background(), &configs.DBConfig{
		Type:         configs.SQLite,
		Database:     "file:" + t.TempDir() + "/jobs.db",
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, dbc.Migrate(context.Background()))

	store := blob.NewMemoryStore()
	mgr := &storage.Manager{DB: dbc, Blob: store}
	t.Cleanup(func() { _ = mgr.Close() })

	return mgr, store
}

func TestRegisterCronJobs(t *testing.T) {
	mgr, _ := newManager(t)

	sched, err := scheduler.NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Stop() })

	require.NoError(t, jobs.RegisterCronJobs(sched, mgr, configs.SweepConfig{Enabled: false, Cron: "0 0 * * *"}))
	assert.Empty(t, sched.GetJobInfos())

	require.NoError(t, jobs.RegisterCronJobs(sched, mgr, configs.SweepConfig{Enabled: true, Cron: "0 0 * * *"}))

	infos := sched.GetJobInfos()
	require.Len(t, infos, 1)
	assert.Equal(t, jobs.JobOrphanSweep, infos[0].Name)

	assert.Error(t, jobs.RegisterCronJobs(nil, mgr, configs.SweepConfig{Enabled: true}))
	assert.Error(t, jobs.RegisterCronJobs(sched, nil, configs.SweepConfig{Enabled: true}))
}

func TestRunOrphanSweep(t *testing.T) {
	mgr, store := newManager(t)

	store.SetClock(func() time.Time { return time.Now().Add(-72 * time.Hour) })

	orphan, err := store.Put(context.Background(), bytes.NewReader([]byte("%PDF")), 4, blob.Meta{Kind: blob.KindReport})
	require.NoError(t, err)

	ctx := ctxPkg.WithStorageManager(context.Background(), mgr)
	require.NoError(t, jobs.RunOrphanSweep(ctx))

	_, err = store.Stat(ctx, orphan.ID)
	assert.ErrorIs(t, err, blob.ErrNotFound)

	assert.Error(t, jobs.RunOrphanSweep(context.Background()))
}
