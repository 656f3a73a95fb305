package service_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/configs"
	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/storage"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
	"github.com/yeisme/hazopvault/pkg/internal/storage/db"
	"github.com/yeisme/hazopvault/pkg/internal/storage/kv"
	"github.com/yeisme/hazopvault/pkg/internal/storage/mq"
)

type testEnv struct {
	ctx   context.Context
	cfg   configs.AppConfig
	store *blob.MemoryStore
	db    *db.Client
	mq    *mq.Client
	mgr   *storage.Manager
}

// newTestEnv 组装内存对象存储、临时 sqlite、内存 KV 与内存 MQ.
func newTestEnv(t *testing.T, mutate ...func(*configs.AppConfig)) *testEnv {
	t.Helper()

	ctx := context.Background()

	cfg := configs.Defaults()
	cfg.Image.MaxDimension = 100
	cfg.Report.Compress = false

	for _, fn := range mutate {
		fn(&cfg)
	}

	configs.SetConfig(cfg)

	dbc, err := db.New(ctx, &configs.DBConfig{
		Type:         configs.SQLite,
		Database:     "file:" + filepath.Join(t.TempDir(), "hazop.db"),
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, dbc.Migrate(ctx))

	mqc, err := mq.New(ctx, &configs.MQConfig{Type: configs.MQTypeMemory})
	require.NoError(t, err)

	store := blob.NewMemoryStore()

	mgr := &storage.Manager{
		DB:   dbc,
		Blob: store,
		KV:   &kv.Client{KVStore: kv.NewMemoryKV(), Type: configs.KVTypeMemory},
		MQ:   mqc,
	}
	t.Cleanup(func() { _ = mgr.Close() })

	return &testEnv{
		ctx:   ctxPkg.WithStorageManager(ctx, mgr),
		cfg:   cfg,
		store: store,
		db:    dbc,
		mq:    mqc,
		mgr:   mgr,
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}
