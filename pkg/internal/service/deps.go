package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"gorm.io/gorm"

	"github.com/yeisme/hazopvault/pkg/configs"
	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
	"github.com/yeisme/hazopvault/pkg/internal/storage/kv"
)

// deps 各服务共享的存储句柄，来自请求上下文中的 storage.Manager.
type deps struct {
	blob   blob.Store
	db     *gorm.DB
	kv     kv.KVStore
	events *Events
	cfg    *configs.AppConfig
}

func depsFromContext(ctx context.Context) (deps, error) {
	mgr := ctxPkg.GetManager(ctx)
	if mgr == nil {
		return deps{}, storeErr("context", errors.New("storage manager not found in context"))
	}

	if mgr.GetBlobStore() == nil || mgr.GetDBClient() == nil {
		return deps{}, storeErr("context", errors.New("blob store or database not initialized"))
	}

	cfg := configs.GetConfig()

	d := deps{
		blob:   mgr.GetBlobStore(),
		db:     mgr.GetDBClient().GetDB(),
		events: newEvents(mgr.GetMQClient(), cfg.Events),
		cfg:    cfg,
	}

	if kvc := mgr.GetKVClient(); kvc != nil {
		d.kv = kvc.KVStore
	}

	return d, nil
}

// now 返回写入记录用的时间，截断到毫秒以保证各数据库读回后一致.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// checksum 内容的 xxhash64 摘要（16 位十六进制）.
func checksum(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}
