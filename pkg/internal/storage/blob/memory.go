package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/internal/ids"
)

func init() {
	RegisterFactory(configs.BlobTypeMemory, func(context.Context, *configs.BlobConfig) (Store, error) {
		return NewMemoryStore(), nil
	})
}

type memoryObject struct {
	info Info
	data []byte
}

// MemoryStore 进程内实现，用于开发与测试.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

// NewMemoryStore 创建空的内存存储.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject), now: time.Now}
}

// SetClock 替换时间来源.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = now
}

func (m *MemoryStore) Put(ctx context.Context, r io.Reader, _ int64, meta Meta) (Info, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, fmt.Errorf("read blob content: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	info := Info{
		ID:          ids.NewAt(now),
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
		Kind:        meta.Kind,
		Checksum:    meta.Checksum,
		Size:        int64(len(data)),
		CreatedAt:   now,
	}
	m.objects[info.ID] = memoryObject{info: info, data: data}

	return info, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Object, error) {
	m.mu.RLock()
	obj, ok := m.objects[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	return &Object{ReadCloser: io.NopCloser(bytes.NewReader(obj.data)), Info: obj.info}, nil
}

func (m *MemoryStore) Stat(_ context.Context, id string) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[id]
	if !ok {
		return Info{}, ErrNotFound
	}

	return obj.info, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[id]; !ok {
		return ErrNotFound
	}

	delete(m.objects, id)

	return nil
}

func (m *MemoryStore) List(ctx context.Context, fn func(Info) error) error {
	m.mu.RLock()
	infos := make([]Info, 0, len(m.objects))

	for _, obj := range m.objects {
		infos = append(infos, obj.info)
	}
	m.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })

	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := fn(info); err != nil {
			return err
		}
	}

	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

// Len 返回当前对象数量.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}
