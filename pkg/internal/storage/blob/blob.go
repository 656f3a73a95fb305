// Package blob 提供二进制对象（上传的图像、生成的报告）的存储抽象.
//
// 每个对象在写入时分配一个 ULID 作为标识，写入是原子的：要么完整可读，要么不存在.
// 后端通过工厂注册，目前支持 MinIO/S3、MongoDB GridFS 与进程内存储.
//
// Example:
//
//	store, err := blob.New(ctx, &configs.GetConfig().Blob)
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	info, err := store.Put(ctx, bytes.NewReader(data), int64(len(data)), blob.Meta{
//		Filename:    "diagram.png",
//		ContentType: "image/png",
//		Kind:        blob.KindUpload,
//	})
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/yeisme/hazopvault/pkg/configs"
)

// ErrNotFound 对象不存在.
var ErrNotFound = errors.New("blob not found")

// Kind 区分对象来源，清理任务只处理报告对象.
type Kind string

const (
	KindUpload Kind = "upload"
	KindReport Kind = "report"
)

// Meta 写入时由调用方提供的元数据.
type Meta struct {
	Filename    string
	ContentType string
	Kind        Kind
	// Checksum 内容的 xxhash64 十六进制摘要，可为空.
	Checksum string
}

// Info 已存储对象的描述信息.
type Info struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Kind        Kind      `json:"kind,omitempty"`
	Checksum    string    `json:"checksum,omitempty"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Object 一个可读取的对象，调用方负责 Close.
type Object struct {
	io.ReadCloser
	Info Info
}

// Store 二进制对象存储接口.
type Store interface {
	// Put 写入 r 中的 size 字节（size<0 表示未知长度）并返回新对象信息.
	Put(ctx context.Context, r io.Reader, size int64, meta Meta) (Info, error)
	// Get 打开对象用于流式读取.
	Get(ctx context.Context, id string) (*Object, error)
	// Stat 返回对象信息而不读取内容.
	Stat(ctx context.Context, id string) (Info, error)
	// Delete 删除对象，对象不存在时返回 ErrNotFound.
	Delete(ctx context.Context, id string) error
	// List 遍历所有对象，fn 返回错误时停止遍历.
	List(ctx context.Context, fn func(Info) error) error
	// Ping 检查后端可用性.
	Ping(ctx context.Context) error
	// Close 释放连接.
	Close() error
}

// Factory 根据配置创建 Store.
type Factory func(ctx context.Context, cfg *configs.BlobConfig) (Store, error)

var factories = map[configs.BlobType]Factory{}

// RegisterFactory 注册指定后端类型的工厂.
func RegisterFactory(t configs.BlobType, f Factory) {
	factories[t] = f
}

// Types 返回已注册的后端类型列表（有序）.
func Types() []configs.BlobType {
	types := make([]configs.BlobType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// New 根据配置创建对应后端的 Store.
func New(ctx context.Context, cfg *configs.BlobConfig) (Store, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported blob type: %s", cfg.Type)
	}

	return factory(ctx, cfg)
}

// ReadAll 读取整个对象内容.
func ReadAll(ctx context.Context, s Store, id string) ([]byte, Info, error) {
	obj, err := s.Get(ctx, id)
	if err != nil {
		return nil, Info{}, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, Info{}, fmt.Errorf("read blob %s: %w", id, err)
	}

	return data, obj.Info, nil
}
