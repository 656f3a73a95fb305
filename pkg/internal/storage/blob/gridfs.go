package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/internal/ids"
	nlog "github.com/yeisme/hazopvault/pkg/log"
)

const gridfsConnectTimeout = 10 * time.Second

func init() {
	RegisterFactory(configs.BlobTypeGridFS, func(ctx context.Context, cfg *configs.BlobConfig) (Store, error) {
		return NewGridFSStore(ctx, &cfg.GridFS)
	})
}

// GridFSStore 基于 MongoDB GridFS 的实现，文件 _id 即 ULID 字符串.
type GridFSStore struct {
	client *mongo.Client
	bucket *gridfs.Bucket
}

// NewGridFSStore 连接 MongoDB 并打开 GridFS bucket.
func NewGridFSStore(ctx context.Context, cfg *configs.GridFSConfig) (*GridFSStore, error) {
	connCtx, cancel := context.WithTimeout(ctx, gridfsConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(cfg.URI).SetAppName(configs.AppName))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(connCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	bucketOpts := options.GridFSBucket().SetName(cfg.Bucket)
	if cfg.ChunkBytes > 0 {
		bucketOpts.SetChunkSizeBytes(cfg.ChunkBytes)
	}

	bucket, err := gridfs.NewBucket(client.Database(cfg.Database), bucketOpts)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("open gridfs bucket %s: %w", cfg.Bucket, err)
	}

	nlog.Logger().Info().Str("database", cfg.Database).Str("bucket", cfg.Bucket).Msg("gridfs connected")

	return &GridFSStore{client: client, bucket: bucket}, nil
}

// Put 以流的方式写入.
// ctx 取消后下一次读取即返回错误，驱动随之中止上传并删除已写入的分块.
func (g *GridFSStore) Put(ctx context.Context, r io.Reader, _ int64, meta Meta) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	id := ids.New()
	cr := &countingReader{ctx: ctx, r: r}

	opts := options.GridFSUpload().SetMetadata(bson.D{
		{Key: "contentType", Value: meta.ContentType},
		{Key: "kind", Value: string(meta.Kind)},
		{Key: "checksum", Value: meta.Checksum},
	})

	// 上传失败时驱动会清理已写入的分块，文件文档只在最后写入
	if err := g.bucket.UploadFromStreamWithID(id, meta.Filename, cr, opts); err != nil {
		return Info{}, fmt.Errorf("gridfs upload %s: %w", id, err)
	}

	return Info{
		ID:          id,
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
		Kind:        meta.Kind,
		Checksum:    meta.Checksum,
		Size:        cr.n,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (g *GridFSStore) Get(_ context.Context, id string) (*Object, error) {
	ds, err := g.bucket.OpenDownloadStream(id)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("gridfs open %s: %w", id, err)
	}

	return &Object{ReadCloser: ds, Info: fileInfo(ds.GetFile())}, nil
}

func (g *GridFSStore) Stat(ctx context.Context, id string) (Info, error) {
	cur, err := g.bucket.FindContext(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return Info{}, fmt.Errorf("gridfs find %s: %w", id, err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return Info{}, fmt.Errorf("gridfs find %s: %w", id, err)
		}

		return Info{}, ErrNotFound
	}

	var f gridfs.File
	if err := cur.Decode(&f); err != nil {
		return Info{}, fmt.Errorf("gridfs decode %s: %w", id, err)
	}

	return fileInfo(&f), nil
}

func (g *GridFSStore) Delete(ctx context.Context, id string) error {
	err := g.bucket.DeleteContext(ctx, id)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("gridfs delete %s: %w", id, err)
	}

	return nil
}

func (g *GridFSStore) List(ctx context.Context, fn func(Info) error) error {
	cur, err := g.bucket.FindContext(ctx, bson.D{}, options.GridFSFind().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return fmt.Errorf("gridfs list: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var f gridfs.File
		if err := cur.Decode(&f); err != nil {
			return fmt.Errorf("gridfs decode: %w", err)
		}

		info := fileInfo(&f)
		if !ids.Valid(info.ID) {
			continue
		}

		if err := fn(info); err != nil {
			return err
		}
	}

	return cur.Err()
}

func (g *GridFSStore) Ping(ctx context.Context) error {
	return g.client.Ping(ctx, readpref.Primary())
}

func (g *GridFSStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), gridfsConnectTimeout)
	defer cancel()

	return g.client.Disconnect(ctx)
}

func fileInfo(f *gridfs.File) Info {
	info := Info{
		ID:        fmt.Sprint(f.ID),
		Filename:  f.Name,
		Size:      f.Length,
		CreatedAt: f.UploadDate.UTC(),
	}

	if f.Metadata != nil {
		info.ContentType = rawString(f.Metadata, "contentType")
		info.Kind = Kind(rawString(f.Metadata, "kind"))
		info.Checksum = rawString(f.Metadata, "checksum")
	}

	return info
}

func rawString(doc bson.Raw, key string) string {
	v, err := doc.LookupErr(key)
	if err != nil {
		return ""
	}

	s, _ := v.StringValueOK()

	return s
}

// countingReader 统计读出的字节数，ctx 结束后拒绝继续读取.
type countingReader struct {
	ctx context.Context
	r   io.Reader
	n   int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	n, err := c.r.Read(p)
	c.n += int64(n)

	return n, err
}
