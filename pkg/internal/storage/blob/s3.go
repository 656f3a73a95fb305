package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/internal/ids"
	nlog "github.com/yeisme/hazopvault/pkg/log"
)

const (
	metaFilename = "filename"
	metaKind     = "kind"
	metaChecksum = "checksum"
)

func init() {
	RegisterFactory(configs.BlobTypeS3, func(ctx context.Context, cfg *configs.BlobConfig) (Store, error) {
		return NewS3Store(ctx, &cfg.S3)
	})
}

// S3Store 基于 MinIO/S3 的实现，对象键为 prefix + ULID.
type S3Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewS3Store 初始化 MinIO 客户端，若 bucket 不存在则尝试创建.
func NewS3Store(ctx context.Context, cfg *configs.S3Config) (*S3Store, error) {
	endpoint := cfg.Endpoint
	secure := cfg.UseSSL
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		secure = secure || u.Scheme == "https"
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo(configs.AppName, configs.AppVersion)

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", cfg.BucketName).Msg("bucket created")
	}

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("s3 connected")

	return &S3Store{client: cli, bucket: cfg.BucketName, prefix: cfg.Prefix}, nil
}

func (s *S3Store) key(id string) string { return s.prefix + id }

func (s *S3Store) Put(ctx context.Context, r io.Reader, size int64, meta Meta) (Info, error) {
	id := ids.New()

	up, err := s.client.PutObject(ctx, s.bucket, s.key(id), r, size, minio.PutObjectOptions{
		ContentType: meta.ContentType,
		UserMetadata: map[string]string{
			metaFilename: url.QueryEscape(meta.Filename),
			metaKind:     string(meta.Kind),
			metaChecksum: meta.Checksum,
		},
	})
	if err != nil {
		return Info{}, fmt.Errorf("put object: %w", err)
	}

	createdAt := up.LastModified
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return Info{
		ID:          id,
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
		Kind:        meta.Kind,
		Checksum:    meta.Checksum,
		Size:        up.Size,
		CreatedAt:   createdAt.UTC(),
	}, nil
}

func (s *S3Store) Get(ctx context.Context, id string) (*Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrap(err, id)
	}

	// GetObject 是惰性的，Stat 才会真正访问服务端
	st, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, s.wrap(err, id)
	}

	return &Object{ReadCloser: obj, Info: s.info(id, st)}, nil
}

func (s *S3Store) Stat(ctx context.Context, id string) (Info, error) {
	st, err := s.client.StatObject(ctx, s.bucket, s.key(id), minio.StatObjectOptions{})
	if err != nil {
		return Info{}, s.wrap(err, id)
	}

	return s.info(id, st), nil
}

// Delete 先 Stat 再删除，因为 RemoveObject 对不存在的键也返回成功.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	if _, err := s.Stat(ctx, id); err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, s.key(id), minio.RemoveObjectOptions{}); err != nil {
		return s.wrap(err, id)
	}

	return nil
}

func (s *S3Store) List(ctx context.Context, fn func(Info) error) error {
	ch := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix, Recursive: true})

	for obj := range ch {
		if obj.Err != nil {
			return fmt.Errorf("list objects: %w", obj.Err)
		}

		id := strings.TrimPrefix(obj.Key, s.prefix)
		if !ids.Valid(id) {
			continue
		}

		// ListObjects 不返回用户元数据
		info, err := s.Stat(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}

		if err != nil {
			return err
		}

		if err := fn(info); err != nil {
			return err
		}
	}

	return nil
}

func (s *S3Store) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}

	return nil
}

func (s *S3Store) Close() error { return nil }

func (s *S3Store) info(id string, st minio.ObjectInfo) Info {
	name := userMeta(st.UserMetadata, metaFilename)
	if decoded, err := url.QueryUnescape(name); err == nil {
		name = decoded
	}

	return Info{
		ID:          id,
		Filename:    name,
		ContentType: st.ContentType,
		Kind:        Kind(userMeta(st.UserMetadata, metaKind)),
		Checksum:    userMeta(st.UserMetadata, metaChecksum),
		Size:        st.Size,
		CreatedAt:   st.LastModified.UTC(),
	}
}

func (s *S3Store) wrap(err error, id string) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	return fmt.Errorf("s3 object %s: %w", id, err)
}

// userMeta 大小写无关地读取用户元数据，服务端返回的键会被规范化.
func userMeta(m map[string]string, key string) string {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}

	return ""
}
