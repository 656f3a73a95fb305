package configs

import (
	"github.com/spf13/viper"
)

// BlobType 二进制对象存储后端类型.
type BlobType string

const (
	BlobTypeS3     BlobType = "s3"     // MinIO / S3 兼容存储
	BlobTypeGridFS BlobType = "gridfs" // MongoDB GridFS
	BlobTypeMemory BlobType = "memory" // 进程内存储，仅用于开发与测试
)

const (
	DefaultS3Endpoint        = "localhost:9000" // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"     // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"     // 默认秘密访问密钥
	DefaultS3UseSSL          = false            // 默认是否使用SSL
	DefaultS3BucketName      = "uploads"        // 默认存储桶名称
	DefaultS3Region          = "us-east-1"      // 默认区域

	DefaultGridFSURI        = "mongodb://localhost:27017" // 默认 MongoDB 连接串
	DefaultGridFSDatabase   = "pid-hazop"                 // 默认数据库
	DefaultGridFSBucket     = "uploads"                   // 默认 GridFS bucket 名称
	DefaultGridFSChunkBytes = 255 * 1024                  // GridFS 默认分块大小
)

// BlobConfig 二进制对象存储配置.
type BlobConfig struct {
	Type   BlobType     `mapstructure:"type"   rule:"oneof=s3 gridfs memory"`
	S3     S3Config     `mapstructure:"s3"`
	GridFS GridFSConfig `mapstructure:"gridfs"`
}

// S3Config MinIO S3存储配置.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"       rule:"required"`
	Region          string `mapstructure:"region"`
	// Prefix 对象键前缀，例如 "hazop/"，为空表示直接放在 bucket 根下.
	Prefix string `mapstructure:"prefix"`
}

// GridFSConfig MongoDB GridFS 配置.
type GridFSConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"    rule:"required"`
	Bucket     string `mapstructure:"bucket"      rule:"required"`
	ChunkBytes int32  `mapstructure:"chunk_bytes" rule:"min=1024"`
}

// setDefaults 设置 Blob 配置的默认值.
func (c *BlobConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("blob.type", BlobTypeS3)

	v.SetDefault("blob.s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("blob.s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("blob.s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("blob.s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("blob.s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("blob.s3.region", DefaultS3Region)
	v.SetDefault("blob.s3.prefix", "")

	v.SetDefault("blob.gridfs.uri", DefaultGridFSURI)
	v.SetDefault("blob.gridfs.database", DefaultGridFSDatabase)
	v.SetDefault("blob.gridfs.bucket", DefaultGridFSBucket)
	v.SetDefault("blob.gridfs.chunk_bytes", DefaultGridFSChunkBytes)
}
