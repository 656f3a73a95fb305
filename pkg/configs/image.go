package configs

import "github.com/spf13/viper"

const (
	DefaultImageMaxDimension   = 2000             // 上传图像最长边上限（像素）
	DefaultImageMaxUploadBytes = 50 * 1024 * 1024 // 单次上传最大字节数
	DefaultImageJPEGQuality    = 90               // 重新编码 JPEG 时的质量
	DefaultImageMaxPixels      = 40_000_000       // 解码前允许的最大像素数
)

// ImageConfig 上传图像规范化配置.
type ImageConfig struct {
	MaxDimension   int   `mapstructure:"max_dimension"    rule:"min=1"`
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" rule:"min=1"`
	JPEGQuality    int   `mapstructure:"jpeg_quality"     rule:"min=1,max=100"`
	MaxPixels      int64 `mapstructure:"max_pixels"       rule:"min=1"`
}

func (c *ImageConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("image.max_dimension", DefaultImageMaxDimension)
	v.SetDefault("image.max_upload_bytes", DefaultImageMaxUploadBytes)
	v.SetDefault("image.jpeg_quality", DefaultImageJPEGQuality)
	v.SetDefault("image.max_pixels", DefaultImageMaxPixels)
}
