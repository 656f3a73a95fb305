// Package imageproc 将上传的栅格图像规范化到最大边长以内.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // 注册解码器
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

var (
	// ErrUnsupportedFormat 无法解码为图像.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooManyPixels 头部声明的像素数超过上限，不会进行解码.
	ErrTooManyPixels = errors.New("image has too many pixels")
)

const (
	// DefaultJPEGQuality 重新编码 JPEG 时使用的质量.
	DefaultJPEGQuality = 90
	// DefaultMaxPixels 解码前允许的最大像素数（宽 × 高）.
	DefaultMaxPixels int64 = 40_000_000
)

// Info 规范化结果的描述.
type Info struct {
	Format      string // png, jpeg, gif, bmp, tiff
	ContentType string
	Width       int
	Height      int
	OrigWidth   int
	OrigHeight  int
	Resized     bool
}

// Options 可选的编码参数.
type Options struct {
	JPEGQuality int
	// MaxPixels 为 0 时使用 DefaultMaxPixels.
	MaxPixels int64
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
}

var formats = map[string]imaging.Format{
	"png":  imaging.PNG,
	"jpeg": imaging.JPEG,
	"gif":  imaging.GIF,
	"bmp":  imaging.BMP,
	"tiff": imaging.TIFF,
}

// Normalize 等比缩小 raw，使宽高均不超过 maxDim，从不放大.
// 已在范围内的图像原样返回，超出的图像以原格式重新编码.
// 解码位图前先按头部尺寸检查像素数，超过上限返回 ErrTooManyPixels.
func Normalize(raw []byte, maxDim int, opts ...Options) ([]byte, Info, error) {
	if maxDim <= 0 {
		return nil, Info{}, fmt.Errorf("invalid max dimension %d", maxDim)
	}

	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}

	if o.JPEGQuality <= 0 {
		o.JPEGQuality = DefaultJPEGQuality
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	imgFormat, ok := formats[format]
	if !ok {
		return nil, Info{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	info := Info{
		Format:      format,
		ContentType: contentTypes[format],
		Width:       cfg.Width,
		Height:      cfg.Height,
		OrigWidth:   cfg.Width,
		OrigHeight:  cfg.Height,
	}

	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > o.MaxPixels {
		return nil, Info{}, fmt.Errorf("%w: %dx%d exceeds %d", ErrTooManyPixels, cfg.Width, cfg.Height, o.MaxPixels)
	}

	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return raw, info, nil
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(false))
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imgFormat, imaging.JPEGQuality(o.JPEGQuality)); err != nil {
		return nil, Info{}, fmt.Errorf("encode %s: %w", format, err)
	}

	b := resized.Bounds()
	info.Width, info.Height, info.Resized = b.Dx(), b.Dy(), true

	return buf.Bytes(), info, nil
}
