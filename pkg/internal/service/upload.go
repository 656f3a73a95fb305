package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/hazopvault/pkg/internal/ids"
	"github.com/yeisme/hazopvault/pkg/internal/imageproc"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
	"github.com/yeisme/hazopvault/pkg/metrics"
	"github.com/yeisme/hazopvault/pkg/queue"
	"github.com/yeisme/hazopvault/pkg/tracing"
)

// UploadService 处理图像上传与读取.
type UploadService struct {
	deps
}

// UploadResult 上传后的对象信息与规范化结果.
type UploadResult struct {
	File  blob.Info
	Image imageproc.Info
}

// NewUploadService 从上下文中的存储句柄创建服务.
func NewUploadService(ctx context.Context) (*UploadService, error) {
	d, err := depsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return &UploadService{deps: d}, nil
}

// Upload 读取图像，缩放到配置的最大尺寸以内后写入对象存储.
func (s *UploadService) Upload(ctx context.Context, filename, contentType string, r io.Reader) (res *UploadResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "upload.store", trace.WithAttributes(attribute.String("filename", filename)))
	defer func() {
		tracing.EndSpan(span, err)
		metrics.PipelineOps.WithLabelValues("upload", metrics.Result(err)).Inc()
	}()

	if filename == "" || r == nil {
		return nil, invalid("No file uploaded")
	}

	limit := s.cfg.Image.MaxUploadBytes

	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", ErrValidation, err)
	}

	if int64(len(raw)) > limit {
		return nil, invalid("File too large")
	}

	if len(raw) == 0 {
		return nil, invalid("No file uploaded")
	}

	data, img, err := imageproc.Normalize(raw, s.cfg.Image.MaxDimension, imageproc.Options{
		JPEGQuality: s.cfg.Image.JPEGQuality,
		MaxPixels:   s.cfg.Image.MaxPixels,
	})
	if err != nil {
		if errors.Is(err, imageproc.ErrUnsupportedFormat) {
			return nil, &clientError{kind: ErrUnsupportedFormat, msg: "Unsupported image format"}
		}

		if errors.Is(err, imageproc.ErrTooManyPixels) {
			return nil, invalid("Image dimensions too large")
		}

		return nil, fmt.Errorf("normalize %s: %w", filename, err)
	}

	if img.Resized {
		metrics.ImagesResized.Inc()
	}

	// 客户端未给出图像类型时按解码结果推断
	if !strings.HasPrefix(contentType, "image/") {
		contentType = img.ContentType
	}

	info, err := s.blob.Put(ctx, bytes.NewReader(data), int64(len(data)), blob.Meta{
		Filename:    filename,
		ContentType: contentType,
		Kind:        blob.KindUpload,
		Checksum:    checksum(data),
	})
	if err != nil {
		return nil, storeErr("put upload", err)
	}

	s.events.fileUploaded(ctx, queue.FileUploadedPayload{
		File:    blobRef(info),
		Width:   img.Width,
		Height:  img.Height,
		Resized: img.Resized,
	})

	return &UploadResult{File: info, Image: img}, nil
}

// Open 打开已存储的对象，调用方负责关闭.
func (s *UploadService) Open(ctx context.Context, fileID string) (*blob.Object, error) {
	if !ids.Valid(fileID) {
		return nil, invalid("Invalid file ID")
	}

	obj, err := s.blob.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, notFound("File not found")
		}

		return nil, storeErr("get file", err)
	}

	return obj, nil
}
