package service_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/internal/ids"
	"github.com/yeisme/hazopvault/pkg/internal/service"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
)

func TestUploadScalesDownOversizedImage(t *testing.T) {
	env := newTestEnv(t)

	svc, err := service.NewUploadService(env.ctx)
	require.NoError(t, err)

	res, err := svc.Upload(env.ctx, "plant.png", "application/octet-stream", bytes.NewReader(pngBytes(t, 400, 300)))
	require.NoError(t, err)

	assert.True(t, res.Image.Resized)
	assert.Equal(t, "image/png", res.File.ContentType)
	assert.Equal(t, blob.KindUpload, res.File.Kind)
	assert.Len(t, res.File.Checksum, 16)

	obj, err := svc.Open(env.ctx, res.File.ID)
	require.NoError(t, err)
	defer obj.Close()

	cfg, format, err := image.DecodeConfig(obj)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 75, cfg.Height)
}

func TestUploadKeepsSmallImageBytes(t *testing.T) {
	env := newTestEnv(t)

	svc, err := service.NewUploadService(env.ctx)
	require.NoError(t, err)

	raw := pngBytes(t, 40, 30)

	res, err := svc.Upload(env.ctx, "small.png", "image/png", bytes.NewReader(raw))
	require.NoError(t, err)
	assert.False(t, res.Image.Resized)

	data, info, err := blob.ReadAll(env.ctx, env.store, res.File.ID)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, "small.png", info.Filename)
}

func TestUploadErrors(t *testing.T) {
	env := newTestEnv(t, func(c *configs.AppConfig) { c.Image.MaxUploadBytes = 1024 })

	svc, err := service.NewUploadService(env.ctx)
	require.NoError(t, err)

	tests := []struct {
		name     string
		filename string
		body     io.Reader
		kind     error
		msg      string
	}{
		{"missing file", "", strings.NewReader("x"), service.ErrValidation, "No file uploaded"},
		{"empty body", "a.png", strings.NewReader(""), service.ErrValidation, "No file uploaded"},
		{"too large", "a.png", bytes.NewReader(make([]byte, 2048)), service.ErrValidation, "File too large"},
		{"not an image", "a.png", strings.NewReader("definitely not pixels"), service.ErrUnsupportedFormat, "Unsupported image format"},
		{"pixel count over limit", "plan.png", bytes.NewReader(hugePNGHeader(20000, 20000)), service.ErrValidation, "Image dimensions too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(env.ctx, tt.filename, "image/png", tt.body)
			require.ErrorIs(t, err, tt.kind)

			msg, ok := service.Message(err)
			require.True(t, ok)
			assert.Equal(t, tt.msg, msg)
		})
	}

	assert.Equal(t, 0, env.store.Len())
}

func TestOpenErrors(t *testing.T) {
	env := newTestEnv(t)

	svc, err := service.NewUploadService(env.ctx)
	require.NoError(t, err)

	_, err = svc.Open(env.ctx, "not-a-ulid")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Open(env.ctx, ids.New())
	assert.ErrorIs(t, err, service.ErrNotFound)

	msg, _ := service.Message(err)
	assert.Equal(t, "File not found", msg)
}

func TestServiceRequiresStorage(t *testing.T) {
	_, err := service.NewUploadService(context.Background())
	assert.ErrorIs(t, err, service.ErrStore)

	_, err = service.NewReportService(context.Background())
	assert.ErrorIs(t, err, service.ErrStore)
}

// hugePNGHeader 只包含 IHDR 的 PNG，尺寸声明远大于实际数据.
func hugePNGHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8], ihdr[9] = 8, 6

	chunk := append([]byte("IHDR"), ihdr...)

	out := []byte("\x89PNG\r\n\x1a\n")
	out = binary.BigEndian.AppendUint32(out, uint32(len(ihdr)))
	out = append(out, chunk...)

	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(chunk))
}
