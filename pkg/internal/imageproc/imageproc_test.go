package imageproc_test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/internal/imageproc"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, h/2, color.NRGBA{R: 200, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil))

	return buf.Bytes()
}

// pngHeader 只有签名和 IHDR 的 PNG，声明 w×h 的 RGBA 图像但没有像素数据.
func pngHeader(w, h uint32) []byte {
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

func decodedSize(t *testing.T, data []byte) (int, int, string) {
	t.Helper()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)

	return cfg.Width, cfg.Height, format
}

func TestNormalizeWithinBoundsPassesThrough(t *testing.T) {
	raw := encodePNG(t, 120, 80)

	out, info, err := imageproc.Normalize(raw, 200)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
	assert.False(t, info.Resized)
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, 120, info.Width)
}

func TestNormalizeScalesDown(t *testing.T) {
	tests := []struct {
		name          string
		raw           []byte
		maxDim        int
		wantW, wantH  int
		wantFormat    string
		wantMediaType string
	}{
		{"landscape png", encodePNG(t, 400, 300), 200, 200, 150, "png", "image/png"},
		{"portrait jpeg", encodeJPEG(t, 300, 600), 200, 100, 200, "jpeg", "image/jpeg"},
		{"only height over", encodePNG(t, 150, 450), 300, 100, 300, "png", "image/png"},
		{"square", encodePNG(t, 500, 500), 250, 250, 250, "png", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, info, err := imageproc.Normalize(tt.raw, tt.maxDim)
			require.NoError(t, err)

			w, h, format := decodedSize(t, out)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
			assert.Equal(t, tt.wantFormat, format)
			assert.Equal(t, tt.wantMediaType, info.ContentType)
			assert.True(t, info.Resized)
			assert.Equal(t, w, info.Width)
			assert.Equal(t, h, info.Height)
		})
	}
}

func TestNormalizePreservesAspectRatio(t *testing.T) {
	for _, dims := range [][2]int{{1000, 333}, {333, 1000}, {999, 998}, {640, 480}} {
		raw := encodePNG(t, dims[0], dims[1])

		out, _, err := imageproc.Normalize(raw, 256)
		require.NoError(t, err)

		w, h, _ := decodedSize(t, out)
		assert.LessOrEqual(t, w, 256)
		assert.LessOrEqual(t, h, 256)

		want := float64(dims[0]) / float64(dims[1])
		got := float64(w) / float64(h)
		// 取整误差最多一个像素
		tolerance := want/float64(h) + 1/float64(h)
		assert.LessOrEqual(t, math.Abs(want-got), tolerance, "dims %v -> %dx%d", dims, w, h)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, _, err := imageproc.Normalize([]byte("definitely not an image"), 2000)
	assert.ErrorIs(t, err, imageproc.ErrUnsupportedFormat)

	_, _, err = imageproc.Normalize(nil, 2000)
	assert.ErrorIs(t, err, imageproc.ErrUnsupportedFormat)
}

func TestNormalizeRejectsInvalidBound(t *testing.T) {
	_, _, err := imageproc.Normalize(encodePNG(t, 10, 10), 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, imageproc.ErrUnsupportedFormat)
}

func TestNormalizeRejectsOversizedHeader(t *testing.T) {
	raw := pngHeader(20000, 20000)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 20000, cfg.Width)

	_, _, err = imageproc.Normalize(raw, 2000)
	require.ErrorIs(t, err, imageproc.ErrTooManyPixels)
	assert.NotErrorIs(t, err, imageproc.ErrUnsupportedFormat)

	_, _, err = imageproc.Normalize(encodePNG(t, 300, 200), 100, imageproc.Options{MaxPixels: 300*200 - 1})
	assert.ErrorIs(t, err, imageproc.ErrTooManyPixels)

	out, info, err := imageproc.Normalize(encodePNG(t, 300, 200), 100, imageproc.Options{MaxPixels: 300 * 200})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.True(t, info.Resized)
}
