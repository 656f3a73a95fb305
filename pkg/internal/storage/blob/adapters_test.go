package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

func TestS3WrapNotFound(t *testing.T) {
	s := &S3Store{}

	tests := []struct {
		name     string
		err      error
		notFound bool
	}{
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, true},
		{"bare 404", minio.ErrorResponse{StatusCode: http.StatusNotFound}, true},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, false},
		{"transport", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.wrap(tt.err, "01HZX3Q9V8K7M6N5P4R3S2T1W0")
			if tt.notFound {
				assert.Same(t, ErrNotFound, err)
				return
			}

			assert.NotErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), "01HZX3Q9V8K7M6N5P4R3S2T1W0")
		})
	}
}

func TestS3InfoFromObject(t *testing.T) {
	modified := time.Date(2026, 3, 1, 8, 30, 0, 0, time.FixedZone("CST", 8*3600))

	// minio 返回的用户元数据已去掉 x-amz-meta- 前缀，键名大小写由服务端决定
	info := (&S3Store{}).info("id-1", minio.ObjectInfo{
		Size:         42,
		ContentType:  "application/pdf",
		LastModified: modified,
		UserMetadata: minio.StringMap{
			"Filename": "hazop-report%20A%26B.pdf",
			"Kind":     "report",
			"CHECKSUM": "00ff",
		},
	})

	assert.Equal(t, Info{
		ID:          "id-1",
		Filename:    "hazop-report A&B.pdf",
		ContentType: "application/pdf",
		Kind:        KindReport,
		Checksum:    "00ff",
		Size:        42,
		CreatedAt:   modified.UTC(),
	}, info)

	bare := (&S3Store{}).info("id-2", minio.ObjectInfo{})
	assert.Empty(t, bare.Filename)
	assert.Empty(t, bare.Kind)
}

func TestUserMetaIgnoresCase(t *testing.T) {
	m := map[string]string{"Kind": "upload"}

	assert.Equal(t, "upload", userMeta(m, "kind"))
	assert.Equal(t, "upload", userMeta(m, "KIND"))
	assert.Equal(t, "", userMeta(m, "checksum"))
	assert.Equal(t, "", userMeta(nil, "kind"))
}

func TestRawString(t *testing.T) {
	doc, err := bson.Marshal(bson.D{
		{Key: "contentType", Value: "image/png"},
		{Key: "kind", Value: 7},
		{Key: "checksum", Value: nil},
	})
	require.NoError(t, err)

	assert.Equal(t, "image/png", rawString(doc, "contentType"))
	assert.Equal(t, "", rawString(doc, "kind"), "non-string values read as empty")
	assert.Equal(t, "", rawString(doc, "checksum"))
	assert.Equal(t, "", rawString(doc, "missing"))
}

func TestGridFSFileInfo(t *testing.T) {
	meta, err := bson.Marshal(bson.D{
		{Key: "contentType", Value: "application/pdf"},
		{Key: "kind", Value: "report"},
		{Key: "checksum", Value: "abcd"},
	})
	require.NoError(t, err)

	uploaded := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	info := fileInfo(&gridfs.File{
		ID:         "01HZX3Q9V8K7M6N5P4R3S2T1W0",
		Name:       "hazop-report-x.pdf",
		Length:     1024,
		UploadDate: uploaded,
		Metadata:   meta,
	})

	assert.Equal(t, Info{
		ID:          "01HZX3Q9V8K7M6N5P4R3S2T1W0",
		Filename:    "hazop-report-x.pdf",
		ContentType: "application/pdf",
		Kind:        KindReport,
		Checksum:    "abcd",
		Size:        1024,
		CreatedAt:   uploaded,
	}, info)

	bare := fileInfo(&gridfs.File{ID: "x", Name: "legacy.png"})
	assert.Empty(t, bare.ContentType)
	assert.Empty(t, bare.Kind)
}

func TestCountingReaderStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cr := &countingReader{ctx: ctx, r: bytes.NewReader(make([]byte, 64))}

	buf := make([]byte, 16)
	n, err := cr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	cancel()

	_, err = cr.Read(buf)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(16), cr.n)

	_, err = io.Copy(io.Discard, cr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGridFSPutRejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// bucket 为 nil：若未提前返回会直接 panic
	_, err := (&GridFSStore{}).Put(ctx, bytes.NewReader([]byte("%PDF")), 4, Meta{Filename: "r.pdf"})
	assert.ErrorIs(t, err, context.Canceled)
}
