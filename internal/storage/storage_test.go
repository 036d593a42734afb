package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudylameme/bvp-planning-sub000/internal/config"
)

func TestLocalStorage(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.UploadObject(ctx, "sessions/a.json", []byte(`{"id":"a"}`)))
	require.NoError(t, s.UploadObject(ctx, "sessions/b.json", []byte(`{"id":"b"}`)))
	require.NoError(t, s.UploadObject(ctx, "exports/a.json", []byte(`{}`)))

	data, err := s.GetObject(ctx, "sessions/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a"}`, string(data))

	objects, err := s.ListObjects(ctx, "sessions/")
	require.NoError(t, err)
	assert.Equal(t, []ObjectInfo{{Key: "sessions/a.json", Size: 10}, {Key: "sessions/b.json", Size: 10}}, objects)

	dest := filepath.Join(t.TempDir(), "out", "a.json")
	require.NoError(t, s.DownloadObject(ctx, "sessions/a.json", dest))
	_, err = os.Stat(dest)
	assert.NoError(t, err)

	require.NoError(t, s.DeleteObject(ctx, "sessions/a.json"))
	_, err = s.GetObject(ctx, "sessions/a.json")
	assert.True(t, errors.Is(err, ErrObjectNotFound))
	assert.True(t, errors.Is(s.DeleteObject(ctx, "sessions/a.json"), ErrObjectNotFound))
}

func TestLocalStorageKeysStayInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(root, "data"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.UploadObject(ctx, "../../escape.json", []byte("x")))
	_, err = os.Stat(filepath.Join(root, "data", "escape.json"))
	assert.NoError(t, err)

	assert.Error(t, s.UploadObject(ctx, "", []byte("x")))
}

func TestNewS3ClientValidation(t *testing.T) {
	_, err := NewS3Client(S3Config{})
	assert.Error(t, err)
	_, err = NewS3Client(S3Config{Endpoint: "s3.local"})
	assert.Error(t, err)
	_, err = NewS3Client(S3Config{Endpoint: "s3.local", AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)

	c, err := NewS3Client(S3Config{Endpoint: "http://127.0.0.1:9000", AccessKey: "a", SecretKey: "b", Bucket: "plans"})
	require.NoError(t, err)
	assert.Equal(t, "plans", c.bucket)
}

func TestSplitEndpoint(t *testing.T) {
	host, secure := splitEndpoint("https://s3.example.com/", false)
	assert.Equal(t, "s3.example.com", host)
	assert.True(t, secure)

	host, secure = splitEndpoint("http://minio:9000", true)
	assert.Equal(t, "minio:9000", host)
	assert.False(t, secure)

	host, secure = splitEndpoint("minio:9000", true)
	assert.Equal(t, "minio:9000", host)
	assert.True(t, secure)
}

func TestNewFromConfig(t *testing.T) {
	s, err := New(config.StorageConfig{Driver: "local"}, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(config.StorageConfig{Driver: "ftp"}, t.TempDir())
	assert.Error(t, err)
}
