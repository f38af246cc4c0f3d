package image

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/keamoral/ouijagames/gomicro/config"
	minioSDK "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolver_LocalCopy(t *testing.T) {
	cache := t.TempDir()
	src := writeTemp(t, "photo.PNG", "png-bytes")

	ref, err := NewResolver(NewLocal(cache), nil).Resolve(context.Background(), Selection{Path: src})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(ref))
	assert.Equal(t, cache, filepath.Dir(ref))
	assert.True(t, strings.HasPrefix(filepath.Base(ref), "temp_image_"))
	assert.Equal(t, ".png", filepath.Ext(ref))

	data, err := os.ReadFile(ref)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestResolver_MissingFile(t *testing.T) {
	_, err := NewResolver(NewLocal(t.TempDir()), nil).Resolve(context.Background(), Selection{Path: "/does/not/exist.jpg"})
	assert.Error(t, err)
}

type recordingStorage struct {
	in   PutInput
	data string
	err  error
}

func (s *recordingStorage) Put(ctx context.Context, r io.Reader, in PutInput) (string, error) {
	b, _ := io.ReadAll(r)
	s.in, s.data = in, string(b)
	if s.err != nil {
		return "", s.err
	}
	return "ref://" + in.Key, nil
}

func TestResolver_ContentTypeAndDefaultExtension(t *testing.T) {
	store := &recordingStorage{}
	r := NewResolver(store, nil)

	_, err := r.Resolve(context.Background(), Selection{Path: writeTemp(t, "noext", "abc")})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(store.in.Key, ".jpg"))
	assert.Equal(t, "image/jpeg", store.in.ContentType)
	assert.EqualValues(t, 3, store.in.Size)

	_, err = r.Resolve(context.Background(), Selection{Path: writeTemp(t, "a.bin", "x"), ContentType: "image/webp"})
	require.NoError(t, err)
	assert.Equal(t, "image/webp", store.in.ContentType)
}

func TestResolver_StorageFailure(t *testing.T) {
	store := &recordingStorage{err: errors.New("denied")}
	_, err := NewResolver(store, nil).Resolve(context.Background(), Selection{Path: writeTemp(t, "a.jpg", "x")})
	assert.ErrorContains(t, err, "denied")
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, _ := io.ReadAll(params.Body)
	f.input, f.body = params, string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3_Put(t *testing.T) {
	client := &fakeS3{}
	store := &S3{Client: client, Bucket: "ouija", Region: "sa-east-1", Prefix: "/products/"}

	ref, err := store.Put(context.Background(), strings.NewReader("img"), PutInput{Key: "k.jpg", Size: 3, ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "https://ouija.s3.sa-east-1.amazonaws.com/products/k.jpg", ref)
	assert.Equal(t, "products/k.jpg", *client.input.Key)
	assert.Equal(t, "image/jpeg", *client.input.ContentType)
	assert.Equal(t, "img", client.body)

	store.PublicBaseURL = "https://cdn.ouija.cl"
	ref, err = store.Put(context.Background(), strings.NewReader("img"), PutInput{Key: "k.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.ouija.cl/products/k.jpg", ref)
}

type fakeMinio struct {
	bucket, object string
	opts           minioSDK.PutObjectOptions
}

func (f *fakeMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minioSDK.PutObjectOptions) (minioSDK.UploadInfo, error) {
	f.bucket, f.object, f.opts = bucketName, objectName, opts
	return minioSDK.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func TestMinio_Put(t *testing.T) {
	client := &fakeMinio{}
	store := &Minio{Client: client, Bucket: "products", PublicBaseURL: "http://localhost:9000"}

	ref, err := store.Put(context.Background(), strings.NewReader("x"), PutInput{Key: "k.png", Size: 1, ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/products/k.png", ref)
	assert.Equal(t, "products", client.bucket)
	assert.Equal(t, "image/png", client.opts.ContentType)
}

func TestFromConfig(t *testing.T) {
	ctx := context.Background()

	store, err := FromConfig(ctx, config.StorageConfig{Driver: "local", CacheDir: "/tmp/cache"})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, store)

	_, err = FromConfig(ctx, config.StorageConfig{Driver: "s3"})
	assert.ErrorContains(t, err, "S3_BUCKET")

	_, err = FromConfig(ctx, config.StorageConfig{Driver: "minio"})
	assert.ErrorContains(t, err, "MINIO_ENDPOINT")

	_, err = FromConfig(ctx, config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
