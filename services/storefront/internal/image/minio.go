package image

import (
	"context"
	"fmt"
	"io"
	"strings"

	minioSDK "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minioSDK.PutObjectOptions) (minioSDK.UploadInfo, error)
}

// Minio uploads images to a MinIO bucket
type Minio struct {
	Client        minioAPI
	Bucket        string
	PublicBaseURL string
}

type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// NewMinio connects to MinIO and creates the bucket when it is missing
func NewMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	client, err := minioSDK.New(cfg.Endpoint, &minioSDK.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minioSDK.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}

	return &Minio{Client: client, Bucket: cfg.Bucket, PublicBaseURL: base}, nil
}

func (m *Minio) Put(ctx context.Context, r io.Reader, in PutInput) (string, error) {
	_, err := m.Client.PutObject(ctx, m.Bucket, in.Key, r, in.Size, minioSDK.PutObjectOptions{
		ContentType: in.ContentType,
	})
	if err != nil {
		return "", err
	}
	return m.PublicBaseURL + "/" + m.Bucket + "/" + in.Key, nil
}
