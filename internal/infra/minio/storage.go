package minio

import (
	"context"
	"fmt"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Storage struct {
	client      *miniogo.Client
	videoBucket string
}

type StorageConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	UseSSL      bool
	VideoBucket string
}

func NewStorage(cfg StorageConfig) (*Storage, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Storage{
		client:      client,
		videoBucket: cfg.VideoBucket,
	}, nil
}

func (s *Storage) EnsureBuckets(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.videoBucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.videoBucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.videoBucket, miniogo.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.videoBucket, err)
		}
	}
	return nil
}

func (s *Storage) DownloadVideo(ctx context.Context, objectKey string, destPath string) error {
	return s.client.FGetObject(ctx, s.videoBucket, objectKey, destPath, miniogo.GetObjectOptions{})
}
