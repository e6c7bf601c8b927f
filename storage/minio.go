package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"SetRadar/config"
	"SetRadar/logger"
)

var minioClient *minio.Client

// InitMinio initializes the MinIO client and ensures the report bucket exists.
func InitMinio(cfg *config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check report bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return fmt.Errorf("failed to create report bucket: %w", err)
		}
		logger.Info("created report bucket", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	return nil
}

// ArchiveReport uploads one JSON report under reports/<runID>.json and returns
// the object name.
func ArchiveReport(ctx context.Context, cfg *config.Config, runID string, report []byte) (string, error) {
	if minioClient == nil {
		return "", fmt.Errorf("MinIO client not initialized")
	}

	objectName := fmt.Sprintf("reports/%s.json", runID)
	_, err := minioClient.PutObject(ctx, cfg.MinioBucket, objectName,
		bytes.NewReader(report), int64(len(report)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to archive report %s: %w", objectName, err)
	}

	logger.Info("archived report",
		logger.String("bucket", cfg.MinioBucket),
		logger.String("object", objectName),
		logger.Int("bytes", len(report)))
	return objectName, nil
}
