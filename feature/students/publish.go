package students

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"kivo-exporter/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Publisher mirrors generated reports to an S3-compatible bucket so other
// tools can consume them without running the exporter themselves.
type Publisher struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewPublisher creates a publisher targeting the given bucket.
func NewPublisher(client storage.Client, bucket string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, bucket: bucket, logger: logger}
}

// Publish uploads each named file under exports/<runID>/. The bucket is
// created when missing.
func (p *Publisher) Publish(ctx context.Context, runID string, files ...string) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
		}
	}

	for _, name := range files {
		if err := p.upload(ctx, runID, name); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) upload(ctx context.Context, runID, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open report %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat report %s: %w", name, err)
	}

	object := path.Join("exports", runID, filepath.Base(name))
	_, err = p.client.PutObject(ctx, p.bucket, object, f, info.Size(), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}

	p.logger.Info("report published",
		zap.String("bucket", p.bucket),
		zap.String("object", object))
	return nil
}
