// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client with the minimal interface the report mirror
// needs: verify or create the target bucket and upload the generated CSV
// reports. The abstraction supports both AWS S3 and self-hosted MinIO.
//
// # Client Interface
//
// The Client interface keeps the underlying provider mockable for unit
// testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "exports")
package storage
