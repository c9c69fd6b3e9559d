package students_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"kivo-exporter/core/storage/mocks"
	"kivo-exporter/feature/students"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeReport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPublish_UploadsUnderRunPrefix(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "exports").Return(true, nil)
	client.On("PutObject", mock.Anything, "exports", "exports/run-1/students_data.csv",
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	report := writeReport(t, "students_data.csv", "file_id,char_id\n")
	p := students.NewPublisher(client, "exports", zap.NewNop())

	err := p.Publish(context.Background(), "run-1", report)
	require.NoError(t, err)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish_CreatesMissingBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "exports").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "exports", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "exports", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	report := writeReport(t, "skipped_ids.csv", "student_id\n")
	p := students.NewPublisher(client, "exports", zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), "run-2", report))
	client.AssertExpectations(t)
}

func TestPublish_BucketCheckFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "exports").Return(false, errors.New("unreachable"))

	p := students.NewPublisher(client, "exports", zap.NewNop())
	err := p.Publish(context.Background(), "run-3", "whatever.csv")
	assert.ErrorContains(t, err, "failed to check bucket existence")
}

func TestPublish_MissingFile(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "exports").Return(true, nil)

	p := students.NewPublisher(client, "exports", zap.NewNop())
	err := p.Publish(context.Background(), "run-4", filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorContains(t, err, "failed to open report")
}

func TestPublish_UploadFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "exports").Return(true, nil)
	client.On("PutObject", mock.Anything, "exports", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("denied"))

	report := writeReport(t, "students_data.csv", "file_id\n")
	p := students.NewPublisher(client, "exports", zap.NewNop())

	err := p.Publish(context.Background(), "run-5", report)
	assert.ErrorContains(t, err, "failed to upload")
}
