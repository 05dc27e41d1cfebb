package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/walletscope/walletscope/internal/logging"
	sc "github.com/walletscope/walletscope/internal/server/config"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newSvcWithMock(t *testing.T) (*Service, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	cfg := &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "walletscope",
	}
	return NewService(db, cfg, testLogger()), mock, db
}

func stubPresign(t *testing.T, url string, presignErr error) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPresign := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPresign
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return nil
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return nil
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: url}, nil
	}
}

func expectSnapshotQueries(mock sqlmock.Sqlmock) {
	created := time.Now()
	mock.ExpectQuery(`(?s)^SELECT\s+user_id,\s*salt,\s*verification_token\s+FROM\s+diary_meta`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "salt", "verification_token"}).
			AddRow("u-1", []byte("salt"), []byte("token")))
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*user_id,\s*scope`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "scope", "type", "tags", "ciphertext", "nonce", "created_at", "edited_at"}).
			AddRow("n-1", "u-1", "global", "note", []byte(`["tag"]`), []byte{1, 2}, []byte{3, 4}, created, nil))
}

func TestRunOnce_UploadsSnapshot(t *testing.T) {
	svc, mock, db := newSvcWithMock(t)
	defer db.Close()

	expectSnapshotQueries(mock)
	stubPresign(t, "http://storage.example/put", nil)

	var uploadedURL string
	var uploadedPayload []byte
	origUpload := uploadToPresignedURL
	t.Cleanup(func() { uploadToPresignedURL = origUpload })
	uploadToPresignedURL = func(url string, payload []byte) error {
		uploadedURL = url
		uploadedPayload = payload
		return nil
	}

	require.NoError(t, svc.RunOnce(context.Background()))
	require.Equal(t, "http://storage.example/put", uploadedURL)

	var snap snapshot
	require.NoError(t, json.Unmarshal(uploadedPayload, &snap))
	require.Len(t, snap.Meta, 1)
	require.Len(t, snap.Notes, 1)
	require.Equal(t, []byte{1, 2}, snap.Notes[0].Ciphertext)
}

func TestRunOnce_PresignError(t *testing.T) {
	svc, mock, db := newSvcWithMock(t)
	defer db.Close()

	expectSnapshotQueries(mock)
	stubPresign(t, "", errors.New("presign down"))

	err := svc.RunOnce(context.Background())
	require.ErrorContains(t, err, "presign down")
}

func TestRunOnce_DBError(t *testing.T) {
	svc, mock, db := newSvcWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+user_id`).WillReturnError(errors.New("db down"))

	err := svc.RunOnce(context.Background())
	require.ErrorContains(t, err, "db down")
}
