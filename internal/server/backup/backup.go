// Package backup pushes periodic snapshots of the diary tables to
// S3-compatible object storage. Snapshots contain only what the database
// already holds: ciphertext, nonces, and headers. Nothing is decrypted —
// the server has no key to decrypt with.
package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/walletscope/walletscope/internal/logging"
	"github.com/walletscope/walletscope/internal/netx"
	sc "github.com/walletscope/walletscope/internal/server/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	uploadToPresignedURL = netx.UploadToS3PresignedURL
)

// Service exports encrypted diary rows to object storage on a timer.
type Service struct {
	db     *sql.DB
	config *sc.Config
	logger logging.Logger
}

func NewService(db *sql.DB, config *sc.Config, logger logging.Logger) *Service {
	return &Service{db: db, config: config, logger: logger.With("component", "backup")}
}

// snapshot is the on-disk layout of one backup object.
type snapshot struct {
	TakenAt time.Time `json:"taken_at"`
	Meta    []metaRow `json:"meta"`
	Notes   []noteRow `json:"notes"`
}

type metaRow struct {
	UserID            string `json:"user_id"`
	Salt              []byte `json:"salt"`
	VerificationToken []byte `json:"verification_token"`
}

type noteRow struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Scope      string     `json:"scope"`
	Type       string     `json:"type"`
	Tags       []byte     `json:"tags,omitempty"`
	Ciphertext []byte     `json:"ciphertext"`
	Nonce      []byte     `json:"nonce"`
	CreatedAt  time.Time  `json:"created_at"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
}

func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("backups/%d/%02d/%02d/%v.json", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Service) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *Service) collect(ctx context.Context) (*snapshot, error) {
	snap := &snapshot{TakenAt: time.Now().UTC()}

	rows, err := s.db.QueryContext(ctx, `SELECT user_id, salt, verification_token FROM diary_meta`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m metaRow
		if err := rows.Scan(&m.UserID, &m.Salt, &m.VerificationToken); err != nil {
			return nil, err
		}
		snap.Meta = append(snap.Meta, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	noteRows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, scope, type, tags, ciphertext, nonce, created_at, edited_at FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer noteRows.Close()
	for noteRows.Next() {
		var n noteRow
		if err := noteRows.Scan(&n.ID, &n.UserID, &n.Scope, &n.Type, &n.Tags,
			&n.Ciphertext, &n.Nonce, &n.CreatedAt, &n.EditedAt); err != nil {
			return nil, err
		}
		snap.Notes = append(snap.Notes, n)
	}
	return snap, noteRows.Err()
}

// RunOnce takes one snapshot and uploads it via a presigned PUT.
func (s *Service) RunOnce(ctx context.Context) error {
	snap, err := s.collect(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	pc, err := s.getPresignClient()
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket
	key := storageKey()

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return err
	}

	if err := uploadToPresignedURL(req.URL, payload); err != nil {
		return err
	}

	s.logger.Info(ctx, "snapshot uploaded", "key", key, "notes", len(snap.Notes))
	return nil
}

// Run uploads snapshots every interval until the context is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error(ctx, "snapshot failed", "error", err.Error())
			}
		case <-ctx.Done():
			return
		}
	}
}
