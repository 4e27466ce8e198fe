// Package backup uploads periodic JSON snapshots of the dormitory data to an
// S3-compatible bucket.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"dorm-backend/internal/config"
	"dorm-backend/internal/metrics"
	"dorm-backend/internal/models"
	"dorm-backend/internal/repositories"
	"dorm-backend/internal/repositories/memory"
	"dorm-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores one object
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

// S3Uploader writes objects to a bucket
type S3Uploader struct {
	client *s3.Client
	bucket string
}

// NewS3Uploader builds a client from the backup section of cfg
func NewS3Uploader(ctx context.Context, cfg *config.Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Backup.AccessKey,
			cfg.Backup.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Backup.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure backup client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Backup.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Backup.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Uploader{client: client, bucket: cfg.Backup.Bucket}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}

// Exporter snapshots a store and hands the JSON to an Uploader
type Exporter struct {
	store    repositories.Store
	uploader Uploader
	prefix   string
	now      func() time.Time
}

func NewExporter(store repositories.Store, uploader Uploader, prefix string, now func() time.Time) *Exporter {
	if now == nil {
		now = timeutil.Now
	}
	return &Exporter{store: store, uploader: uploader, prefix: prefix, now: now}
}

func deref[T any](rows []*T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

// Snapshot reads every collection in one consistent view. Password hashes are
// not part of the JSON encoding of a user and so never leave the process.
func Snapshot(ctx context.Context, store repositories.Store) (memory.Snapshot, error) {
	var snap memory.Snapshot
	err := store.View(ctx, func(tx repositories.Tx) error {
		buildings, err := tx.Buildings().List(ctx)
		if err != nil {
			return err
		}
		rooms, err := tx.Rooms().List(ctx)
		if err != nil {
			return err
		}
		students, err := tx.Students().List(ctx)
		if err != nil {
			return err
		}
		guests, err := tx.Guests().List(ctx)
		if err != nil {
			return err
		}
		assets, err := tx.Assets().List(ctx)
		if err != nil {
			return err
		}
		bills, err := tx.Bills().List(ctx)
		if err != nil {
			return err
		}
		users, err := tx.Users().List(ctx)
		if err != nil {
			return err
		}
		snap = memory.Snapshot{
			Buildings: deref[models.Building](buildings),
			Rooms:     deref[models.Room](rooms),
			Students:  deref[models.Student](students),
			Guests:    deref[models.Guest](guests),
			Assets:    deref[models.Asset](assets),
			Bills:     deref[models.Bill](bills),
			Users:     deref[models.User](users),
		}
		return nil
	})
	return snap, err
}

// Key returns the object key for a backup taken at t
func (e *Exporter) Key(t time.Time) string {
	return fmt.Sprintf("%sdorm_%s.json", e.prefix, t.In(timeutil.Local).Format("20060102_150405"))
}

// Run takes and uploads one snapshot, returning the object key
func (e *Exporter) Run(ctx context.Context) (string, error) {
	start := time.Now()
	snap, err := Snapshot(ctx, e.store)
	if err != nil {
		metrics.BackupsTotal.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("snapshot: %w", err)
	}
	body, err := json.Marshal(snap)
	if err != nil {
		metrics.BackupsTotal.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := e.Key(e.now())
	if err := e.uploader.Upload(ctx, key, body, "application/json"); err != nil {
		metrics.BackupsTotal.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	metrics.BackupsTotal.WithLabelValues("success").Inc()
	log.Printf("[Backup] Success: %s (%d bytes, %v)", key, len(body), time.Since(start).Round(time.Millisecond))
	return key, nil
}

// Schedule runs a backup every interval until ctx is cancelled
func (e *Exporter) Schedule(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	log.Printf("[Backup] Scheduler started (every %v)", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Backup] Scheduler stopped")
			return
		case <-ticker.C:
			if _, err := e.Run(ctx); err != nil {
				log.Printf("[Backup] Failed: %v", err)
			}
		}
	}
}
