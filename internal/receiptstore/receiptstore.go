// Package receiptstore archives scanned receipt images in a GCS bucket so
// extracted transactions keep a pointer back to their source image.
// Archival is best-effort: a failed upload never fails the scan.
package receiptstore

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Store writes receipt images to one bucket. Construct once at process
// start; Close releases the client.
type Store struct {
	client *storage.Client
	bucket string
}

// New creates a Store for the given bucket. Credentials come from
// Application Default Credentials.
func New(ctx context.Context, bucket string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("receiptstore.New: bucket name is empty")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("receiptstore.New: create storage client: %w", err)
	}
	return &Store{client: client, bucket: bucket}, nil
}

// Close releases the storage client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Save uploads one receipt image under receipts/<user>/<date>/<uuid><ext>
// and returns its gs:// URI.
func (s *Store) Save(ctx context.Context, userID uuid.UUID, mimeType string, data []byte) (string, error) {
	objectName := s.objectName(userID, mimeType, time.Now().UTC())

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = mimeType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("Save: writing object %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("Save: finalizing upload %s: %w", objectName, err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

func (s *Store) objectName(userID uuid.UUID, mimeType string, now time.Time) string {
	ext := ".bin"
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	return path.Join("receipts", userID.String(), now.Format("2006-01-02"), uuid.NewString()+ext)
}

// ObjectName extracts the object path from a gs:// URI produced by Save.
func ObjectName(gsURI string) string {
	trimmed := strings.TrimPrefix(gsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return parts[1]
}
