package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/recipepad/internal/models"
)

const (
	backupPrefix      = "backups/"
	backupLinkExpiry  = 24 * time.Hour
	backupContentType = "application/json"
)

var ErrInvalidBackupKey = errors.New("invalid backup key")

// ObjectStore is the part of StorageService backups need
type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error)
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	ListObjects(ctx context.Context, prefix string) ([]ObjectSummary, error)
	Delete(ctx context.Context, key string) error
}

// RecipeExporter provides the recipes that go into a backup
type RecipeExporter interface {
	ExportAllRecipes(ctx context.Context) ([]*models.Recipe, error)
}

// Backup is a stored export
type Backup struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	RecipeCount int       `json:"recipe_count,omitempty"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BackupService writes recipe exports to object storage
type BackupService struct {
	store   ObjectStore
	recipes RecipeExporter
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewBackupService creates a backup service
func NewBackupService(store ObjectStore, recipes RecipeExporter, log logrus.FieldLogger) *BackupService {
	return &BackupService{
		store:   store,
		recipes: recipes,
		log:     log,
		now:     time.Now,
	}
}

// BackupKey returns the object key for a backup taken at t
func BackupKey(t time.Time, id uuid.UUID) string {
	return fmt.Sprintf("%s%s/%s.json", backupPrefix, t.UTC().Format("2006-01-02"), id)
}

// Create exports every recipe and uploads it. The returned backup carries a
// download link valid for a day.
func (s *BackupService) Create(ctx context.Context) (*Backup, error) {
	recipes, err := s.recipes.ExportAllRecipes(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(recipes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	now := s.now()
	key := BackupKey(now, uuid.New())
	result, err := s.store.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), backupContentType)
	if err != nil {
		return nil, err
	}

	url, err := s.store.GetPresignedURL(ctx, result.Key, backupLinkExpiry)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"key":     result.Key,
		"recipes": len(recipes),
		"bytes":   len(body),
	}).Info("Backup stored")

	return &Backup{
		Key:         result.Key,
		Size:        int64(len(body)),
		RecipeCount: len(recipes),
		URL:         url,
		CreatedAt:   now,
	}, nil
}

// List returns stored backups, newest first
func (s *BackupService) List(ctx context.Context) ([]Backup, error) {
	objects, err := s.store.ListObjects(ctx, backupPrefix)
	if err != nil {
		return nil, err
	}

	backups := make([]Backup, 0, len(objects))
	for _, obj := range objects {
		backups = append(backups, Backup{Key: obj.Key, Size: obj.Size, CreatedAt: obj.LastModified})
	}
	return backups, nil
}

// Link returns a fresh download link for a stored backup
func (s *BackupService) Link(ctx context.Context, key string) (string, error) {
	if !validBackupKey(key) {
		return "", ErrInvalidBackupKey
	}
	return s.store.GetPresignedURL(ctx, key, backupLinkExpiry)
}

// Delete removes a stored backup
func (s *BackupService) Delete(ctx context.Context, key string) error {
	if !validBackupKey(key) {
		return ErrInvalidBackupKey
	}
	return s.store.Delete(ctx, key)
}

func validBackupKey(key string) bool {
	return strings.HasPrefix(key, backupPrefix) && strings.HasSuffix(key, ".json") && !strings.Contains(key, "..")
}
