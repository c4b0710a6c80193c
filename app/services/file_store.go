// Package services provides external service integrations and technical concerns like notifications, tokens and file storage
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/amirphl/open-so-review/models"
	"github.com/amirphl/open-so-review/repository"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

var ErrFileNotFound = errors.New("file not found")

// CreateFileRequest describes one export artifact to store
type CreateFileRequest struct {
	Name        string
	FileType    string
	ContentType string
	Folder      string
	SalesRepID  *uint
	Content     []byte
}

// StoredFile is a loaded export artifact
type StoredFile struct {
	ID          uuid.UUID
	Name        string
	FileType    string
	ContentType string
	Content     []byte
}

// FileStore keeps export artifacts and hands them back by id
type FileStore interface {
	CreateFile(ctx context.Context, req CreateFileRequest) (uuid.UUID, error)
	LoadFile(ctx context.Context, id uuid.UUID) (*StoredFile, error)
}

// DatabaseFileStore keeps file content inline in export_files
type DatabaseFileStore struct {
	repo repository.ExportFileRepository
}

func NewDatabaseFileStore(repo repository.ExportFileRepository) FileStore {
	return &DatabaseFileStore{repo: repo}
}

func (s *DatabaseFileStore) CreateFile(ctx context.Context, req CreateFileRequest) (uuid.UUID, error) {
	file := &models.ExportFile{
		UUID:        uuid.New(),
		Name:        req.Name,
		FileType:    req.FileType,
		ContentType: req.ContentType,
		Folder:      req.Folder,
		Provider:    models.ExportProviderDatabase,
		Content:     req.Content,
		SizeBytes:   int64(len(req.Content)),
		SalesRepID:  req.SalesRepID,
	}
	if err := s.repo.Save(ctx, file); err != nil {
		return uuid.Nil, fmt.Errorf("failed to store %s: %w", req.Name, err)
	}
	return file.UUID, nil
}

func (s *DatabaseFileStore) LoadFile(ctx context.Context, id uuid.UUID) (*StoredFile, error) {
	file, err := s.repo.ByUUID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load file %s: %w", id, err)
	}
	if file == nil {
		return nil, ErrFileNotFound
	}
	return &StoredFile{
		ID:          file.UUID,
		Name:        file.Name,
		FileType:    file.FileType,
		ContentType: file.ContentType,
		Content:     file.Content,
	}, nil
}

// GCSFileStore uploads content to a Cloud Storage bucket and keeps metadata in export_files
type GCSFileStore struct {
	client *storage.Client
	bucket string
	repo   repository.ExportFileRepository
}

// NewGCSFileStore creates a store backed by the given bucket.
// Empty credentialsJSON falls back to application default credentials.
func NewGCSFileStore(ctx context.Context, bucket, credentialsJSON string, repo repository.ExportFileRepository) (*GCSFileStore, error) {
	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSFileStore{client: client, bucket: bucket, repo: repo}, nil
}

// Close releases the underlying storage client
func (s *GCSFileStore) Close() error {
	return s.client.Close()
}

func (s *GCSFileStore) CreateFile(ctx context.Context, req CreateFileRequest) (uuid.UUID, error) {
	id := uuid.New()
	objectKey := path.Join(req.Folder, id.String(), req.Name)

	writer := s.client.Bucket(s.bucket).Object(objectKey).NewWriter(ctx)
	writer.ContentType = req.ContentType
	if _, err := writer.Write(req.Content); err != nil {
		_ = writer.Close()
		return uuid.Nil, fmt.Errorf("failed to upload %s: %w", req.Name, err)
	}
	if err := writer.Close(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to finalize upload of %s: %w", req.Name, err)
	}

	file := &models.ExportFile{
		UUID:        id,
		Name:        req.Name,
		FileType:    req.FileType,
		ContentType: req.ContentType,
		Folder:      req.Folder,
		Provider:    models.ExportProviderGCS,
		ObjectKey:   &objectKey,
		SizeBytes:   int64(len(req.Content)),
		SalesRepID:  req.SalesRepID,
	}
	if err := s.repo.Save(ctx, file); err != nil {
		return uuid.Nil, fmt.Errorf("failed to record %s: %w", req.Name, err)
	}
	return id, nil
}

func (s *GCSFileStore) LoadFile(ctx context.Context, id uuid.UUID) (*StoredFile, error) {
	file, err := s.repo.ByUUID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load file %s: %w", id, err)
	}
	if file == nil || file.ObjectKey == nil {
		return nil, ErrFileNotFound
	}

	reader, err := s.client.Bucket(s.bucket).Object(*file.ObjectKey).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open object %s: %w", *file.ObjectKey, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", *file.ObjectKey, err)
	}

	return &StoredFile{
		ID:          file.UUID,
		Name:        file.Name,
		FileType:    file.FileType,
		ContentType: file.ContentType,
		Content:     content,
	}, nil
}
