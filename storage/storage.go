package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Open when nothing is stored at the path
var ErrNotFound = errors.New("storage: object not found")

// Storage persists uploaded documents and rendered petitions
type Storage interface {
	// Put stores data and returns the storage path to record
	Put(ctx context.Context, obj Object, data io.Reader) (string, error)

	// Open streams a stored object back
	Open(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes an object; deleting a missing object is not an error
	Delete(ctx context.Context, storagePath string) error
}

// Namespace separates the kinds of stored objects
type Namespace string

const (
	NamespaceDocuments Namespace = "documents"
	NamespacePetitions Namespace = "petitions"
)

// Object describes what is being stored
type Object struct {
	ID          uuid.UUID
	Name        string
	Namespace   Namespace
	ContentType string
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a storage backend from cfg
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("s3 storage requires a bucket")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

var pathReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "..", "_")

// objectPath builds "<namespace>/<id[:2]>/<id>_<name><ext>"
func objectPath(obj Object) string {
	name := filepath.Base(obj.Name)
	ext := filepath.Ext(name)
	base := pathReplacer.Replace(strings.TrimSuffix(name, ext))
	ns := obj.Namespace
	if ns == "" {
		ns = NamespaceDocuments
	}
	id := obj.ID.String()
	return fmt.Sprintf("%s/%s/%s_%s%s", ns, id[:2], id, base, strings.ToLower(ext))
}

// contentTypeFor guesses a content type from the file extension
func contentTypeFor(obj Object) string {
	if obj.ContentType != "" {
		return obj.ContentType
	}
	switch strings.ToLower(filepath.Ext(obj.Name)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
