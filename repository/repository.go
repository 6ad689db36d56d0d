package repository

import (
	"context"
	"errors"

	"hukuk-asistani/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no record has the requested ID
var ErrNotFound = errors.New("record not found")

// DocumentRepository stores uploaded documents and their extracted text
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context) ([]*models.Document, error)
}

// PetitionRepository stores generated petitions
type PetitionRepository interface {
	Create(ctx context.Context, petition *models.Petition) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Petition, error)
	List(ctx context.Context) ([]*models.Petition, error)
}
