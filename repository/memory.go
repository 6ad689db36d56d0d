package repository

import (
	"context"
	"sync"
	"time"

	"hukuk-asistani/models"

	"github.com/google/uuid"
)

// memoryStore keeps records in insertion order
type memoryStore[T any] struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*T
	order []uuid.UUID
}

func newMemoryStore[T any]() *memoryStore[T] {
	return &memoryStore[T]{byID: make(map[uuid.UUID]*T)}
}

func (s *memoryStore[T]) put(id uuid.UUID, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		s.order = append(s.order, id)
	}
	s.byID[id] = &v
}

func (s *memoryStore[T]) get(id uuid.UUID) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *memoryStore[T]) list() []*T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.byID[id]
		out = append(out, &cp)
	}
	return out
}

// MemoryDocumentRepository is the DocumentRepository used without a database
type MemoryDocumentRepository struct {
	store *memoryStore[models.Document]
}

func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{store: newMemoryStore[models.Document]()}
}

func (r *MemoryDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.UploadDate.IsZero() {
		doc.UploadDate = time.Now().UTC()
	}
	r.store.put(doc.ID, *doc)
	return nil
}

func (r *MemoryDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return r.store.get(id)
}

func (r *MemoryDocumentRepository) List(ctx context.Context) ([]*models.Document, error) {
	return r.store.list(), nil
}

// MemoryPetitionRepository is the PetitionRepository used without a database
type MemoryPetitionRepository struct {
	store *memoryStore[models.Petition]
}

func NewMemoryPetitionRepository() *MemoryPetitionRepository {
	return &MemoryPetitionRepository{store: newMemoryStore[models.Petition]()}
}

func (r *MemoryPetitionRepository) Create(ctx context.Context, petition *models.Petition) error {
	if petition.ID == uuid.Nil {
		petition.ID = uuid.New()
	}
	if petition.CreateDate.IsZero() {
		petition.CreateDate = time.Now().UTC()
	}
	r.store.put(petition.ID, *petition)
	return nil
}

func (r *MemoryPetitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Petition, error) {
	return r.store.get(id)
}

func (r *MemoryPetitionRepository) List(ctx context.Context) ([]*models.Petition, error) {
	return r.store.list(), nil
}
