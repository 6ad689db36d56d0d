package repository

import (
	"context"
	"errors"
	"fmt"

	"hukuk-asistani/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDocumentRepository handles database operations for documents
type PostgresDocumentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresDocumentRepository(db *pgxpool.Pool) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

const documentColumns = `id, filename, doc_type, content_type, size, checksum,
	storage_path, extracted_text, summary, upload_date`

// Create inserts doc; the database assigns the ID and upload date when unset
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (
			id, filename, doc_type, content_type, size, checksum,
			storage_path, extracted_text, summary
		) VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, upload_date`

	var id *uuid.UUID
	if doc.ID != uuid.Nil {
		id = &doc.ID
	}
	err := r.db.QueryRow(
		ctx, query,
		id,
		doc.Filename,
		doc.Type,
		doc.ContentType,
		doc.Size,
		doc.Checksum,
		doc.StoragePath,
		doc.Text,
		doc.Summary,
	).Scan(&doc.ID, &doc.UploadDate)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

func (r *PostgresDocumentRepository) List(ctx context.Context) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY upload_date, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []*models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	doc := &models.Document{}
	err := row.Scan(
		&doc.ID,
		&doc.Filename,
		&doc.Type,
		&doc.ContentType,
		&doc.Size,
		&doc.Checksum,
		&doc.StoragePath,
		&doc.Text,
		&doc.Summary,
		&doc.UploadDate,
	)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
