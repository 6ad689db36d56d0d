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

// PostgresPetitionRepository handles database operations for petitions
type PostgresPetitionRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPetitionRepository(db *pgxpool.Pool) *PostgresPetitionRepository {
	return &PostgresPetitionRepository{db: db}
}

const petitionColumns = `id, title, content, file_name, storage_path, petition_type,
	user_details, receiver, create_date`

// Create inserts petition. user_details and receiver go through their JSONB
// Value implementations.
func (r *PostgresPetitionRepository) Create(ctx context.Context, petition *models.Petition) error {
	query := `
		INSERT INTO petitions (
			id, title, content, file_name, storage_path, petition_type,
			user_details, receiver
		) VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, create_date`

	var id *uuid.UUID
	if petition.ID != uuid.Nil {
		id = &petition.ID
	}
	err := r.db.QueryRow(
		ctx, query,
		id,
		petition.Title,
		petition.Content,
		petition.FileName,
		petition.StoragePath,
		petition.PetitionType,
		petition.UserDetails,
		petition.Receiver,
	).Scan(&petition.ID, &petition.CreateDate)
	if err != nil {
		return fmt.Errorf("insert petition: %w", err)
	}
	return nil
}

func (r *PostgresPetitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Petition, error) {
	query := `SELECT ` + petitionColumns + ` FROM petitions WHERE id = $1`

	petition, err := scanPetition(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get petition %s: %w", id, err)
	}
	return petition, nil
}

func (r *PostgresPetitionRepository) List(ctx context.Context) ([]*models.Petition, error) {
	query := `SELECT ` + petitionColumns + ` FROM petitions ORDER BY create_date, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list petitions: %w", err)
	}
	defer rows.Close()

	petitions := []*models.Petition{}
	for rows.Next() {
		petition, err := scanPetition(rows)
		if err != nil {
			return nil, err
		}
		petitions = append(petitions, petition)
	}
	return petitions, rows.Err()
}

func scanPetition(row pgx.Row) (*models.Petition, error) {
	petition := &models.Petition{}
	err := row.Scan(
		&petition.ID,
		&petition.Title,
		&petition.Content,
		&petition.FileName,
		&petition.StoragePath,
		&petition.PetitionType,
		&petition.UserDetails,
		&petition.Receiver,
		&petition.CreateDate,
	)
	if err != nil {
		return nil, err
	}
	return petition, nil
}
