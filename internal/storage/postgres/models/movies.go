package models

import (
	"context"
	"errors"
	"filmhub/proj/internal/domain/models"
	"filmhub/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const movieColumns = "id, external_id, title, poster_url, genre, year, average_rating, created_at"

type MovieModel struct {
	DB *pgxpool.Pool
}

func (m *MovieModel) GetByExternalID(ctx context.Context, externalID int64) (*models.Movie, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT `+movieColumns+` FROM movies WHERE external_id = $1`,
		externalID,
	)
	if err != nil {
		return nil, err
	}
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &movie, nil
}

// Insert stores movie unless a row with the same external id exists, and
// returns whichever row ends up in the table. Concurrent inserts of the same
// external id all observe the same row.
func (m *MovieModel) Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO movies (external_id, title, poster_url, genre, year, average_rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING `+movieColumns,
		movie.ExternalID,
		movie.Title,
		movie.PosterURL,
		movie.Genre,
		movie.Year,
		float64(movie.AverageRating),
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m.GetByExternalID(ctx, movie.ExternalID)
		}
		return nil, err
	}
	return &inserted, nil
}
