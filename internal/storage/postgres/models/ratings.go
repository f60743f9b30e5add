package models

import (
	"context"
	"errors"
	"filmhub/proj/internal/domain/fields"
	"filmhub/proj/internal/domain/filters"
	"filmhub/proj/internal/domain/models"
	"filmhub/proj/internal/storage"
	"filmhub/proj/internal/storage/postgres"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RatingModel struct {
	DB *pgxpool.Pool
}

// Insert relies on the (user_id, movie_id) unique constraint: a second rating
// of the same movie by the same user fails with storage.ErrConflict. A movie
// missing from the movies table yields storage.ErrNotFound.
func (m *RatingModel) Insert(ctx context.Context, userID int64, movie *models.Movie, score int32, comment string) (*models.Rating, error) {
	rating := models.Rating{UserID: userID, Movie: *movie, Score: score, Comment: comment}
	err := m.DB.QueryRow(
		ctx,
		`INSERT INTO ratings (user_id, movie_id, score, comment) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		userID,
		movie.ID,
		score,
		comment,
	).Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
	if err != nil {
		switch {
		case postgres.IsUniqueViolation(err):
			return nil, storage.ErrConflict
		case postgres.IsForeignKeyViolation(err):
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (m *RatingModel) Update(ctx context.Context, userID int64, movie *models.Movie, score int32, comment string) (*models.Rating, error) {
	rating := models.Rating{UserID: userID, Movie: *movie, Score: score, Comment: comment}
	err := m.DB.QueryRow(
		ctx,
		`UPDATE ratings SET score = $3, comment = $4, updated_at = NOW()
		WHERE user_id = $1 AND movie_id = $2
		RETURNING id, created_at, updated_at`,
		userID,
		movie.ID,
		score,
		comment,
	).Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

const ratingSelect = `SELECT count(*) OVER(), r.id, r.user_id, r.score, r.comment, r.created_at, r.updated_at,
	m.id, m.external_id, m.title, m.poster_url, m.genre, m.year, m.average_rating, m.created_at
	FROM ratings r JOIN movies m ON m.id = r.movie_id
	WHERE r.user_id = $1`

type ratingRow struct {
	count  int
	rating models.Rating
}

func scanRating(row pgx.CollectableRow) (ratingRow, error) {
	var out ratingRow
	r := &out.rating
	var avg float64
	err := row.Scan(
		&out.count, &r.ID, &r.UserID, &r.Score, &r.Comment, &r.CreatedAt, &r.UpdatedAt,
		&r.Movie.ID, &r.Movie.ExternalID, &r.Movie.Title, &r.Movie.PosterURL,
		&r.Movie.Genre, &r.Movie.Year, &avg, &r.Movie.CreatedAt,
	)
	r.Movie.AverageRating = fields.NewAverageRating(avg)
	return out, err
}

func collectRatings(rows pgx.Rows) ([]models.Rating, int, error) {
	outputRows, err := pgx.CollectRows(rows, scanRating)
	if err != nil {
		return nil, 0, err
	}
	ratings := make([]models.Rating, 0, len(outputRows))
	for _, row := range outputRows {
		ratings = append(ratings, row.rating)
	}
	if len(outputRows) == 0 {
		return ratings, 0, nil
	}
	return ratings, outputRows[0].count, nil
}

// ListForUser returns one page of the user's ratings and the total count.
func (m *RatingModel) ListForUser(ctx context.Context, userID int64, f filters.Filters) ([]models.Rating, int, error) {
	query := fmt.Sprintf(`%s
	ORDER BY r.%s %s, r.id ASC
	LIMIT $2 OFFSET $3`, ratingSelect, f.SortColumn(), f.SortDirection())
	rows, _ := m.DB.Query(ctx, query, userID, f.Limit(), f.Offset())
	return collectRatings(rows)
}

// ListAll returns every rating of the user, highest score first.
func (m *RatingModel) ListAll(ctx context.Context, userID int64) ([]models.Rating, error) {
	rows, _ := m.DB.Query(ctx, ratingSelect+` ORDER BY r.score DESC, r.id ASC`, userID)
	ratings, _, err := collectRatings(rows)
	return ratings, err
}
