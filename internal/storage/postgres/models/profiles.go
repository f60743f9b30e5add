package models

import (
	"context"
	"filmhub/proj/internal/domain/models"
	"filmhub/proj/internal/storage"
	"filmhub/proj/internal/storage/postgres"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileModel struct {
	DB *pgxpool.Pool
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func listTable(list models.MovieList) (string, error) {
	switch list {
	case models.WatchList, models.WatchedMovies, models.RecommendedMovies:
		return string(list), nil
	}
	return "", fmt.Errorf("unknown movie list %q", list)
}

func ensureProfile(ctx context.Context, db execer, userID int64) error {
	_, err := db.Exec(ctx, `INSERT INTO user_profiles (user_id) VALUES ($1) ON CONFLICT DO NOTHING`, userID)
	return err
}

// Ensure creates the user's profile if it does not exist yet.
func (m *ProfileModel) Ensure(ctx context.Context, userID int64) error {
	return ensureProfile(ctx, m.DB, userID)
}

// AddMovie puts movieID into one of the user's lists. The list primary key
// makes a repeated add fail with storage.ErrConflict.
func (m *ProfileModel) AddMovie(ctx context.Context, userID int64, list models.MovieList, movieID int64) error {
	table, err := listTable(list)
	if err != nil {
		return err
	}
	err = pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
		if err := ensureProfile(ctx, tx, userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO `+table+` (user_id, movie_id) VALUES ($1, $2)`, userID, movieID)
		return err
	})
	return listError(err)
}

func listError(err error) error {
	switch {
	case postgres.IsUniqueViolation(err):
		return storage.ErrConflict
	case postgres.IsForeignKeyViolation(err):
		return storage.ErrNotFound
	}
	return err
}

// MarkWatched adds the movie to the watched list and drops it from the
// watch list in one transaction.
func (m *ProfileModel) MarkWatched(ctx context.Context, userID, movieID int64) error {
	err := pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
		if err := ensureProfile(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO watched_movies (user_id, movie_id) VALUES ($1, $2)`, userID, movieID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM watch_list WHERE user_id = $1 AND movie_id = $2`, userID, movieID)
		return err
	})
	return listError(err)
}

func (m *ProfileModel) ListMovies(ctx context.Context, userID int64, list models.MovieList) ([]models.Movie, error) {
	table, err := listTable(list)
	if err != nil {
		return nil, err
	}
	order := "l.added_at DESC, m.id ASC"
	if list == models.RecommendedMovies {
		order = "l.position ASC"
	}
	rows, _ := m.DB.Query(
		ctx,
		`SELECT m.id, m.external_id, m.title, m.poster_url, m.genre, m.year, m.average_rating, m.created_at
		FROM `+table+` l JOIN movies m ON m.id = l.movie_id
		WHERE l.user_id = $1
		ORDER BY `+order,
		userID,
	)
	movies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// ReplaceRecommended swaps the user's recommended set for movieIDs, keeping
// their order. movieIDs must not contain duplicates. Concurrent replaces for
// the same user are serialized on the profile row.
func (m *ProfileModel) ReplaceRecommended(ctx context.Context, userID int64, movieIDs []int64) error {
	err := pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
		if err := ensureProfile(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `SELECT 1 FROM user_profiles WHERE user_id = $1 FOR UPDATE`, userID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recommended_movies WHERE user_id = $1`, userID); err != nil {
			return err
		}
		rows := make([][]any, 0, len(movieIDs))
		for i, id := range movieIDs {
			rows = append(rows, []any{userID, id, int32(i)})
		}
		_, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"recommended_movies"},
			[]string{"user_id", "movie_id", "position"},
			pgx.CopyFromRows(rows),
		)
		return err
	})
	return listError(err)
}
