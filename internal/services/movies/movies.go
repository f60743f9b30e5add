package movies

import (
	"context"
	"errors"
	"filmhub/proj/internal/catalog"
	"filmhub/proj/internal/clients/tmdb"
	"filmhub/proj/internal/domain/models"
	"filmhub/proj/internal/storage"
	"log/slog"
	"strings"
)

type MoviesStorage interface {
	GetByExternalID(ctx context.Context, externalID int64) (*models.Movie, error)
	Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error)
}

type Upstream interface {
	FetchMovie(ctx context.Context, externalID int64) (*tmdb.RawMovie, error)
	SearchMovies(ctx context.Context, query string) []tmdb.RawMovie
}

// MovieService guarantees that a local movie exists before anything is
// associated with it. Movies are materialized from the upstream catalog on
// first reference and served from storage afterwards.
type MovieService struct {
	log        *slog.Logger
	storage    MoviesStorage
	upstream   Upstream
	normalizer *catalog.Normalizer
}

func New(log *slog.Logger, storage MoviesStorage, upstream Upstream, normalizer *catalog.Normalizer) *MovieService {
	return &MovieService{
		log:        log,
		storage:    storage,
		upstream:   upstream,
		normalizer: normalizer,
	}
}

func (s *MovieService) Get(ctx context.Context, externalID int64) (*models.Movie, error) {
	return s.GetOrCreate(ctx, externalID)
}

func (s *MovieService) local(ctx context.Context, externalID int64) (*models.Movie, error) {
	movie, err := s.storage.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return movie, nil
}

// Lookup returns a movie already stored locally. It never contacts the
// upstream catalog and reports ErrMovieNotFound for unknown ids.
func (s *MovieService) Lookup(ctx context.Context, externalID int64) (*models.Movie, error) {
	const op = "movies.MovieService.Lookup"
	log := s.log.With("op", op, "external_id", externalID)
	movie, err := s.local(ctx, externalID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	return movie, nil
}

func (s *MovieService) GetOrCreate(ctx context.Context, externalID int64) (*models.Movie, error) {
	const op = "movies.MovieService.GetOrCreate"
	log := s.log.With("op", op, "external_id", externalID)
	movie, err := s.local(ctx, externalID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if movie != nil {
		return movie, nil
	}
	raw, err := s.upstream.FetchMovie(ctx, externalID)
	if err != nil {
		log.Info("movie could not be fetched", "reason", err.Error())
		return nil, ErrMovieNotFound
	}
	return s.materialize(ctx, log, *raw)
}

// GetOrSearch behaves like GetOrCreate, but when the direct fetch fails it
// falls back to a title search and picks the result with the same id.
func (s *MovieService) GetOrSearch(ctx context.Context, externalID int64, titleHint string) (*models.Movie, error) {
	const op = "movies.MovieService.GetOrSearch"
	log := s.log.With("op", op, "external_id", externalID, "title_hint", titleHint)
	movie, err := s.local(ctx, externalID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if movie != nil {
		return movie, nil
	}
	raw, err := s.upstream.FetchMovie(ctx, externalID)
	if err == nil {
		return s.materialize(ctx, log, *raw)
	}
	log.Info("direct fetch failed", "reason", err.Error())
	if strings.TrimSpace(titleHint) == "" {
		return nil, ErrMovieNotFound
	}
	for _, candidate := range s.upstream.SearchMovies(ctx, titleHint) {
		if candidate.ID == externalID {
			return s.materialize(ctx, log, candidate)
		}
	}
	log.Info("movie not found by title search")
	return nil, ErrMovieNotFound
}

func (s *MovieService) materialize(ctx context.Context, log *slog.Logger, raw tmdb.RawMovie) (*models.Movie, error) {
	movie := s.normalizer.Normalize(raw)
	if movie == nil {
		log.Info("upstream record rejected by normalizer")
		return nil, ErrMovieNotFound
	}
	return s.Save(ctx, movie)
}

// Save persists an already normalized movie. Saving a movie whose external
// id is known returns the stored row unchanged.
func (s *MovieService) Save(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	const op = "movies.MovieService.Save"
	log := s.log.With("op", op, "external_id", movie.ExternalID)
	saved, err := s.storage.Insert(ctx, movie)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	log.Debug("movie stored", "id", saved.ID)
	return saved, nil
}
