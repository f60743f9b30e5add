// Package profiles manages the per-user movie lists: watch list, watched
// movies and recommendations.
package profiles

import (
	"context"
	"errors"
	"filmhub/proj/internal/domain/models"
	"filmhub/proj/internal/services/movies"
	"filmhub/proj/internal/storage"
	"log/slog"
)

type ProfilesStorage interface {
	Ensure(ctx context.Context, userID int64) error
	AddMovie(ctx context.Context, userID int64, list models.MovieList, movieID int64) error
	MarkWatched(ctx context.Context, userID, movieID int64) error
	ListMovies(ctx context.Context, userID int64, list models.MovieList) ([]models.Movie, error)
	ReplaceRecommended(ctx context.Context, userID int64, movieIDs []int64) error
}

type RatingsReader interface {
	ListAll(ctx context.Context, userID int64) ([]models.Rating, error)
}

type MovieResolver interface {
	GetOrSearch(ctx context.Context, externalID int64, titleHint string) (*models.Movie, error)
	Save(ctx context.Context, movie *models.Movie) (*models.Movie, error)
}

type Catalog interface {
	Popular(ctx context.Context) []models.Movie
	ByGenre(ctx context.Context, genreID int) []models.Movie
}

type ProfileService struct {
	log     *slog.Logger
	storage ProfilesStorage
	ratings RatingsReader
	movies  MovieResolver
	catalog Catalog
}

func New(log *slog.Logger, storage ProfilesStorage, ratings RatingsReader, movies MovieResolver, catalog Catalog) *ProfileService {
	return &ProfileService{
		log:     log,
		storage: storage,
		ratings: ratings,
		movies:  movies,
		catalog: catalog,
	}
}

func (s *ProfileService) EnsureProfile(ctx context.Context, userID int64) error {
	const op = "profiles.ProfileService.EnsureProfile"
	if err := s.storage.Ensure(ctx, userID); err != nil {
		s.log.Error(err.Error(), "op", op, "user_id", userID)
		return err
	}
	return nil
}

func (s *ProfileService) AddToWatchList(ctx context.Context, userID, externalID int64, titleHint string) (*models.Movie, error) {
	const op = "profiles.ProfileService.AddToWatchList"
	log := s.log.With("op", op, "user_id", userID, "external_id", externalID)
	movie, err := s.movies.GetOrSearch(ctx, externalID, titleHint)
	if err != nil {
		return nil, err
	}
	if err := s.storage.AddMovie(ctx, userID, models.WatchList, movie.ID); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("movie already in watch list")
			return nil, ErrAlreadyInWatchList
		case errors.Is(err, storage.ErrNotFound):
			log.Warn("movie vanished before it was listed")
			return nil, movies.ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

// AddToWatched records the movie as watched and takes it off the watch list.
func (s *ProfileService) AddToWatched(ctx context.Context, userID, externalID int64, titleHint string) (*models.Movie, error) {
	const op = "profiles.ProfileService.AddToWatched"
	log := s.log.With("op", op, "user_id", userID, "external_id", externalID)
	movie, err := s.movies.GetOrSearch(ctx, externalID, titleHint)
	if err != nil {
		return nil, err
	}
	if err := s.storage.MarkWatched(ctx, userID, movie.ID); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("movie already watched")
			return nil, ErrAlreadyWatched
		case errors.Is(err, storage.ErrNotFound):
			log.Warn("movie vanished before it was listed")
			return nil, movies.ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *ProfileService) list(ctx context.Context, userID int64, list models.MovieList) ([]models.Movie, error) {
	movies, err := s.storage.ListMovies(ctx, userID, list)
	if err != nil {
		s.log.Error(err.Error(), "op", "profiles.ProfileService.list", "user_id", userID, "list", list)
		return nil, err
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}

func (s *ProfileService) WatchList(ctx context.Context, userID int64) ([]models.Movie, error) {
	return s.list(ctx, userID, models.WatchList)
}

func (s *ProfileService) Watched(ctx context.Context, userID int64) ([]models.Movie, error) {
	return s.list(ctx, userID, models.WatchedMovies)
}

func (s *ProfileService) Recommended(ctx context.Context, userID int64) ([]models.Movie, error) {
	return s.list(ctx, userID, models.RecommendedMovies)
}

// Profile returns the user's three lists, creating the profile if missing.
func (s *ProfileService) Profile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	if err := s.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}
	profile := &models.UserProfile{UserID: userID}
	var err error
	if profile.WatchList, err = s.WatchList(ctx, userID); err != nil {
		return nil, err
	}
	if profile.WatchedMovies, err = s.Watched(ctx, userID); err != nil {
		return nil, err
	}
	if profile.RecommendedMovies, err = s.Recommended(ctx, userID); err != nil {
		return nil, err
	}
	return profile, nil
}
