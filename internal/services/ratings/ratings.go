package ratings

import (
	"context"
	"errors"
	"filmhub/proj/internal/domain/filters"
	"filmhub/proj/internal/domain/models"
	"filmhub/proj/internal/services/movies"
	"filmhub/proj/internal/storage"
	"log/slog"
	"time"
)

// SortSafelist lists the columns ratings can be ordered by.
var SortSafelist = []string{"created_at", "score"}

const recomputeTimeout = 30 * time.Second

type RatingsStorage interface {
	Insert(ctx context.Context, userID int64, movie *models.Movie, score int32, comment string) (*models.Rating, error)
	Update(ctx context.Context, userID int64, movie *models.Movie, score int32, comment string) (*models.Rating, error)
	ListForUser(ctx context.Context, userID int64, f filters.Filters) ([]models.Rating, int, error)
}

type MovieResolver interface {
	GetOrCreate(ctx context.Context, externalID int64) (*models.Movie, error)
	Lookup(ctx context.Context, externalID int64) (*models.Movie, error)
}

type Recommender interface {
	RecomputeRecommendations(ctx context.Context, userID int64) ([]models.Movie, error)
}

type TaskExecutor interface {
	Add(name string, task func()) bool
}

type RatingService struct {
	log          *slog.Logger
	storage      RatingsStorage
	movies       MovieResolver
	recommender  Recommender
	taskExecutor TaskExecutor
}

func New(
	log *slog.Logger,
	storage RatingsStorage,
	movies MovieResolver,
	recommender Recommender,
	taskExecutor TaskExecutor,
) *RatingService {
	return &RatingService{
		log:          log,
		storage:      storage,
		movies:       movies,
		recommender:  recommender,
		taskExecutor: taskExecutor,
	}
}

// Create rates a movie once per user. A successful rating schedules a
// recommendations refresh in the background.
func (s *RatingService) Create(ctx context.Context, userID, externalID int64, score int32, comment string) (*models.Rating, error) {
	const op = "ratings.RatingService.Create"
	log := s.log.With("op", op, "user_id", userID, "external_id", externalID)
	movie, err := s.movies.GetOrCreate(ctx, externalID)
	if err != nil {
		return nil, err
	}
	rating, err := s.storage.Insert(ctx, userID, movie, score, comment)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("rating already exists")
			return nil, ErrRatingAlreadyExists
		case errors.Is(err, storage.ErrNotFound):
			log.Warn("movie vanished before rating was stored")
			return nil, movies.ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	s.scheduleRecompute(userID)
	return rating, nil
}

func (s *RatingService) scheduleRecompute(userID int64) {
	if s.recommender == nil || s.taskExecutor == nil {
		return
	}
	s.taskExecutor.Add("recompute_recommendations", func() {
		ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
		defer cancel()
		if _, err := s.recommender.RecomputeRecommendations(ctx, userID); err != nil {
			s.log.Warn("background recommendations refresh failed", "user_id", userID, "error", err.Error())
		}
	})
}

// Update changes an existing rating. Only locally stored movies can carry a
// rating, so the movie is never fetched from upstream here.
func (s *RatingService) Update(ctx context.Context, userID, externalID int64, score int32, comment string) (*models.Rating, error) {
	const op = "ratings.RatingService.Update"
	log := s.log.With("op", op, "user_id", userID, "external_id", externalID)
	movie, err := s.movies.Lookup(ctx, externalID)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			log.Info("rating not found")
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	rating, err := s.storage.Update(ctx, userID, movie, score, comment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("rating not found")
			return nil, ErrRatingNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return rating, nil
}

func (s *RatingService) List(ctx context.Context, userID int64, f filters.Filters) ([]models.Rating, filters.Metadata, error) {
	const op = "ratings.RatingService.List"
	log := s.log.With("op", op, "user_id", userID)
	ratings, total, err := s.storage.ListForUser(ctx, userID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	return ratings, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}
