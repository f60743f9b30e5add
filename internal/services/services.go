package services

import (
	"filmhub/proj/internal/catalog"
	"filmhub/proj/internal/clients/tmdb"
	"filmhub/proj/internal/services/auth"
	"filmhub/proj/internal/services/movies"
	"filmhub/proj/internal/services/profiles"
	"filmhub/proj/internal/services/ratings"
	storage "filmhub/proj/internal/storage/postgres/models"
	"log/slog"
)

type Services struct {
	Auth     *auth.AuthService
	Catalog  *catalog.Catalog
	Movies   *movies.MovieService
	Ratings  *ratings.RatingService
	Profiles *profiles.ProfileService
}

func New(
	log *slog.Logger,
	store *storage.Models,
	upstream *tmdb.Client,
	sso auth.SsoProvider,
	taskExecutor ratings.TaskExecutor,
) *Services {
	normalizer := catalog.NewNormalizer(upstream.ImageBaseURL())
	catalogService := catalog.New(log, upstream, normalizer)
	moviesService := movies.New(log, store.Movie, upstream, normalizer)
	profilesService := profiles.New(log, store.Profile, store.Rating, moviesService, catalogService)
	return &Services{
		Auth:     auth.New(log, sso, profilesService),
		Catalog:  catalogService,
		Movies:   moviesService,
		Ratings:  ratings.New(log, store.Rating, moviesService, profilesService, taskExecutor),
		Profiles: profilesService,
	}
}
