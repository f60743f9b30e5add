package main

import (
	"context"
	"filmhub/proj/internal/api/tasks"
	"filmhub/proj/internal/catalog"
	"filmhub/proj/internal/clients/sso/grpc"
	"filmhub/proj/internal/clients/tmdb"
	"filmhub/proj/internal/config"
	"filmhub/proj/internal/domain/filters"
	"filmhub/proj/internal/domain/models"
	"filmhub/proj/internal/lib/validator"
	"filmhub/proj/internal/services"
	"filmhub/proj/internal/services/auth"
	"filmhub/proj/internal/storage/postgres"
	pgmodels "filmhub/proj/internal/storage/postgres/models"
	"log/slog"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

type CatalogService interface {
	Browse(ctx context.Context) catalog.Sections
	Search(ctx context.Context, query, searchType string) []models.Movie
}

type MovieService interface {
	Get(ctx context.Context, externalID int64) (*models.Movie, error)
}

type RatingService interface {
	Create(ctx context.Context, userID, externalID int64, score int32, comment string) (*models.Rating, error)
	Update(ctx context.Context, userID, externalID int64, score int32, comment string) (*models.Rating, error)
	List(ctx context.Context, userID int64, f filters.Filters) ([]models.Rating, filters.Metadata, error)
}

type ProfileService interface {
	Profile(ctx context.Context, userID int64) (*models.UserProfile, error)
	AddToWatchList(ctx context.Context, userID, externalID int64, titleHint string) (*models.Movie, error)
	AddToWatched(ctx context.Context, userID, externalID int64, titleHint string) (*models.Movie, error)
	WatchList(ctx context.Context, userID int64) ([]models.Movie, error)
	Watched(ctx context.Context, userID int64) ([]models.Movie, error)
	Recommended(ctx context.Context, userID int64) ([]models.Movie, error)
	RecomputeRecommendations(ctx context.Context, userID int64) ([]models.Movie, error)
}

type AuthService interface {
	Signup(ctx context.Context, email, username, password string) (*auth.SignupResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthTokens, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	catalog   CatalogService
	movies    MovieService
	ratings   RatingService
	profiles  ProfileService
	auth      AuthService
	validator *govalidator.Validate
	decoder   *schema.Decoder
	tasks     *tasks.BackgroundTasks
}

func newDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *postgres.PostgresDB) *Application {
	sso, err := grpc.New(
		log,
		cfg.AppID,
		cfg.Clients.SSO.Addr,
		cfg.Clients.SSO.RetryTimeout,
		cfg.Clients.SSO.RetriesCount,
	)
	if err != nil {
		panic(err)
	}
	bgTasks := tasks.New(log, cfg.Workers.Count, cfg.Workers.QueueSize)
	bgTasks.Run()
	upstream := tmdb.New(log, cfg.TMDB)
	svc := services.New(log, pgmodels.New(storage), upstream, sso, bgTasks)
	return &Application{
		cfg:       cfg,
		log:       log,
		validator: validator.New(),
		decoder:   newDecoder(),
		catalog:   svc.Catalog,
		movies:    svc.Movies,
		ratings:   svc.Ratings,
		profiles:  svc.Profiles,
		auth:      svc.Auth,
		tasks:     bgTasks,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
