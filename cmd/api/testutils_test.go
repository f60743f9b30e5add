package main

import (
	"context"
	"filmhub/proj/internal/catalog"
	"filmhub/proj/internal/config"
	"filmhub/proj/internal/domain/filters"
	"filmhub/proj/internal/domain/models"
	"filmhub/proj/internal/lib/logger"
	"filmhub/proj/internal/lib/validator"
	"filmhub/proj/internal/services/auth"
	"filmhub/proj/internal/services/movies"
	"filmhub/proj/internal/services/profiles"
	"filmhub/proj/internal/services/ratings"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var testUser = &models.User{ID: 1, Username: "test", Email: "test@gmail.com", IsActive: true}

type fakeCatalog struct {
	sections   catalog.Sections
	search     []models.Movie
	lastQuery  string
	lastSearch string
}

func (f *fakeCatalog) Browse(ctx context.Context) catalog.Sections {
	return f.sections
}

func (f *fakeCatalog) Search(ctx context.Context, query, searchType string) []models.Movie {
	f.lastQuery, f.lastSearch = query, searchType
	return f.search
}

type fakeMovies struct {
	movies map[int64]models.Movie
}

func (f *fakeMovies) Get(ctx context.Context, externalID int64) (*models.Movie, error) {
	movie, ok := f.movies[externalID]
	if !ok {
		return nil, movies.ErrMovieNotFound
	}
	return &movie, nil
}

type fakeRatings struct {
	movies  *fakeMovies
	rated   map[[2]int64]*models.Rating
	filters filters.Filters
}

func (f *fakeRatings) Create(ctx context.Context, userID, externalID int64, score int32, comment string) (*models.Rating, error) {
	movie, err := f.movies.Get(ctx, externalID)
	if err != nil {
		return nil, err
	}
	key := [2]int64{userID, externalID}
	if _, ok := f.rated[key]; ok {
		return nil, ratings.ErrRatingAlreadyExists
	}
	rating := &models.Rating{ID: int64(len(f.rated) + 1), UserID: userID, Movie: *movie, Score: score, Comment: comment}
	f.rated[key] = rating
	return rating, nil
}

func (f *fakeRatings) Update(ctx context.Context, userID, externalID int64, score int32, comment string) (*models.Rating, error) {
	rating, ok := f.rated[[2]int64{userID, externalID}]
	if !ok {
		return nil, ratings.ErrRatingNotFound
	}
	rating.Score, rating.Comment = score, comment
	return rating, nil
}

func (f *fakeRatings) List(ctx context.Context, userID int64, params filters.Filters) ([]models.Rating, filters.Metadata, error) {
	f.filters = params
	out := []models.Rating{}
	for key, rating := range f.rated {
		if key[0] == userID {
			out = append(out, *rating)
		}
	}
	return out, filters.CalculateMetadata(len(out), params.Page, params.PageSize), nil
}

type fakeProfiles struct {
	movies      *fakeMovies
	watchList   []models.Movie
	watched     []models.Movie
	recommended []models.Movie
}

func (f *fakeProfiles) Profile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	return &models.UserProfile{
		UserID:            userID,
		WatchList:         f.watchList,
		WatchedMovies:     f.watched,
		RecommendedMovies: f.recommended,
	}, nil
}

func (f *fakeProfiles) add(list *[]models.Movie, externalID int64, dup error) (*models.Movie, error) {
	movie, err := f.movies.Get(context.Background(), externalID)
	if err != nil {
		return nil, err
	}
	for _, m := range *list {
		if m.ExternalID == externalID {
			return nil, dup
		}
	}
	*list = append(*list, *movie)
	return movie, nil
}

func (f *fakeProfiles) AddToWatchList(ctx context.Context, userID, externalID int64, titleHint string) (*models.Movie, error) {
	return f.add(&f.watchList, externalID, profiles.ErrAlreadyInWatchList)
}

func (f *fakeProfiles) AddToWatched(ctx context.Context, userID, externalID int64, titleHint string) (*models.Movie, error) {
	return f.add(&f.watched, externalID, profiles.ErrAlreadyWatched)
}

func (f *fakeProfiles) WatchList(ctx context.Context, userID int64) ([]models.Movie, error) {
	return append([]models.Movie{}, f.watchList...), nil
}

func (f *fakeProfiles) Watched(ctx context.Context, userID int64) ([]models.Movie, error) {
	return append([]models.Movie{}, f.watched...), nil
}

func (f *fakeProfiles) Recommended(ctx context.Context, userID int64) ([]models.Movie, error) {
	return append([]models.Movie{}, f.recommended...), nil
}

func (f *fakeProfiles) RecomputeRecommendations(ctx context.Context, userID int64) ([]models.Movie, error) {
	f.recommended = []models.Movie{{ExternalID: 99, Title: "Recommended"}}
	return f.recommended, nil
}

type fakeAuth struct {
	users map[int64]*models.User
}

func (f *fakeAuth) Signup(ctx context.Context, email, username, password string) (*auth.SignupResult, error) {
	for _, u := range f.users {
		if u.Email == email {
			return nil, auth.ErrUserAlreadyExists
		}
	}
	id := int64(len(f.users) + 1)
	f.users[id] = &models.User{ID: id, Email: email, Username: username}
	return &auth.SignupResult{UserID: id, AuthTokens: models.AuthTokens{AccessToken: "access", RefreshToken: "refresh"}}, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*models.AuthTokens, error) {
	for _, u := range f.users {
		if u.Email == email && password == "password" {
			return &models.AuthTokens{AccessToken: "access", RefreshToken: "refresh"}, nil
		}
	}
	return nil, auth.ErrInvalidCredentials
}

func (f *fakeAuth) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

type testDeps struct {
	catalog  *fakeCatalog
	movies   *fakeMovies
	ratings  *fakeRatings
	profiles *fakeProfiles
	auth     *fakeAuth
}

func newTestDeps() *testDeps {
	year := int32(1979)
	mv := &fakeMovies{movies: map[int64]models.Movie{
		348: {ID: 1, ExternalID: 348, Title: "Alien", Genre: "Horror, Science Fiction", Year: &year, AverageRating: 8.1},
	}}
	return &testDeps{
		catalog:  &fakeCatalog{},
		movies:   mv,
		ratings:  &fakeRatings{movies: mv, rated: make(map[[2]int64]*models.Rating)},
		profiles: &fakeProfiles{movies: mv},
		auth:     &fakeAuth{users: map[int64]*models.User{testUser.ID: testUser}},
	}
}

func NewTestApplication(t *testing.T, deps *testDeps) *Application {
	t.Helper()
	if deps == nil {
		deps = newTestDeps()
	}
	cfg := &config.Config{AppSecret: testSecret}
	log := logger.Discard()
	return &Application{
		cfg:       cfg,
		log:       log,
		Http:      &Http{log: log, cfg: cfg},
		catalog:   deps.catalog,
		movies:    deps.movies,
		ratings:   deps.ratings,
		profiles:  deps.profiles,
		auth:      deps.auth,
		validator: validator.New(),
		decoder:   newDecoder(),
	}
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func userToken(t *testing.T, userID int64) string {
	return signToken(t, jwt.MapClaims{"uid": userID, "exp": time.Now().Add(time.Hour).Unix()})
}

type testResponse struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
}

// do sends a request through the full router. token may be empty.
func do(t *testing.T, app *Application, method, path, token, body string) (int, testResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, req)
	var resp testResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec.Code, resp
}

func decodeData(t *testing.T, resp testResponse, key string, dst any) {
	t.Helper()
	raw, ok := resp.Data[key]
	require.True(t, ok, "response has no %q key", key)
	require.NoError(t, json.Unmarshal(raw, dst))
}

func noContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}
