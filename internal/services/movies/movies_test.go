package movies

import (
	"context"
	"errors"
	"filmhub/proj/internal/catalog"
	"filmhub/proj/internal/clients/tmdb"
	"filmhub/proj/internal/domain/models"
	"filmhub/proj/internal/lib/logger"
	"filmhub/proj/internal/storage"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	mu     sync.Mutex
	byExt  map[int64]*models.Movie
	nextID int64
	err    error
}

func newMemStorage() *memStorage {
	return &memStorage{byExt: make(map[int64]*models.Movie)}
}

func (m *memStorage) GetByExternalID(ctx context.Context, externalID int64) (*models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	movie, ok := m.byExt[externalID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *movie
	return &copied, nil
}

func (m *memStorage) Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byExt[movie.ExternalID]; ok {
		copied := *existing
		return &copied, nil
	}
	m.nextID++
	stored := *movie
	stored.ID = m.nextID
	m.byExt[movie.ExternalID] = &stored
	copied := stored
	return &copied, nil
}

type fakeUpstream struct {
	mu         sync.Mutex
	movies     map[int64]tmdb.RawMovie
	search     []tmdb.RawMovie
	fetchErr   error
	fetchCalls int
	searchCall int
}

func (f *fakeUpstream) FetchMovie(ctx context.Context, externalID int64) (*tmdb.RawMovie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	raw, ok := f.movies[externalID]
	if !ok {
		return nil, tmdb.ErrMovieNotFound
	}
	return &raw, nil
}

func (f *fakeUpstream) SearchMovies(ctx context.Context, query string) []tmdb.RawMovie {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCall++
	return f.search
}

func alien() tmdb.RawMovie {
	return tmdb.RawMovie{
		ID:          348,
		Title:       "Alien",
		PosterPath:  "/alien.jpg",
		GenreIDs:    []int{27, 878},
		ReleaseDate: "1979-05-25",
		VoteAverage: 8.14,
	}
}

func newTestService(st *memStorage, up *fakeUpstream) *MovieService {
	return New(logger.Discard(), st, up, catalog.NewNormalizer("https://img"))
}

func TestGetOrCreateMaterializesOnce(t *testing.T) {
	st := newMemStorage()
	up := &fakeUpstream{movies: map[int64]tmdb.RawMovie{348: alien()}}
	s := newTestService(st, up)

	first, err := s.GetOrCreate(context.Background(), 348)
	require.NoError(t, err)
	assert.Equal(t, "Alien", first.Title)
	assert.Equal(t, "https://img/alien.jpg", first.PosterURL)
	assert.Equal(t, "Horror, Science Fiction", first.Genre)
	require.NotNil(t, first.Year)
	assert.Equal(t, int32(1979), *first.Year)
	assert.Equal(t, 8.1, float64(first.AverageRating))

	second, err := s.Get(context.Background(), 348)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, up.fetchCalls)
}

func TestGetOrCreateCachedMakesNoUpstreamCall(t *testing.T) {
	st := newMemStorage()
	_, err := st.Insert(context.Background(), &models.Movie{ExternalID: 7, Title: "Cached"})
	require.NoError(t, err)
	up := &fakeUpstream{}

	movie, err := newTestService(st, up).GetOrCreate(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "Cached", movie.Title)
	assert.Equal(t, 0, up.fetchCalls)
	assert.Equal(t, 0, up.searchCall)
}

func TestGetOrCreateNotFound(t *testing.T) {
	cases := map[string]*fakeUpstream{
		"missing upstream": {movies: map[int64]tmdb.RawMovie{}},
		"upstream down":    {fetchErr: tmdb.ErrUnavailable},
		"rejected record": {movies: map[int64]tmdb.RawMovie{
			348: {ID: 348, Title: "No Poster"},
		}},
	}
	for name, up := range cases {
		t.Run(name, func(t *testing.T) {
			st := newMemStorage()
			_, err := newTestService(st, up).GetOrCreate(context.Background(), 348)
			assert.ErrorIs(t, err, ErrMovieNotFound)
			assert.Empty(t, st.byExt)
		})
	}
}

func TestGetOrCreateStorageError(t *testing.T) {
	st := newMemStorage()
	st.err = errors.New("connection refused")
	_, err := newTestService(st, &fakeUpstream{}).GetOrCreate(context.Background(), 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMovieNotFound)
}

func TestGetOrCreateConcurrent(t *testing.T) {
	st := newMemStorage()
	up := &fakeUpstream{movies: map[int64]tmdb.RawMovie{348: alien()}}
	s := newTestService(st, up)

	var wg sync.WaitGroup
	ids := make([]int64, 10)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			movie, err := s.GetOrCreate(context.Background(), 348)
			if assert.NoError(t, err) {
				ids[i] = movie.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Len(t, st.byExt, 1)
}

func TestGetOrSearchFallsBackToTitleSearch(t *testing.T) {
	other := alien()
	other.ID = 1
	up := &fakeUpstream{fetchErr: tmdb.ErrUnavailable, search: []tmdb.RawMovie{other, alien()}}
	st := newMemStorage()

	movie, err := newTestService(st, up).GetOrSearch(context.Background(), 348, "Alien")

	require.NoError(t, err)
	assert.Equal(t, int64(348), movie.ExternalID)
	assert.Equal(t, 1, up.searchCall)
}

func TestGetOrSearchWithoutHint(t *testing.T) {
	up := &fakeUpstream{fetchErr: tmdb.ErrUnavailable, search: []tmdb.RawMovie{alien()}}
	_, err := newTestService(newMemStorage(), up).GetOrSearch(context.Background(), 348, "  ")
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.Equal(t, 0, up.searchCall)
}

func TestGetOrSearchNoMatchingID(t *testing.T) {
	other := alien()
	other.ID = 2
	up := &fakeUpstream{movies: map[int64]tmdb.RawMovie{}, search: []tmdb.RawMovie{other}}
	_, err := newTestService(newMemStorage(), up).GetOrSearch(context.Background(), 348, "Alien")
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestLookupNeverFetches(t *testing.T) {
	st := newMemStorage()
	up := &fakeUpstream{movies: map[int64]tmdb.RawMovie{348: alien()}}
	s := newTestService(st, up)

	_, err := s.Lookup(context.Background(), 348)
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.Equal(t, 0, up.fetchCalls)
	assert.Empty(t, st.byExt)

	_, err = st.Insert(context.Background(), &models.Movie{ExternalID: 348, Title: "Alien"})
	require.NoError(t, err)
	movie, err := s.Lookup(context.Background(), 348)
	require.NoError(t, err)
	assert.Equal(t, "Alien", movie.Title)
	assert.Equal(t, 0, up.fetchCalls)

	st.err = errors.New("connection refused")
	_, err = s.Lookup(context.Background(), 348)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMovieNotFound)
}
