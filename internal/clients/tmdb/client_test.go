package tmdb

import (
	"context"
	"errors"
	"filmhub/proj/internal/config"
	"filmhub/proj/internal/lib/logger"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.TMDB {
	return config.TMDB{
		BaseURL:       baseURL,
		ImageBaseURL:  "https://image.tmdb.org/t/p/w500",
		APIKey:        "secret",
		Timeout:       time.Second,
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
		Breaker: config.Breaker{
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      time.Minute,
			MinRequests:  100,
			FailureRatio: 1,
		},
	}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestFetchPage(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(`{"page":1,"results":[
			{"id":550,"title":"Fight Club","poster_path":"/fc.jpg","genre_ids":[18],"release_date":"1999-10-15","vote_average":8.4},
			{"id":13,"title":"Forrest Gump","poster_path":null,"genre_ids":[],"release_date":"","vote_average":"8.5"}
		]}`))
	})
	client := New(logger.Discard(), testConfig(srv.URL))

	results := client.Popular(context.Background())

	require.Len(t, results, 2)
	assert.Equal(t, int64(550), results[0].ID)
	assert.Equal(t, "/fc.jpg", results[0].PosterPath)
	assert.Equal(t, []int{18}, results[0].GenreIDs)
	assert.Equal(t, 8.4, results[0].VoteAverage)
	assert.Equal(t, "", results[1].PosterPath)
	assert.Equal(t, "8.5", results[1].VoteAverage)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchPageFailSoft(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results": [`))
		},
		"wrong shape": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results": "nope"}`))
		},
		"no results": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		},
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"unauthorized": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := newTestServer(t, handler)
			client := New(logger.Discard(), testConfig(srv.URL))
			results := client.TopRated(context.Background())
			assert.NotNil(t, results)
			assert.Empty(t, results)
		})
	}
}

func TestFetchPageUnreachable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.RetryAttempts = 0
	client := New(logger.Discard(), cfg)
	results := client.SearchMovies(context.Background(), "alien")
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestFetchPageTimeout(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	cfg.RetryAttempts = 0
	client := New(logger.Discard(), cfg)

	results := client.Popular(context.Background())
	assert.Empty(t, results)
}

func TestRetryOnServerError(t *testing.T) {
	var attempts atomic.Int32
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"results":[{"id":1,"title":"Alien","poster_path":"/a.jpg"}]}`))
	})
	client := New(logger.Discard(), testConfig(srv.URL))

	results := client.SearchMovies(context.Background(), "alien")

	require.Len(t, results, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNoRetryOnClientError(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client := New(logger.Discard(), testConfig(srv.URL))

	movie, err := client.FetchMovie(context.Background(), 42)

	assert.Nil(t, movie)
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchMovie(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550", r.URL.Path)
		w.Write([]byte(`{"id":550,"title":"Fight Club","poster_path":"/fc.jpg",
			"genres":[{"id":18,"name":"Drama"},{"id":53,"name":"Thriller"}],
			"release_date":"1999-10-15","vote_average":8.433}`))
	})
	client := New(logger.Discard(), testConfig(srv.URL))

	movie, err := client.FetchMovie(context.Background(), 550)

	require.NoError(t, err)
	assert.Equal(t, int64(550), movie.ID)
	assert.Equal(t, []int{18, 53}, movie.GenreIDs)
	assert.Equal(t, "1999-10-15", movie.ReleaseDate)
}

func TestFetchMovieUnavailable(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client := New(logger.Discard(), testConfig(srv.URL))

	_, err := client.FetchMovie(context.Background(), 550)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, errors.Is(err, ErrMovieNotFound))
}

func TestPersonSearchAndCredits(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/person":
			assert.Equal(t, "Ridley Scott", r.URL.Query().Get("query"))
			w.Write([]byte(`{"results":[{"id":578,"name":"Ridley Scott","known_for_department":"Directing"}]}`))
		case "/person/578/movie_credits":
			w.Write([]byte(`{"id":578,"crew":[
				{"id":348,"title":"Alien","poster_path":"/alien.jpg","job":"Director","genre_ids":[27,878]},
				{"id":78,"title":"Blade Runner","poster_path":"/br.jpg","job":"Producer"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	client := New(logger.Discard(), testConfig(srv.URL))

	people := client.SearchPerson(context.Background(), "Ridley Scott")
	require.Len(t, people, 1)
	crew := client.PersonCredits(context.Background(), people[0].ID)
	require.Len(t, crew, 2)
	assert.Equal(t, "Director", crew[0].Job)
	assert.Equal(t, int64(348), crew[0].ID)
	assert.Equal(t, "Alien", crew[0].Title)
}

func TestDiscoverByGenreParams(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "28", r.URL.Query().Get("with_genres"))
		assert.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))
		w.Write([]byte(`{"results":[]}`))
	})
	client := New(logger.Discard(), testConfig(srv.URL))
	assert.Empty(t, client.DiscoverByGenre(context.Background(), 28))
}

func TestCache(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"id":1,"title":"Alien","poster_path":"/a.jpg"}]}`))
	})
	cfg := testConfig(srv.URL)
	cfg.CacheTTL = time.Minute
	cfg.CacheSize = 10
	client := New(logger.Discard(), cfg)

	first := client.Popular(context.Background())
	second := client.Popular(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCircuitBreakerOpens(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	cfg := testConfig(srv.URL)
	cfg.RetryAttempts = 0
	cfg.Breaker.MinRequests = 2
	cfg.Breaker.FailureRatio = 0.5
	client := New(logger.Discard(), cfg)

	for i := 0; i < 5; i++ {
		assert.Empty(t, client.Popular(context.Background()))
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchPageKeepsCallerParams(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "alien", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(`{"results":[]}`))
	})
	client := New(logger.Discard(), testConfig(srv.URL))
	params := url.Values{"query": {"alien"}}

	client.FetchPage(context.Background(), EndpointSearchMovie, params)
	client.FetchPage(context.Background(), EndpointSearchMovie, nil)

	assert.Equal(t, url.Values{"query": {"alien"}}, params)
}
