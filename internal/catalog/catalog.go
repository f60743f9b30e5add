// Package catalog turns upstream catalog responses into canonical movies:
// normalization, search dispatch and the browse bundle.
package catalog

import (
	"context"
	"filmhub/proj/internal/clients/tmdb"
	"filmhub/proj/internal/domain/models"
	"log/slog"
	"strings"

	"github.com/sourcegraph/conc/pool"
)

const (
	SearchByTitle    = "title"
	SearchByDirector = "director"
	SearchByGenre    = "genre"

	directorJob = "Director"
)

type Upstream interface {
	Popular(ctx context.Context) []tmdb.RawMovie
	TopRated(ctx context.Context) []tmdb.RawMovie
	DiscoverByGenre(ctx context.Context, genreID int) []tmdb.RawMovie
	SearchMovies(ctx context.Context, query string) []tmdb.RawMovie
	SearchPerson(ctx context.Context, name string) []tmdb.RawPerson
	PersonCredits(ctx context.Context, personID int64) []tmdb.RawCredit
}

// Sections is the browse bundle returned when no search term is given.
type Sections struct {
	Popular  []models.Movie `json:"popular"`
	TopRated []models.Movie `json:"top_rated"`
	Action   []models.Movie `json:"action"`
	Comedy   []models.Movie `json:"comedy"`
	Drama    []models.Movie `json:"drama"`
}

type Catalog struct {
	log        *slog.Logger
	upstream   Upstream
	normalizer *Normalizer
}

func New(log *slog.Logger, upstream Upstream, normalizer *Normalizer) *Catalog {
	return &Catalog{
		log:        log,
		upstream:   upstream,
		normalizer: normalizer,
	}
}

// Search dispatches on searchType. Unknown types search by title. The result
// is never nil and holds at most DefaultLimit movies.
func (c *Catalog) Search(ctx context.Context, query, searchType string) []models.Movie {
	const op = "catalog.Catalog.Search"
	log := c.log.With("op", op, "query", query, "search_type", searchType)
	var movies []models.Movie
	switch strings.ToLower(strings.TrimSpace(searchType)) {
	case SearchByDirector:
		movies = c.searchByDirector(ctx, query)
	case SearchByGenre:
		movies = c.searchByGenre(ctx, query)
	default:
		movies = c.normalizer.NormalizeList(c.upstream.SearchMovies(ctx, query), DefaultLimit)
	}
	log.Debug("search done", "results", len(movies))
	return movies
}

func (c *Catalog) searchByDirector(ctx context.Context, name string) []models.Movie {
	people := c.upstream.SearchPerson(ctx, name)
	if len(people) == 0 {
		return []models.Movie{}
	}
	crew := c.upstream.PersonCredits(ctx, people[0].ID)
	directed := make([]tmdb.RawMovie, 0, len(crew))
	for _, credit := range crew {
		if credit.Job == directorJob {
			directed = append(directed, credit.RawMovie)
		}
	}
	return c.normalizer.NormalizeList(directed, DefaultLimit)
}

func (c *Catalog) searchByGenre(ctx context.Context, name string) []models.Movie {
	id, ok := GenreID(name)
	if !ok {
		return []models.Movie{}
	}
	return c.ByGenre(ctx, id)
}

func (c *Catalog) ByGenre(ctx context.Context, genreID int) []models.Movie {
	return c.normalizer.NormalizeList(c.upstream.DiscoverByGenre(ctx, genreID), DefaultLimit)
}

func (c *Catalog) Popular(ctx context.Context) []models.Movie {
	return c.normalizer.NormalizeList(c.upstream.Popular(ctx), DefaultLimit)
}

func (c *Catalog) TopRated(ctx context.Context) []models.Movie {
	return c.normalizer.NormalizeList(c.upstream.TopRated(ctx), DefaultLimit)
}

// Browse fetches the five sections concurrently. A section that fails ends
// up empty without affecting the others.
func (c *Catalog) Browse(ctx context.Context) Sections {
	var s Sections
	p := pool.New().WithMaxGoroutines(5)
	p.Go(func() { s.Popular = c.section("popular", func() []models.Movie { return c.Popular(ctx) }) })
	p.Go(func() { s.TopRated = c.section("top_rated", func() []models.Movie { return c.TopRated(ctx) }) })
	p.Go(func() { s.Action = c.section("action", func() []models.Movie { return c.ByGenre(ctx, GenreAction) }) })
	p.Go(func() { s.Comedy = c.section("comedy", func() []models.Movie { return c.ByGenre(ctx, GenreComedy) }) })
	p.Go(func() { s.Drama = c.section("drama", func() []models.Movie { return c.ByGenre(ctx, GenreDrama) }) })
	p.Wait()
	return s
}

func (c *Catalog) section(name string, fetch func() []models.Movie) (movies []models.Movie) {
	defer func() {
		if err := recover(); err != nil {
			c.log.Error("browse section panicked", "op", "catalog.Catalog.Browse", "section", name, "panic", err)
			movies = []models.Movie{}
		}
	}()
	movies = fetch()
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies
}
