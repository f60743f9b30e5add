package catalog

import (
	"filmhub/proj/internal/clients/tmdb"
	"filmhub/proj/internal/domain/fields"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageBase = "https://image.tmdb.org/t/p/w500"

func validRaw() tmdb.RawMovie {
	return tmdb.RawMovie{
		ID:          550,
		Title:       "Fight Club",
		PosterPath:  "/fc.jpg",
		GenreIDs:    []int{18},
		ReleaseDate: "1999-10-15",
		VoteAverage: 8.433,
	}
}

func TestNormalizeRejects(t *testing.T) {
	n := NewNormalizer(imageBase)
	cases := map[string]func(r *tmdb.RawMovie){
		"empty title":      func(r *tmdb.RawMovie) { r.Title = "" },
		"whitespace title": func(r *tmdb.RawMovie) { r.Title = "  \t " },
		"no poster":        func(r *tmdb.RawMovie) { r.PosterPath = "" },
		"no id":            func(r *tmdb.RawMovie) { r.ID = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			raw := validRaw()
			mutate(&raw)
			assert.Nil(t, n.Normalize(raw))
		})
	}
}

func TestNormalizeAcceptsMinimalRecord(t *testing.T) {
	n := NewNormalizer(imageBase)
	movie := n.Normalize(tmdb.RawMovie{ID: 7, Title: "Minimal", PosterPath: "/m.jpg"})
	require.NotNil(t, movie)
	assert.Equal(t, int64(7), movie.ExternalID)
	assert.Equal(t, "Unknown", movie.Genre)
	assert.Nil(t, movie.Year)
	assert.Equal(t, fields.AverageRating(0), movie.AverageRating)
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(imageBase + "/")
	movie := n.Normalize(validRaw())
	require.NotNil(t, movie)
	assert.Equal(t, "Fight Club", movie.Title)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/fc.jpg", movie.PosterURL)
	assert.Equal(t, "Drama", movie.Genre)
	require.NotNil(t, movie.Year)
	assert.Equal(t, int32(1999), *movie.Year)
	assert.Equal(t, fields.AverageRating(8.4), movie.AverageRating)
}

func TestNormalizeGenres(t *testing.T) {
	n := NewNormalizer(imageBase)
	cases := []struct {
		ids  []int
		want string
	}{
		{[]int{28}, "Action"},
		{[]int{99999}, "Unknown"},
		{[]int{28, 12}, "Action, Adventure"},
		{[]int{12, 28}, "Adventure, Action"},
		{[]int{28, 99999}, "Action, Unknown"},
		{nil, "Unknown"},
	}
	for _, tc := range cases {
		raw := validRaw()
		raw.GenreIDs = tc.ids
		assert.Equal(t, tc.want, n.Normalize(raw).Genre, "%v", tc.ids)
	}
}

func TestParseYear(t *testing.T) {
	year := parseYear("2015-03-04")
	require.NotNil(t, year)
	assert.Equal(t, int32(2015), *year)

	for _, date := range []string{"", "malformed", "-03-04", "20x5-01-01"} {
		assert.NotPanics(t, func() { parseYear(date) })
		assert.Nil(t, parseYear(date), date)
	}
}

func TestParseRating(t *testing.T) {
	assert.Equal(t, fields.AverageRating(7.5), parseRating("7.456"))
	assert.Equal(t, fields.AverageRating(7.5), parseRating(7.456))
	assert.Equal(t, fields.AverageRating(0), parseRating(nil))
	assert.Equal(t, fields.AverageRating(0), parseRating("n/a"))
	assert.Equal(t, fields.AverageRating(0), parseRating(map[string]any{}))
}

func TestNormalizeListSkipsRejectsAndCaps(t *testing.T) {
	n := NewNormalizer(imageBase)
	raws := make([]tmdb.RawMovie, 0, 30)
	for i := 1; i <= 30; i++ {
		raw := validRaw()
		raw.ID = int64(i)
		if i%3 == 0 {
			raw.PosterPath = ""
		}
		raws = append(raws, raw)
	}

	movies := n.NormalizeList(raws, 0)

	require.Len(t, movies, DefaultLimit)
	for _, m := range movies {
		assert.NotZero(t, m.ExternalID%3, "rejected record leaked: %d", m.ExternalID)
	}
	// 20 accepted records need 29 raw ones when every third is rejected.
	assert.Equal(t, int64(29), movies[len(movies)-1].ExternalID)

	assert.Len(t, n.NormalizeList(raws[:4], 2), 2)
	assert.NotNil(t, n.NormalizeList(nil, 5))
}
