package tmdb

// RawMovie is one upstream movie record as returned by list, search and
// discover endpoints. Fields are left loose on purpose: the normalizer decides
// what is acceptable.
type RawMovie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PosterPath  string `json:"poster_path"`
	GenreIDs    []int  `json:"genre_ids"`
	ReleaseDate string `json:"release_date"`
	// VoteAverage is a number in practice, but strings and nulls show up.
	VoteAverage any `json:"vote_average"`
}

type RawCredit struct {
	RawMovie
	Job        string `json:"job"`
	Department string `json:"department"`
}

type RawPerson struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
}

type page[T any] struct {
	Page    int `json:"page"`
	Results []T `json:"results"`
}

type credits struct {
	ID   int64       `json:"id"`
	Crew []RawCredit `json:"crew"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// movieDetails is the /movie/{id} shape: genres come as objects instead of
// genre_ids.
type movieDetails struct {
	RawMovie
	Genres []genre `json:"genres"`
}

func (d movieDetails) toRaw() *RawMovie {
	raw := d.RawMovie
	if len(raw.GenreIDs) == 0 && len(d.Genres) > 0 {
		raw.GenreIDs = make([]int, 0, len(d.Genres))
		for _, g := range d.Genres {
			raw.GenreIDs = append(raw.GenreIDs, g.ID)
		}
	}
	return &raw
}
