package catalog

import "strings"

const (
	GenreAction = 28
	GenreComedy = 35
	GenreDrama  = 18

	UnknownGenre = "Unknown"
)

// genres is the fixed upstream movie genre table.
var genres = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// GenreName maps a genre id to its display name, or "Unknown".
func GenreName(id int) string {
	if name, ok := genres[id]; ok {
		return name
	}
	return UnknownGenre
}

// GenreID looks a genre up by name, ignoring case. Only exact names match.
func GenreID(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for id, genreName := range genres {
		if strings.EqualFold(genreName, name) {
			return id, true
		}
	}
	return 0, false
}

// FormatGenres joins genre names in encounter order.
func FormatGenres(ids []int) string {
	if len(ids) == 0 {
		return UnknownGenre
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, GenreName(id))
	}
	return strings.Join(names, ", ")
}

// SplitGenres is the inverse of FormatGenres for stored display strings.
func SplitGenres(genre string) []string {
	if genre == "" {
		return nil
	}
	return strings.Split(genre, ", ")
}
