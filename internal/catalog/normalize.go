package catalog

import (
	"filmhub/proj/internal/clients/tmdb"
	"filmhub/proj/internal/domain/fields"
	"filmhub/proj/internal/domain/models"
	"math"
	"strconv"
	"strings"
)

// DefaultLimit caps every normalized result list.
const DefaultLimit = 20

type Normalizer struct {
	imageBaseURL string
}

func NewNormalizer(imageBaseURL string) *Normalizer {
	return &Normalizer{imageBaseURL: strings.TrimSuffix(imageBaseURL, "/")}
}

// Normalize turns a raw upstream record into a canonical movie. Records
// without a title, a poster or an id are rejected with nil.
func (n *Normalizer) Normalize(raw tmdb.RawMovie) *models.Movie {
	title := strings.TrimSpace(raw.Title)
	if title == "" || raw.PosterPath == "" || raw.ID == 0 {
		return nil
	}
	return &models.Movie{
		ExternalID:    raw.ID,
		Title:         title,
		PosterURL:     n.imageBaseURL + raw.PosterPath,
		Genre:         FormatGenres(raw.GenreIDs),
		Year:          parseYear(raw.ReleaseDate),
		AverageRating: parseRating(raw.VoteAverage),
	}
}

// NormalizeList scans raws until limit movies were accepted. Rejected
// records do not count against the limit.
func (n *Normalizer) NormalizeList(raws []tmdb.RawMovie, limit int) []models.Movie {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out := make([]models.Movie, 0, min(limit, len(raws)))
	for _, raw := range raws {
		if len(out) >= limit {
			break
		}
		if movie := n.Normalize(raw); movie != nil {
			out = append(out, *movie)
		}
	}
	return out
}

func parseYear(releaseDate string) *int32 {
	head, _, _ := strings.Cut(strings.TrimSpace(releaseDate), "-")
	if head == "" {
		return nil
	}
	year, err := strconv.ParseInt(head, 10, 32)
	if err != nil {
		return nil
	}
	y := int32(year)
	return &y
}

func parseRating(v any) fields.AverageRating {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return fields.NewAverageRating(f)
}
