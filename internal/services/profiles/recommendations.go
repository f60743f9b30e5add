package profiles

import (
	"context"
	"filmhub/proj/internal/catalog"
	"filmhub/proj/internal/domain/models"
	"sort"
)

const (
	likedScore         = 7
	topGenresCount     = 2
	maxRecommendations = 10
)

// RecomputeRecommendations rebuilds the user's recommended set from the
// genres of the movies they liked. Users without liked movies get popular
// movies. Rated, watched and watch-listed movies are never recommended.
func (s *ProfileService) RecomputeRecommendations(ctx context.Context, userID int64) ([]models.Movie, error) {
	const op = "profiles.ProfileService.RecomputeRecommendations"
	log := s.log.With("op", op, "user_id", userID)

	ratings, err := s.ratings.ListAll(ctx, userID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	seen := make(map[int64]struct{})
	for _, rating := range ratings {
		seen[rating.Movie.ExternalID] = struct{}{}
	}
	for _, list := range []models.MovieList{models.WatchList, models.WatchedMovies} {
		movies, err := s.list(ctx, userID, list)
		if err != nil {
			return nil, err
		}
		for _, movie := range movies {
			seen[movie.ExternalID] = struct{}{}
		}
	}

	genres := favouriteGenres(ratings)
	var candidates []models.Movie
	if len(genres) == 0 {
		candidates = s.catalog.Popular(ctx)
	}
	for _, name := range genres {
		if id, ok := catalog.GenreID(name); ok {
			candidates = append(candidates, s.catalog.ByGenre(ctx, id)...)
		}
	}
	log.Debug("recommendation candidates", "genres", genres, "candidates", len(candidates))

	recommended := make([]models.Movie, 0, maxRecommendations)
	ids := make([]int64, 0, maxRecommendations)
	for i := range candidates {
		if len(recommended) >= maxRecommendations {
			break
		}
		if _, ok := seen[candidates[i].ExternalID]; ok {
			continue
		}
		seen[candidates[i].ExternalID] = struct{}{}
		saved, err := s.movies.Save(ctx, &candidates[i])
		if err != nil {
			return nil, err
		}
		recommended = append(recommended, *saved)
		ids = append(ids, saved.ID)
	}
	if err := s.storage.ReplaceRecommended(ctx, userID, ids); err != nil {
		log.Error(err.Error())
		return nil, err
	}
	log.Info("recommendations updated", "count", len(recommended))
	return recommended, nil
}

// favouriteGenres returns up to topGenresCount genre names that occur most
// often among liked movies. Ties are broken by name.
func favouriteGenres(ratings []models.Rating) []string {
	counts := make(map[string]int)
	for _, rating := range ratings {
		if rating.Score < likedScore {
			continue
		}
		for _, name := range catalog.SplitGenres(rating.Movie.Genre) {
			if name == catalog.UnknownGenre {
				continue
			}
			counts[name]++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > topGenresCount {
		names = names[:topGenresCount]
	}
	return names
}
