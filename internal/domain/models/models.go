package models

import (
	"filmhub/proj/internal/domain/fields"
	"time"
)

type Movie struct {
	ID            int64                `json:"-" db:"id"`
	ExternalID    int64                `json:"external_id" db:"external_id"` // Upstream catalog id, unique
	Title         string               `json:"title" db:"title"`
	PosterURL     string               `json:"poster_url" db:"poster_url"`
	Genre         string               `json:"genre" db:"genre"`                   // Comma-joined genre names, "Unknown" when none
	Year          *int32               `json:"year" db:"year"`                     // Release year, null when the date is missing or malformed
	AverageRating fields.AverageRating `json:"average_rating" db:"average_rating"` // 0.0 - 10.0, one decimal
	CreatedAt     time.Time            `json:"-" db:"created_at"`
}

type Rating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Movie     Movie     `json:"movie"`
	Score     int32     `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovieList names one of the per-user movie sets kept on a profile.
type MovieList string

const (
	WatchList         MovieList = "watch_list"
	WatchedMovies     MovieList = "watched_movies"
	RecommendedMovies MovieList = "recommended_movies"
)

type UserProfile struct {
	UserID            int64   `json:"user_id"`
	WatchList         []Movie `json:"watch_list"`
	WatchedMovies     []Movie `json:"watched_movies"`
	RecommendedMovies []Movie `json:"recommended_movies"`
}

type User struct {
	ID           int64
	Username     string
	PasswordHash []byte
	Email        string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == nil || u == AnonymousUser
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
