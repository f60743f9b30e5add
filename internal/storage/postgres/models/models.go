package models

import "filmhub/proj/internal/storage/postgres"

type Models struct {
	Movie   *MovieModel
	Rating  *RatingModel
	Profile *ProfileModel
}

func New(db *postgres.PostgresDB) *Models {
	return &Models{
		Movie:   &MovieModel{db.Conn},
		Rating:  &RatingModel{db.Conn},
		Profile: &ProfileModel{db.Conn},
	}
}
