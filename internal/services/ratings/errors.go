package ratings

import "errors"

var (
	ErrRatingAlreadyExists = errors.New("rating already exists")
	ErrRatingNotFound      = errors.New("rating not found")
)
