package profiles

import "errors"

var (
	ErrAlreadyInWatchList = errors.New("movie already in watch list")
	ErrAlreadyWatched     = errors.New("movie already in watched list")
)
