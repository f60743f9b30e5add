package main

import (
	"encoding/json"
	"errors"
	"filmhub/proj/internal/lib/validator"
	"filmhub/proj/internal/services/auth"
	"filmhub/proj/internal/services/movies"
	"filmhub/proj/internal/services/profiles"
	"filmhub/proj/internal/services/ratings"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (app *Application) extractExternalIDParam(w http.ResponseWriter, r *http.Request) (id int64, extracted bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "external_id"), 10, 64)
	if err != nil {
		app.Http.BadRequest(w, r, "invalid movie ID")
		return 0, false
	}
	if id < 1 {
		app.Http.BadRequest(w, r, "id must be greater than zero")
		return 0, false
	}
	return id, true
}

// readValidJSON decodes the body into dst and validates it, writing the
// error response itself. It reports whether the handler may continue.
func (app *Application) readValidJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.readJSON(w, r, dst); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return false
	}
	if errs := validator.ValidateStruct(app.validator, dst); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return false
	}
	return true
}

// readValidQuery is readValidJSON for query string parameters.
func (app *Application) readValidQuery(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.decoder.Decode(dst, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return false
	}
	if errs := validator.ValidateStruct(app.validator, dst); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return false
	}
	return true
}

// serviceError maps service sentinel errors to responses. Anything unknown
// is a server error.
func (app *Application) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *auth.InvalidDataError
	switch {
	case errors.Is(err, movies.ErrMovieNotFound),
		errors.Is(err, ratings.ErrRatingNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, ratings.ErrRatingAlreadyExists),
		errors.Is(err, profiles.ErrAlreadyInWatchList),
		errors.Is(err, profiles.ErrAlreadyWatched),
		errors.Is(err, auth.ErrUserAlreadyExists):
		app.Http.Conflict(w, r, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		app.Http.Unauthorized(w, r, err.Error())
	case errors.As(err, &invalid):
		if invalid.Fields != nil {
			app.Http.UnprocessableEntity(w, r, invalid.Fields)
			return
		}
		app.Http.BadRequest(w, r, invalid.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}
