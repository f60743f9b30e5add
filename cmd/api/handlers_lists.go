package main

import (
	"context"
	"filmhub/proj/internal/domain/models"
	"net/http"
)

type listMovieRequest struct {
	ExternalID int64  `json:"external_id" validate:"required,gt=0"`
	Title      string `json:"title" validate:"max=255"`
}

type addFunc func(ctx context.Context, userID, externalID int64, titleHint string) (*models.Movie, error)

type listFunc func(ctx context.Context, userID int64) ([]models.Movie, error)

func (app *Application) addToList(add addFunc, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req listMovieRequest
		if !app.readValidJSON(w, r, &req) {
			return
		}
		user := contextGetUser(r)
		movie, err := add(r.Context(), user.ID, req.ExternalID, req.Title)
		if err != nil {
			app.serviceError(w, r, err)
			return
		}
		app.Http.Created(w, r, envelop{"movie": movie}, msg)
	}
}

func (app *Application) showList(list listFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := contextGetUser(r)
		movies, err := list(r.Context(), user.ID)
		if err != nil {
			app.serviceError(w, r, err)
			return
		}
		app.Http.Ok(w, r, envelop{"movies": movies}, "")
	}
}

func (app *Application) addToWatchList(w http.ResponseWriter, r *http.Request) {
	app.addToList(app.profiles.AddToWatchList, "movie added to watch list")(w, r)
}

func (app *Application) addToWatched(w http.ResponseWriter, r *http.Request) {
	app.addToList(app.profiles.AddToWatched, "movie added to watched movies")(w, r)
}

func (app *Application) listWatchList(w http.ResponseWriter, r *http.Request) {
	app.showList(app.profiles.WatchList)(w, r)
}

func (app *Application) listWatched(w http.ResponseWriter, r *http.Request) {
	app.showList(app.profiles.Watched)(w, r)
}

func (app *Application) listRecommended(w http.ResponseWriter, r *http.Request) {
	app.showList(app.profiles.Recommended)(w, r)
}

func (app *Application) recomputeRecommended(w http.ResponseWriter, r *http.Request) {
	app.showList(app.profiles.RecomputeRecommendations)(w, r)
}

func (app *Application) getProfile(w http.ResponseWriter, r *http.Request) {
	user := contextGetUser(r)
	profile, err := app.profiles.Profile(r.Context(), user.ID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"profile": profile}, "")
}
