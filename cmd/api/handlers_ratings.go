package main

import (
	"filmhub/proj/internal/domain/filters"
	"filmhub/proj/internal/services/ratings"
	"net/http"
)

type rateMovieRequest struct {
	Movie   int64  `json:"movie" validate:"required,gt=0"`
	Score   int32  `json:"score" validate:"required,gte=1,lte=10"`
	Comment string `json:"comment" validate:"max=500"`
}

func (app *Application) createRating(w http.ResponseWriter, r *http.Request) {
	var req rateMovieRequest
	if !app.readValidJSON(w, r, &req) {
		return
	}
	user := contextGetUser(r)
	rating, err := app.ratings.Create(r.Context(), user.ID, req.Movie, req.Score, req.Comment)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"rating": rating}, "")
}

func (app *Application) updateRating(w http.ResponseWriter, r *http.Request) {
	var req rateMovieRequest
	if !app.readValidJSON(w, r, &req) {
		return
	}
	user := contextGetUser(r)
	rating, err := app.ratings.Update(r.Context(), user.ID, req.Movie, req.Score, req.Comment)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"rating": rating}, "")
}

func (app *Application) listRatings(w http.ResponseWriter, r *http.Request) {
	query := struct {
		filters.Filters
	}{
		Filters: filters.Filters{
			Page:         1,
			PageSize:     20,
			Sort:         "-created_at",
			SortSafelist: ratings.SortSafelist,
		},
	}
	if !app.readValidQuery(w, r, &query) {
		return
	}
	user := contextGetUser(r)
	list, metadata, err := app.ratings.List(r.Context(), user.ID, query.Filters)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"ratings": list, "metadata": metadata}, "")
}
