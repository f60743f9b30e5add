package main

import (
	"filmhub/proj/internal/catalog"
	"net/http"
	"strings"
)

type listMoviesQuery struct {
	Search     string `schema:"search" validate:"max=200"`
	SearchType string `schema:"search_type" validate:"omitempty,oneof=title director genre"`
}

// listMovies returns the browse sections, or search results when a search
// term is given.
func (app *Application) listMovies(w http.ResponseWriter, r *http.Request) {
	var query listMoviesQuery
	if !app.readValidQuery(w, r, &query) {
		return
	}
	if strings.TrimSpace(query.Search) == "" {
		sections := app.catalog.Browse(r.Context())
		app.Http.Ok(w, r, envelop{
			"popular":   sections.Popular,
			"top_rated": sections.TopRated,
			"action":    sections.Action,
			"comedy":    sections.Comedy,
			"drama":     sections.Drama,
		}, "")
		return
	}
	searchType := query.SearchType
	if searchType == "" {
		searchType = catalog.SearchByTitle
	}
	movies := app.catalog.Search(r.Context(), query.Search, searchType)
	app.Http.Ok(w, r, envelop{"movies": movies}, "")
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	externalID, ok := app.extractExternalIDParam(w, r)
	if !ok {
		return
	}
	movie, err := app.movies.Get(r.Context(), externalID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "")
}
