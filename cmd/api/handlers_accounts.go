package main

import "net/http"

func (app *Application) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}
	if !app.readValidJSON(w, r, &req) {
		return
	}
	res, err := app.auth.Signup(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{
		"user_id":       res.UserID,
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
	}, "")
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if !app.readValidJSON(w, r, &req) {
		return
	}
	tokens, err := app.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	}, "")
}
