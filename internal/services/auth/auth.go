package auth

import (
	"context"
	"filmhub/proj/internal/domain/models"
	"log/slog"
)

type GetUserParams struct {
	ID       int64
	Email    string
	IsActive bool
}

type SsoProvider interface {
	Register(ctx context.Context, email, username, password string) (int64, error)
	Login(ctx context.Context, email, password string) (*models.AuthTokens, error)
	GetUser(ctx context.Context, params GetUserParams) (*models.User, error)
}

type ProfileCreator interface {
	EnsureProfile(ctx context.Context, userID int64) error
}

type AuthService struct {
	log      *slog.Logger
	sso      SsoProvider
	profiles ProfileCreator
}

func New(log *slog.Logger, ssoProvider SsoProvider, profiles ProfileCreator) *AuthService {
	return &AuthService{
		log:      log,
		sso:      ssoProvider,
		profiles: profiles,
	}
}

type SignupResult struct {
	UserID int64 `json:"user_id"`
	models.AuthTokens
}

// Signup registers the user with the SSO service, creates their profile and
// logs them in.
func (a *AuthService) Signup(ctx context.Context, email, username, password string) (*SignupResult, error) {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "email", email)
	userID, err := a.sso.Register(ctx, email, username, password)
	if err != nil {
		log.Info("Error calling Sso.Register", "errMsg", err.Error())
		return nil, err
	}
	if err := a.profiles.EnsureProfile(ctx, userID); err != nil {
		log.Error("Error creating profile", "errMsg", err.Error(), "user_id", userID)
		return nil, err
	}
	tokens, err := a.sso.Login(ctx, email, password)
	if err != nil {
		log.Error("Error calling Sso.Login after signup", "errMsg", err.Error())
		return nil, err
	}
	return &SignupResult{UserID: userID, AuthTokens: *tokens}, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*models.AuthTokens, error) {
	const op = "auth.AuthService.Login"
	log := a.log.With("op", op, "email", email)
	resp, err := a.sso.Login(ctx, email, password)
	if err != nil {
		log.Info("Error calling Sso.Login", "errMsg", err.Error())
		return nil, err
	}
	return resp, nil
}

func (a *AuthService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "auth.AuthService.GetUser"
	user, err := a.sso.GetUser(ctx, GetUserParams{ID: userID})
	if err != nil {
		a.log.Info("Error calling Sso.GetUser", "op", op, "user_id", userID, "errMsg", err.Error())
		return nil, err
	}
	return user, nil
}
