package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"paycoffee/server/internal/auth"
	"paycoffee/server/internal/domain"
)

type signupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	DisplayName  string `json:"displayName"`
	PaymanPaytag string `json:"paymanPaytag"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  ownerDTO `json:"user"`
}

func (a *App) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "All fields are required")
		return
	}

	owner, token, err := a.Auth.Signup(r.Context(), auth.SignupParams{
		Email:        req.Email,
		Password:     req.Password,
		DisplayName:  req.DisplayName,
		PaymanPaytag: req.PaymanPaytag,
	})
	if err != nil {
		switch {
		case auth.IsMissingFields(err):
			a.error(w, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, domain.ErrEmailTaken):
			a.error(w, http.StatusBadRequest, "Email already registered")
		default:
			a.Logger.Error().Err(err).Msg("signup failed")
			a.error(w, http.StatusInternalServerError, "Signup failed")
		}
		return
	}

	a.json(w, http.StatusCreated, authResponse{Token: token, User: ownerToDTO(owner)})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	owner, token, err := a.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			a.error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		a.Logger.Error().Err(err).Msg("login failed")
		a.error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	a.json(w, http.StatusOK, authResponse{Token: token, User: ownerToDTO(owner)})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	owner := a.currentOwner(r)
	if owner == nil {
		a.error(w, http.StatusUnauthorized, "Access token required")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"user": ownerToDTO(owner)})
}

type exchangeRequest struct {
	Code string `json:"code"`
}

type exchangeResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// PaymanExchange trades a wallet authorization code for a supporter
// access token. The upstream call is best-effort: failures surface as a
// 500 and are never retried.
func (a *App) PaymanExchange(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		a.error(w, http.StatusBadRequest, "Authorization code is required")
		return
	}

	token, err := a.Exchange.ExchangeCode(r.Context(), req.Code)
	if err != nil {
		a.Logger.Error().Err(err).Msg("payman code exchange failed")
		a.error(w, http.StatusInternalServerError, "Token exchange failed")
		return
	}

	a.json(w, http.StatusOK, exchangeResponse{AccessToken: token.AccessToken, ExpiresIn: token.ExpiresIn})
}
