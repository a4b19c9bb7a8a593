// Copyright (c) 2025 Vlah Software House. All rights reserved.

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inkwell/internal/middleware"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

// totpIssuer appears in authenticator apps next to the account name.
const totpIssuer = "Inkwell"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	tokens    *token.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(tokens *token.Store, userStore *store.UserStore) *Auth {
	return &Auth{tokens: tokens, userStore: userStore}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code"`
}

// Login verifies credentials (and the TOTP code when two-factor is
// enabled) and issues a bearer token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	errs := errorBag{}
	errs.requireEmail("email", req.Email)
	errs.requireString("password", req.Password, maxNameLen)
	if !errs.empty() {
		respondValidation(w, errs)
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		respondServerError(w, "login lookup failed", err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		errs.add("email", "These credentials do not match our records.")
		respondValidation(w, errs)
		return
	}

	if user.TOTPEnabled {
		if req.OTPCode == "" {
			errs.add("otp_code", "The otp_code field is required.")
			respondValidation(w, errs)
			return
		}
		if user.TOTPSecret == nil || !totp.Validate(req.OTPCode, *user.TOTPSecret) {
			errs.add("otp_code", "The one-time code is invalid.")
			respondValidation(w, errs)
			return
		}
	}

	tok, err := a.tokens.Issue(r.Context(), &token.Data{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		respondServerError(w, "token issue failed", err)
		return
	}

	slog.Info("user logged in", "user", user.Email)
	respondJSON(w, http.StatusOK, map[string]any{
		"token": tok,
		"user":  user,
	})
}

// Logout revokes the presented bearer token.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if tok := middleware.BearerToken(r); tok != "" {
		if err := a.tokens.Revoke(r.Context(), tok); err != nil {
			respondServerError(w, "token revoke failed", err)
			return
		}
	}
	respondMessage(w, http.StatusOK, "Logged out")
}

// Me returns the authenticated user's profile.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	data := middleware.UserFromCtx(r.Context())
	user, err := a.userStore.FindByID(data.UserID)
	if err != nil {
		respondServerError(w, "user lookup failed", err)
		return
	}
	if user == nil {
		respondNotFound(w)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// TwoFASetup generates a fresh TOTP secret for the authenticated user
// and returns it with an otpauth URL and a QR code PNG for scanning.
// The secret stays inactive until TwoFAVerify confirms a valid code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	data := middleware.UserFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: data.Email,
	})
	if err != nil {
		respondServerError(w, "totp generate failed", err)
		return
	}

	if err := a.userStore.SetTOTPSecret(data.UserID, key.Secret()); err != nil {
		respondServerError(w, "save totp secret failed", err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		respondServerError(w, "qr encode failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"secret":      key.Secret(),
		"otpauth_url": key.URL(),
		"qr_code":     "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

type twoFAVerifyRequest struct {
	OTPCode string `json:"otp_code"`
}

// TwoFAVerify checks a code against the pending secret and activates
// two-factor authentication for the user.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	data := middleware.UserFromCtx(r.Context())

	var req twoFAVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	errs := errorBag{}
	errs.requireString("otp_code", req.OTPCode, 10)
	if !errs.empty() {
		respondValidation(w, errs)
		return
	}

	user, err := a.userStore.FindByID(data.UserID)
	if err != nil {
		respondServerError(w, "user lookup failed", err)
		return
	}
	if user == nil || user.TOTPSecret == nil {
		respondMessage(w, http.StatusBadRequest, "Two-factor setup has not been started")
		return
	}

	if !totp.Validate(req.OTPCode, *user.TOTPSecret) {
		errs.add("otp_code", "The one-time code is invalid.")
		respondValidation(w, errs)
		return
	}

	if err := a.userStore.EnableTOTP(user.ID); err != nil {
		respondServerError(w, "enable totp failed", err)
		return
	}

	slog.Info("two-factor enabled", "user", user.Email)
	respondMessage(w, http.StatusOK, "Two-factor authentication enabled")
}
