// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"manassa/internal/middleware"
	"manassa/internal/session"
	"manassa/internal/store"
)

// Auth groups the authentication endpoints: login, the two-step TOTP
// flow, and logout.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates the auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{sessions: sessions, userStore: userStore}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login serves POST /api/auth/login. On success a session cookie is
// set with 2FA still pending; the response names the next step.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		respondError(w, r, http.StatusUnauthorized, "invalid email or password")
		return
	}

	// TwoFADone starts false; the admin API stays locked until the
	// TOTP step completes.
	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   false,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	next := "verify"
	if user.Needs2FASetup() {
		next = "setup"
	}
	render.JSON(w, r, map[string]string{"next": next})
}

// TwoFASetup serves POST /api/auth/2fa/setup. It generates a fresh
// TOTP secret for the logged-in user and returns the provisioning QR
// code as a base64 PNG.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Manassa",
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	render.JSON(w, r, map[string]string{
		"qr_code": base64.StdEncoding.EncodeToString(qrPNG),
		"secret":  key.Secret(),
	})
}

type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify serves POST /api/auth/2fa/verify. A valid code marks the
// session as fully authenticated; on first-time setup it also enables
// TOTP for the account.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var req twoFAVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if user.TOTPSecret == nil {
		respondError(w, r, http.StatusConflict, "two-factor setup required first")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondError(w, r, http.StatusUnauthorized, "invalid code")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			respondError(w, r, http.StatusInternalServerError, "internal error")
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	render.JSON(w, r, map[string]bool{"ok": true})
}

// Me serves GET /api/auth/me: the current session, if any.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	render.JSON(w, r, map[string]any{
		"user_id":      sess.UserID,
		"email":        sess.Email,
		"display_name": sess.DisplayName,
		"role":         sess.Role,
		"two_fa_done":  sess.TwoFADone,
	})
}

// Logout serves POST /api/auth/logout.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	render.JSON(w, r, map[string]bool{"ok": true})
}
