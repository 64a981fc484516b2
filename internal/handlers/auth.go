// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"hotelcms/internal/middleware"
	"hotelcms/internal/models"
	"hotelcms/internal/session"
	"hotelcms/internal/validate"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "HotelCMS"

// Sessions creates and destroys admin sessions. *session.Store satisfies it.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	RevokeOthers(ctx context.Context, r *http.Request, adminID int64) (int, error)
}

// Accounts looks up and updates the admin account. *store.AdminStore
// satisfies it.
type Accounts interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	FindByID(ctx context.Context, id int64) (*models.Admin, error)
	CheckPassword(admin *models.Admin, password string) bool
	SetTOTPSecret(ctx context.Context, id int64, secret string) error
	EnableTOTP(ctx context.Context, id int64) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions Sessions
	accounts Accounts
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions Sessions, accounts Accounts) *Auth {
	return &Auth{sessions: sessions, accounts: accounts}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type codeRequest struct {
	Code string `json:"code"`
}

// Login checks the credentials and, when two-factor is enabled, the TOTP
// code. On success it starts a session and issues a fresh CSRF token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, r, &validate.Error{Fields: map[string]string{
			"username": "is required",
			"password": "is required",
		}})
		return
	}

	admin, err := a.accounts.FindByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if admin == nil || !a.accounts.CheckPassword(admin, req.Password) {
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		writeFail(w, http.StatusUnauthorized, "Invalid username or password", nil)
		return
	}

	if admin.RequiresCode() {
		code := strings.TrimSpace(req.Code)
		if code == "" {
			writeFail(w, http.StatusUnauthorized, "Two-factor code required", map[string]string{"code": "is required"})
			return
		}
		if !totp.Validate(code, *admin.TOTPSecret) {
			slog.Warn("login failed", "username", req.Username, "reason", "invalid totp code")
			writeFail(w, http.StatusUnauthorized, "Invalid two-factor code", map[string]string{"code": "is invalid"})
			return
		}
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		AdminID:  admin.ID,
		Username: admin.Username,
	}); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := middleware.SetCSRFCookie(w)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("admin logged in", "admin_id", admin.ID)
	writeData(w, http.StatusOK, map[string]any{
		"username":    admin.Username,
		"totpEnabled": admin.TOTPEnabled,
		"csrfToken":   token,
	})
}

// Logout destroys the current session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// Me reports the signed-in admin and the current CSRF token.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeFail(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"adminId":   sess.AdminID,
		"username":  sess.Username,
		"csrfToken": middleware.GetCSRFToken(r),
	})
}

// TwoFASetup generates a new TOTP secret for the admin and returns it with
// a QR code. The secret is not enforced until TwoFAEnable confirms a code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeFail(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Username,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.accounts.SetTOTPSecret(r.Context(), sess.AdminID, key.Secret()); err != nil {
		writeError(w, r, err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{
		"secret": key.Secret(),
		"url":    key.URL(),
		"qrCode": "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAEnable turns on the second factor once the admin proves their
// authenticator produces valid codes for the pending secret.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeFail(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req codeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	admin, err := a.accounts.FindByID(r.Context(), sess.AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if admin == nil {
		writeFail(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	if admin.TOTPSecret == nil {
		writeError(w, r, validate.Field("code", "run two-factor setup first"))
		return
	}
	if !totp.Validate(strings.TrimSpace(req.Code), *admin.TOTPSecret) {
		writeError(w, r, validate.Field("code", "is invalid"))
		return
	}

	if err := a.accounts.EnableTOTP(r.Context(), admin.ID); err != nil {
		writeError(w, r, err)
		return
	}

	// Sessions opened with only a password must sign in again.
	revoked, err := a.sessions.RevokeOthers(r.Context(), r, admin.ID)
	if err != nil {
		slog.Warn("revoking other sessions failed", "admin_id", admin.ID, "error", err)
	}

	slog.Info("two-factor enabled", "admin_id", admin.ID, "revoked_sessions", revoked)
	writeData(w, http.StatusOK, map[string]bool{"totpEnabled": true})
}
