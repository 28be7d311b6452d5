package handlers

import (
	"net/http"

	"github.com/ceylontrails/ceylontrails-api/internal/apperr"
	"github.com/ceylontrails/ceylontrails-api/internal/domain"
	"github.com/ceylontrails/ceylontrails-api/internal/http/middleware"
	"github.com/ceylontrails/ceylontrails-api/pkg/auth"
)

// forgotPasswordMessage goes out whether or not the email is registered.
const forgotPasswordMessage = "If that email is registered, a reset link has been sent"

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) error {
	var in domain.RegisterInput
	if err := decode(r, &in); err != nil {
		return err
	}

	user, err := h.authService.Register(r.Context(), &in)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, user.ToUserInfo())
	return nil
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) error {
	var in domain.LoginInput
	if err := decode(r, &in); err != nil {
		return err
	}

	result, err := h.authService.Login(r.Context(), &in)
	if err != nil {
		return err
	}

	http.SetCookie(w, auth.SessionCookie(h.config.Auth.CookieName, result.Token, h.config.Auth.SessionTTL, h.config.Auth.CookieSecure))
	writeJSON(w, http.StatusOK, result.User)
	return nil
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, auth.ExpiredSessionCookie(h.config.Auth.CookieName, h.config.Auth.CookieSecure))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	return nil
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) error {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}

	user, err := h.authService.GetUser(r.Context(), claims.Sub)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, user.ToUserInfo())
	return nil
}

func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) error {
	var in domain.ForgotPasswordInput
	if err := decode(r, &in); err != nil {
		return err
	}

	if err := h.authService.ForgotPassword(r.Context(), &in); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": forgotPasswordMessage})
	return nil
}

func (h *Handlers) VerifyResetToken(w http.ResponseWriter, r *http.Request) error {
	var in domain.VerifyResetTokenInput
	if err := decode(r, &in); err != nil {
		return err
	}

	if err := h.authService.VerifyResetToken(r.Context(), &in); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
	return nil
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) error {
	var in domain.ResetPasswordInput
	if err := decode(r, &in); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(r.Context(), &in); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset"})
	return nil
}
