package handlers

import (
	"net/http"

	"github.com/ceylontrails/ceylontrails-api/internal/apperr"
	"github.com/ceylontrails/ceylontrails-api/internal/domain"
	"github.com/ceylontrails/ceylontrails-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) error {
	limit, offset := parsePagination(r)

	users, err := h.authService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		return err
	}

	infos := make([]*domain.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, users[i].ToUserInfo())
	}

	writeJSON(w, http.StatusOK, infos)
	return nil
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) error {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}

	if err := h.authService.DeleteUser(r.Context(), claims.Sub, chi.URLParam(r, "id")); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
	return nil
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) error {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}

	var in domain.ChangePasswordInput
	if err := decode(r, &in); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(r.Context(), claims.Sub, chi.URLParam(r, "id"), &in); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
	return nil
}
