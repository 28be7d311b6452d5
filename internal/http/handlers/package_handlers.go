package handlers

import (
	"net/http"

	"github.com/ceylontrails/ceylontrails-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListPackages(w http.ResponseWriter, r *http.Request) error {
	limit, offset := parsePagination(r)

	packages, err := h.packageService.List(r.Context(), limit, offset)
	if err != nil {
		return err
	}
	if packages == nil {
		packages = []domain.TourPackage{}
	}

	writeJSON(w, http.StatusOK, packages)
	return nil
}

func (h *Handlers) GetPackage(w http.ResponseWriter, r *http.Request) error {
	pkg, err := h.packageService.GetByIDOrSlug(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, pkg)
	return nil
}

func (h *Handlers) CreatePackage(w http.ResponseWriter, r *http.Request) error {
	var in domain.PackageInput
	if err := decode(r, &in); err != nil {
		return err
	}

	pkg, err := h.packageService.Create(r.Context(), &in)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, pkg)
	return nil
}

func (h *Handlers) UpdatePackage(w http.ResponseWriter, r *http.Request) error {
	var in domain.PackageInput
	if err := decode(r, &in); err != nil {
		return err
	}

	pkg, err := h.packageService.Update(r.Context(), chi.URLParam(r, "id"), &in)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, pkg)
	return nil
}

func (h *Handlers) DeletePackage(w http.ResponseWriter, r *http.Request) error {
	if err := h.packageService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Package deleted"})
	return nil
}
