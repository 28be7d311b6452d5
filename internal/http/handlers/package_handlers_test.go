package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/ceylontrails/ceylontrails-api/internal/domain"
)

func validPackage(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"description": "A week along the south coast with beaches, forts and whale watching.",
		"duration":    "7 days",
		"included":    []string{"Driver", "Fuel", "Accommodation"},
		"images":      []string{"https://res.cloudinary.com/demo/south-coast.jpg"},
	}
}

func TestPackages_CreateAndGetBySlug(t *testing.T) {
	f := setup(t)
	cookie := f.adminCookie(t)

	resp := doJSON(t, http.MethodPost, f.server.URL+"/v1/packages", validPackage("South Coast Escape"), cookie, http.StatusCreated)

	var created domain.TourPackage
	decodeBody(t, resp, &created)

	if created.ID == "" {
		t.Fatal("expected generated package id")
	}
	if created.Slug != "south-coast-escape" {
		t.Fatalf("expected slug south-coast-escape, got %s", created.Slug)
	}

	getResp := doJSON(t, http.MethodGet, f.server.URL+"/v1/packages/south-coast-escape", nil, "", http.StatusOK)

	var fetched domain.TourPackage
	decodeBody(t, getResp, &fetched)

	if fetched.ID != created.ID {
		t.Fatalf("expected package %s, got %s", created.ID, fetched.ID)
	}
	if len(fetched.Included) != 3 || fetched.Included[0] != "Driver" {
		t.Fatalf("included list not preserved: %v", fetched.Included)
	}
}

func TestPackages_GetByID(t *testing.T) {
	f := setup(t)
	cookie := f.adminCookie(t)

	resp := doJSON(t, http.MethodPost, f.server.URL+"/v1/packages", validPackage("Hill Country Rail"), cookie, http.StatusCreated)
	var created domain.TourPackage
	decodeBody(t, resp, &created)

	getResp := doJSON(t, http.MethodGet, f.server.URL+"/v1/packages/"+created.ID, nil, "", http.StatusOK)
	var fetched domain.TourPackage
	decodeBody(t, getResp, &fetched)

	if fetched.Slug != created.Slug {
		t.Fatalf("expected slug %s, got %s", created.Slug, fetched.Slug)
	}
}

func TestPackages_SlugCollisionGetsSuffix(t *testing.T) {
	f := setup(t)
	cookie := f.adminCookie(t)

	resp1 := doJSON(t, http.MethodPost, f.server.URL+"/v1/packages", validPackage("Kandy Cultural Tour"), cookie, http.StatusCreated)
	var first domain.TourPackage
	decodeBody(t, resp1, &first)

	resp2 := doJSON(t, http.MethodPost, f.server.URL+"/v1/packages", validPackage("Kandy Cultural Tour"), cookie, http.StatusCreated)
	var second domain.TourPackage
	decodeBody(t, resp2, &second)

	if first.Slug != "kandy-cultural-tour" {
		t.Fatalf("expected plain slug for the first package, got %s", first.Slug)
	}
	if second.Slug == first.Slug {
		t.Fatal("expected the second package to get a distinct slug")
	}
	if !strings.HasPrefix(second.Slug, "kandy-cultural-tour-") {
		t.Fatalf("expected suffixed slug, got %s", second.Slug)
	}

	// Both stay independently retrievable by their own slug.
	for _, pkg := range []domain.TourPackage{first, second} {
		resp := doJSON(t, http.MethodGet, f.server.URL+"/v1/packages/"+pkg.Slug, nil, "", http.StatusOK)
		var got domain.TourPackage
		decodeBody(t, resp, &got)
		if got.ID != pkg.ID {
			t.Fatalf("slug %s resolved to %s, want %s", pkg.Slug, got.ID, pkg.ID)
		}
	}
}

func TestPackages_UpdateRenameChangesSlug(t *testing.T) {
	f := setup(t)
	cookie := f.adminCookie(t)

	resp := doJSON(t, http.MethodPost, f.server.URL+"/v1/packages", validPackage("Old Name Tour"), cookie, http.StatusCreated)
	var created domain.TourPackage
	decodeBody(t, resp, &created)

	updateResp := doJSON(t, http.MethodPut, f.server.URL+"/v1/packages/"+created.ID, validPackage("Brand New Adventure"), cookie, http.StatusOK)
	var updated domain.TourPackage
	decodeBody(t, updateResp, &updated)

	if updated.Slug != "brand-new-adventure" {
		t.Fatalf("expected slug to follow the rename, got %s", updated.Slug)
	}

	// Old slug no longer resolves.
	doJSON(t, http.MethodGet, f.server.URL+"/v1/packages/old-name-tour", nil, "", http.StatusNotFound)
}

func TestPackages_List(t *testing.T) {
	f := setup(t)
	cookie := f.adminCookie(t)

	for _, name := range []string{"Tour A", "Tour B", "Tour C"} {
		resp := doJSON(t, http.MethodPost, f.server.URL+"/v1/packages", validPackage(name), cookie, http.StatusCreated)
		resp.Body.Close()
	}

	listResp := doJSON(t, http.MethodGet, f.server.URL+"/v1/packages?limit=2", nil, "", http.StatusOK)
	var listed []domain.TourPackage
	decodeBody(t, listResp, &listed)

	if len(listed) != 2 {
		t.Fatalf("expected 2 packages with limit=2, got %d", len(listed))
	}
}

func TestPackages_Delete(t *testing.T) {
	f := setup(t)
	cookie := f.adminCookie(t)

	resp := doJSON(t, http.MethodPost, f.server.URL+"/v1/packages", validPackage("Short Lived Tour"), cookie, http.StatusCreated)
	var created domain.TourPackage
	decodeBody(t, resp, &created)

	delResp := doJSON(t, http.MethodDelete, f.server.URL+"/v1/packages/"+created.ID, nil, cookie, http.StatusOK)
	delResp.Body.Close()

	doJSON(t, http.MethodGet, f.server.URL+"/v1/packages/"+created.Slug, nil, "", http.StatusNotFound)
}

func TestPackages_WriteRequiresSession(t *testing.T) {
	f := setup(t)

	resp := doJSON(t, http.MethodPost, f.server.URL+"/v1/packages", validPackage("No Auth Tour"), "", http.StatusUnauthorized)
	resp.Body.Close()

	badCookie := f.cfg.Auth.CookieName + "=not-a-real-token"
	resp = doJSON(t, http.MethodPost, f.server.URL+"/v1/packages", validPackage("Bad Token Tour"), badCookie, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestPackages_ValidationErrors(t *testing.T) {
	f := setup(t)
	cookie := f.adminCookie(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"name too short", map[string]interface{}{
			"name": "ab", "description": "Long enough description here.", "duration": "3 days",
		}},
		{"missing description", map[string]interface{}{
			"name": "Valid Name", "duration": "3 days",
		}},
		{"bad image url", map[string]interface{}{
			"name": "Valid Name", "description": "Long enough description here.", "duration": "3 days",
			"images": []string{"not-a-url"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, f.server.URL+"/v1/packages", tt.body, cookie, http.StatusBadRequest)

			var errBody struct {
				Error  string `json:"error"`
				Code   string `json:"code"`
				Fields []struct {
					Field   string `json:"field"`
					Message string `json:"message"`
				} `json:"fields"`
			}
			decodeBody(t, resp, &errBody)

			if errBody.Code != "INVALID_INPUT" {
				t.Fatalf("expected INVALID_INPUT, got %s", errBody.Code)
			}
			if len(errBody.Fields) == 0 {
				t.Fatal("expected field errors")
			}
		})
	}
}
