package handlers

import (
	"net/http"
	"time"

	"github.com/ceylontrails/ceylontrails-api/internal/apperr"
)

// UploadSignature hands the admin UI a short-lived signed credential for
// uploading package images straight to Cloudinary.
func (h *Handlers) UploadSignature(w http.ResponseWriter, r *http.Request) error {
	if h.uploadSigner == nil || !h.uploadSigner.Configured() {
		return apperr.NotFound("Uploads are not configured")
	}

	writeJSON(w, http.StatusOK, h.uploadSigner.SignUpload(time.Now()))
	return nil
}
