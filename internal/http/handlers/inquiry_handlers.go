package handlers

import (
	"net/http"
	"strconv"

	"github.com/ceylontrails/ceylontrails-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

type inquiryListResponse struct {
	Inquiries []domain.Inquiry `json:"inquiries"`
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
}

type updateInquiryRequest struct {
	domain.InquiryInput
	Status string `json:"status"`
}

type bulkStatusResponse struct {
	Modified int64  `json:"modified"`
	Status   string `json:"status"`
}

func (h *Handlers) CreateInquiry(w http.ResponseWriter, r *http.Request) error {
	var in domain.InquiryInput
	if err := decode(r, &in); err != nil {
		return err
	}

	inq, err := h.inquiryService.Create(r.Context(), &in)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, inq)
	return nil
}

func (h *Handlers) ListInquiries(w http.ResponseWriter, r *http.Request) error {
	filter := parseInquiryFilter(r)

	inquiries, total, err := h.inquiryService.List(r.Context(), filter)
	if err != nil {
		return err
	}
	if inquiries == nil {
		inquiries = []domain.Inquiry{}
	}

	writeJSON(w, http.StatusOK, inquiryListResponse{
		Inquiries: inquiries,
		Total:     total,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	})
	return nil
}

func (h *Handlers) GetInquiry(w http.ResponseWriter, r *http.Request) error {
	inq, err := h.inquiryService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, inq)
	return nil
}

func (h *Handlers) UpdateInquiry(w http.ResponseWriter, r *http.Request) error {
	var req updateInquiryRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	inq, err := h.inquiryService.Update(r.Context(), chi.URLParam(r, "id"), &req.InquiryInput, req.Status)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, inq)
	return nil
}

func (h *Handlers) UpdateInquiryStatusBulk(w http.ResponseWriter, r *http.Request) error {
	var in domain.BulkStatusInput
	if err := decode(r, &in); err != nil {
		return err
	}

	modified, err := h.inquiryService.UpdateStatusBulk(r.Context(), &in)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, bulkStatusResponse{Modified: modified, Status: in.Status})
	return nil
}

func (h *Handlers) DeleteInquiry(w http.ResponseWriter, r *http.Request) error {
	if err := h.inquiryService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Inquiry deleted"})
	return nil
}

// parseInquiryFilter reads the admin table's query string. Repeated
// package_id and status params accumulate into multi-value filters.
func parseInquiryFilter(r *http.Request) domain.InquiryFilter {
	q := r.URL.Query()

	filter := domain.InquiryFilter{
		Search:     q.Get("search"),
		TravelDate: q.Get("date"),
		PackageIDs: q["package_id"],
		Page:       1,
		PageSize:   20,
	}

	for _, s := range q["status"] {
		if st, ok := domain.ParseInquiryStatus(s); ok {
			filter.Statuses = append(filter.Statuses, st)
		}
	}

	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Page = n
		}
	}
	if v := q.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			filter.PageSize = n
		}
	}

	return filter
}
