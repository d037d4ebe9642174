package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/http/respond"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/render"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

type Handler struct {
	svc      *invoice.Service
	renderer *render.Renderer
}

func NewHandler(svc *invoice.Service, renderer *render.Renderer) *Handler {
	return &Handler{svc: svc, renderer: renderer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/preview", h.preview)
	r.Post("/numbers", h.allocateNumber)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/pdf", h.pdf)
	r.Get("/{id}/summary", h.summary)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}

	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !decode(w, r, &req) {
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.svc.Create(r.Context(), draft)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	slog.Info("invoice created", "id", inv.ID, "invoice_no", inv.InvoiceNo, "grand_total", inv.GrandTotal)

	w.Header().Set("Location", fmt.Sprintf("%s/%s", strings.TrimSuffix(r.URL.Path, "/"), inv.ID))
	respond.JSON(w, http.StatusCreated, toResponse(inv))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{}

	if s := r.URL.Query().Get("kind"); s != "" {
		kind := directory.Kind(s)
		if !kind.Valid() {
			respond.Message(w, http.StatusBadRequest, "invalid kind")
			return
		}

		filter.Kind = new(kind)
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
			return
		}

		filter.StartDate = new(t)
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
			return
		}

		filter.EndDate = new(t)
	}

	invs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(invs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req draftRequest
	if !decode(w, r, &req) {
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.svc.Update(r.Context(), id, draft)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decode(w, r, &req) {
		return
	}

	totals, err := h.svc.Preview(toInputs(req.Items))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToPreviewResponse(totals))
}

func (h *Handler) allocateNumber(w http.ResponseWriter, r *http.Request) {
	var req numberRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	number, err := h.svc.AllocateNumber(r.Context(), req.Preferred)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, numberResponse{InvoiceNo: number})
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.PDF(&buf, inv); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", render.Filename(inv)))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write pdf", "id", id, "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(h.renderer.Summary(inv))); err != nil {
		slog.Error("failed to write summary", "id", id, "error", err)
	}
}
