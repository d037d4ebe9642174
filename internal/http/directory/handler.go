package directory

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/http/respond"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/money"
)

type Handler struct {
	svc        *directory.Service
	invoiceSvc *invoice.Service
}

func NewHandler(svc *directory.Service, invoiceSvc *invoice.Service) *Handler {
	return &Handler{svc: svc, invoiceSvc: invoiceSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/products/{id}/line", h.productLine)
	r.Get("/{kind}/{id}", h.party)
}

type partyResponse struct {
	ID      uuid.UUID      `json:"id"`
	Kind    directory.Kind `json:"kind"`
	Name    string         `json:"name"`
	Address string         `json:"address,omitempty"`
	Mobile  string         `json:"mobile,omitempty"`
}

// lineResponse is a prefilled draft row. Quantity is always left blank.
type lineResponse struct {
	ProductID uuid.UUID    `json:"product_id"`
	ItemName  string       `json:"item_name"`
	Category  string       `json:"category"`
	Quantity  string       `json:"quantity"`
	UnitPrice money.Amount `json:"unit_price"`
	CGSTRate  string       `json:"cgst_rate"`
	SGSTRate  string       `json:"sgst_rate"`
}

func (h *Handler) party(w http.ResponseWriter, r *http.Request) {
	kind := directory.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		respond.Message(w, http.StatusNotFound, "unknown directory")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.svc.Party(r.Context(), kind, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, partyResponse{
		ID:      p.ID,
		Kind:    kind,
		Name:    p.Name,
		Address: p.Address,
		Mobile:  p.Mobile,
	})
}

func (h *Handler) productLine(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	line, err := h.invoiceSvc.PrefillLine(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, lineResponse{
		ProductID: id,
		ItemName:  line.ItemName,
		Category:  line.Category,
		Quantity:  line.Quantity,
		UnitPrice: money.FromDecimal(money.ParseLenient(line.UnitPrice)),
		CGSTRate:  line.CGSTRate,
		SGSTRate:  line.SGSTRate,
	})
}
