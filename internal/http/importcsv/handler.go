package importcsv

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	invoiceHandler "github.com/MrJamesThe3rd/backoffice/internal/http/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/http/respond"
	"github.com/MrJamesThe3rd/backoffice/internal/importer"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
)

type Handler struct {
	importSvc  *importer.Service
	invoiceSvc *invoice.Service
}

func NewHandler(importSvc *importer.Service, invoiceSvc *invoice.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		invoiceSvc: invoiceSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type rowResponse struct {
	ItemName  string `json:"item_name"`
	Category  string `json:"category,omitempty"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	CGSTRate  string `json:"cgst_rate,omitempty"`
	SGSTRate  string `json:"sgst_rate,omitempty"`
}

type importResponse struct {
	Profile string                         `json:"profile"`
	Charset string                         `json:"charset"`
	Rows    []rowResponse                  `json:"rows"`
	Preview invoiceHandler.PreviewResponse `json:"preview"`
}

// importCSV parses an uploaded line-item export and returns the rows with
// their computed totals. Nothing is persisted; the client submits the rows as
// part of a draft.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, importer.MaxUploadSize+(1<<20))

	if err := r.ParseMultipartForm(importer.MaxUploadSize); err != nil {
		respond.Message(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(file)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, importer.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}

		respond.Message(w, status, err.Error())

		return
	}

	totals, err := h.invoiceSvc.Preview(res.Lines)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rows := make([]rowResponse, 0, len(res.Lines))
	for _, l := range res.Lines {
		rows = append(rows, rowResponse{
			ItemName:  l.ItemName,
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			CGSTRate:  l.CGSTRate,
			SGSTRate:  l.SGSTRate,
		})
	}

	respond.JSON(w, http.StatusOK, importResponse{
		Profile: res.Profile,
		Charset: res.Charset,
		Rows:    rows,
		Preview: invoiceHandler.ToPreviewResponse(totals),
	})
}
