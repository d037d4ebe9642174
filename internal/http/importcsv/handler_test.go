package importcsv_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/backoffice/internal/http/importcsv"
	"github.com/MrJamesThe3rd/backoffice/internal/importer"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	invoiceSvc := invoice.NewService(invoice.NewMockRepository(ctrl), invoice.NewMockDirectory(ctrl), invoice.Options{
		Rates: invoice.TaxRates{CGST: decimal.NewFromInt(18), SGST: decimal.NewFromInt(18)},
	})

	router := chi.NewRouter()
	router.Route("/import", importcsv.NewHandler(importer.NewService(), invoiceSvc).Routes)

	return router
}

func upload(t *testing.T, srv http.Handler, field, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "items.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Import(t *testing.T) {
	csv := "Item Name,Category,Quantity,Unit Price,CGST %,SGST %\n" +
		"Widget,Hardware,2,100,18,18\n" +
		"Broken,Hardware,0,100,18,18\n" +
		"Gadget,Hardware,1,50,18,18\n"

	rec := upload(t, newServer(t), "file", csv)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Profile string           `json:"profile"`
		Rows    []map[string]any `json:"rows"`
		Preview struct {
			Skipped    []int   `json:"skipped"`
			Subtotal   float64 `json:"subtotal"`
			TotalTax   float64 `json:"total_tax"`
			GrandTotal float64 `json:"grand_total"`
		} `json:"preview"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "standard", body.Profile)
	assert.Len(t, body.Rows, 3)
	assert.Equal(t, []int{1}, body.Preview.Skipped)
	assert.Equal(t, 250.0, body.Preview.Subtotal)
	assert.Equal(t, 90.0, body.Preview.TotalTax)
	assert.Equal(t, 340.0, body.Preview.GrandTotal)
}

func TestHandler_Import_Errors(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		content    string
		wantStatus int
	}{
		{name: "MissingFile", field: "upload", content: "Item,Qty,Price\n", wantStatus: http.StatusBadRequest},
		{name: "UnknownFormat", field: "file", content: "Date,Amount\n2026-10-18,10\n", wantStatus: http.StatusBadRequest},
		{name: "NoEligibleRows", field: "file", content: "Item,Qty,Price\nWidget,0,10\n", wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := upload(t, newServer(t), tt.field, tt.content)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
