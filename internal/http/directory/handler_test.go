package directory_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	directoryHandler "github.com/MrJamesThe3rd/backoffice/internal/http/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
)

func newServer(t *testing.T, setup func(dirRepo *directory.MockRepository, invDir *invoice.MockDirectory)) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	dirRepo := directory.NewMockRepository(ctrl)
	invDir := invoice.NewMockDirectory(ctrl)

	if setup != nil {
		setup(dirRepo, invDir)
	}

	invoiceSvc := invoice.NewService(invoice.NewMockRepository(ctrl), invDir, invoice.Options{
		Rates: invoice.TaxRates{CGST: decimal.NewFromInt(18), SGST: decimal.NewFromInt(18)},
	})
	h := directoryHandler.NewHandler(directory.NewService(dirRepo), invoiceSvc)

	router := chi.NewRouter()
	router.Route("/directory", h.Routes)

	return router
}

func get(srv http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestHandler_Party(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		path       string
		setupMock  func(dirRepo *directory.MockRepository, invDir *invoice.MockDirectory)
		wantStatus int
	}{
		{
			name: "Found",
			path: "/directory/vendor/" + id.String(),
			setupMock: func(dirRepo *directory.MockRepository, _ *invoice.MockDirectory) {
				dirRepo.EXPECT().FindParty(gomock.Any(), directory.KindVendor, id).Return(&directory.Party{
					ID: id, Kind: directory.KindVendor, Name: "Supplier Co", Address: "Pune", Mobile: "9800000000",
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "NotFound",
			path: "/directory/customer/" + id.String(),
			setupMock: func(dirRepo *directory.MockRepository, _ *invoice.MockDirectory) {
				dirRepo.EXPECT().FindParty(gomock.Any(), directory.KindCustomer, id).Return(nil, directory.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "UnknownDirectory",
			path:       "/directory/suppliers/" + id.String(),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "InvalidID",
			path:       "/directory/customer/42",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newServer(t, tt.setupMock), tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_ProductLine(t *testing.T) {
	id := uuid.New()

	srv := newServer(t, func(_ *directory.MockRepository, invDir *invoice.MockDirectory) {
		invDir.EXPECT().Product(gomock.Any(), id).Return(&directory.Product{
			ID: id, Name: "Masala Chai", Category: "Beverages", UnitPrice: 12050,
		}, nil)
	})

	rec := get(srv, "/directory/products/"+id.String()+"/line")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Masala Chai", body["item_name"])
	assert.Equal(t, "Beverages", body["category"])
	assert.Equal(t, "", body["quantity"])
	assert.Equal(t, 120.5, body["unit_price"])
	assert.Equal(t, "18", body["cgst_rate"])
	assert.Equal(t, "18", body["sgst_rate"])
}
