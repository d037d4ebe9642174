package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/backoffice/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "INV", cfg.Invoice.NumberPrefix)
	assert.True(t, cfg.Invoice.CGSTRate.Equal(decimal.NewFromInt(18)))
	assert.True(t, cfg.Invoice.SGSTRate.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, 5*time.Second, cfg.Invoice.StoreTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "postgres://postgres:@localhost:5432/backoffice?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "ledger")
	t.Setenv("INVOICE_NUMBER_PREFIX", "PUR")
	t.Setenv("INVOICE_CGST_RATE", "9")
	t.Setenv("INVOICE_SGST_RATE", "2.5")
	t.Setenv("INVOICE_STORE_TIMEOUT", "750ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "ledger", cfg.DB.Name)
	assert.Equal(t, "PUR", cfg.Invoice.NumberPrefix)
	assert.Equal(t, "9", cfg.Invoice.CGSTRate.String())
	assert.Equal(t, "2.5", cfg.Invoice.SGSTRate.String())
	assert.Equal(t, 750*time.Millisecond, cfg.Invoice.StoreTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "RateAboveHundred", key: "INVOICE_CGST_RATE", value: "120"},
		{name: "NegativeRate", key: "INVOICE_SGST_RATE", value: "-1"},
		{name: "MalformedRate", key: "INVOICE_CGST_RATE", value: "eighteen"},
		{name: "ZeroTimeout", key: "INVOICE_STORE_TIMEOUT", value: "0s"},
		{name: "MalformedPort", key: "PORT", value: "http"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
