package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Backoffice"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"backoffice"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout      time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
		WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	}

	Invoice struct {
		NumberPrefix string          `envconfig:"INVOICE_NUMBER_PREFIX" default:"INV"`
		CGSTRate     decimal.Decimal `envconfig:"INVOICE_CGST_RATE" default:"18"`
		SGSTRate     decimal.Decimal `envconfig:"INVOICE_SGST_RATE" default:"18"`
		// StoreTimeout bounds each storage round trip made while handling a request.
		StoreTimeout time.Duration `envconfig:"INVOICE_STORE_TIMEOUT" default:"5s"`
		// Seller details printed on rendered invoices.
		SellerName    string `envconfig:"INVOICE_SELLER_NAME" default:"Backoffice"`
		SellerAddress string `envconfig:"INVOICE_SELLER_ADDRESS" default:""`
		SellerGSTIN   string `envconfig:"INVOICE_SELLER_GSTIN" default:""`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	hundred := decimal.NewFromInt(100)

	for name, rate := range map[string]decimal.Decimal{
		"INVOICE_CGST_RATE": c.Invoice.CGSTRate,
		"INVOICE_SGST_RATE": c.Invoice.SGSTRate,
	} {
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			return fmt.Errorf("%s must be between 0 and 100, got %s", name, rate)
		}
	}

	if c.Invoice.StoreTimeout <= 0 {
		return fmt.Errorf("INVOICE_STORE_TIMEOUT must be positive, got %s", c.Invoice.StoreTimeout)
	}

	return nil
}
