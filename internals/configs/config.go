package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var (
	JWTSecret string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ no .env file, using system ENV")
		} else {
			log.Println("✅ .env loaded")
		}
	}
	JWTSecret = GetEnv("JWT_SECRET")
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func GetEnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// =======================
// BILLING PARAMETERS
// =======================
// Tax and retention percentages are deployment configuration, not code.
// Defaults match the current jurisdiction (13% VAT, 1% big-taxpayer retention).

func TaxRate() decimal.Decimal {
	return decimalEnv("BILLING_TAX_RATE", "0.13")
}

func RetentionRate() decimal.Decimal {
	return decimalEnv("BILLING_RETENTION_RATE", "0.01")
}

func decimalEnv(key, def string) decimal.Decimal {
	raw := GetEnvOr(key, def)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("⚠️ invalid %s=%q, using default %s", key, raw, def)
		d, _ = decimal.NewFromString(def)
	}
	return d
}

// LockWaitTimeout bounds how long a request may wait on a named lock
// before failing with "resource busy".
func LockWaitTimeout() time.Duration {
	raw := GetEnvOr("LOCK_WAIT_TIMEOUT", "30s")
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
