package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration
	RedisURL  string // empty disables the cache

	// Settlement knobs
	TaxRatePct  decimal.Decimal // applied by payout aggregation, percent
	DeliveryFee decimal.Decimal // flat fee added to every order
	GatewayFee  decimal.Decimal // default per-order gateway fee
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		DBSource:    getEnv("DB_SOURCE", "delivergo.db"),
		Port:        getEnv("PORT", "8000"),
		JWTSecret:   getEnv("JWT_SECRET", "changeme"),
		JWTTTL:      24 * time.Hour,
		RedisURL:    os.Getenv("REDIS_URL"),
		TaxRatePct:  getEnvDecimal("TAX_RATE_PCT", "7"),
		DeliveryFee: getEnvDecimal("DELIVERY_FEE", "2.00"),
		GatewayFee:  getEnvDecimal("GATEWAY_FEE", "0.30"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	raw := getEnv(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Fatalf("invalid %s: %q", key, raw)
	}
	return d
}
