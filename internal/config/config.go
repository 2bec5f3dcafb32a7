package config

import (
	"os"
	"strconv"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	FrontendURL   string
	PublicBaseURL string

	GoogleClientID     string
	GoogleClientSecret string

	VNPTmnCode    string
	VNPHashSecret string
	VNPPayURL     string

	MailHost     string
	MailPort     int
	MailUser     string
	MailPassword string
	MailFrom     string
}

// Load reads configuration from environment variables.
func Load() Config {
	cfg := Config{
		Addr:               getenv("ADDR", ":8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		FrontendURL:        getenv("FRONTEND_URL", "http://localhost:4200"),
		PublicBaseURL:      getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		VNPTmnCode:         os.Getenv("VNP_TMN_CODE"),
		VNPHashSecret:      os.Getenv("VNP_HASH_SECRET"),
		VNPPayURL:          getenv("VNP_PAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
		MailHost:           os.Getenv("MAIL_HOST"),
		MailPort:           getenvInt("MAIL_PORT", 587),
		MailUser:           os.Getenv("MAIL_USER"),
		MailPassword:       os.Getenv("MAIL_PASSWORD"),
		MailFrom:           getenv("MAIL_FROM", "no-reply@fitsport.shop"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = dsnFromParts()
	}

	return cfg
}

// dsnFromParts assembles a Postgres DSN from individual DB_* variables when
// DATABASE_URL is not set.
func dsnFromParts() string {
	host := getenv("DB_HOST", "localhost")
	port := getenv("DB_PORT", "5432")
	user := getenv("DB_USER", "postgres")
	pass := getenv("DB_PASSWORD", "postgres")
	name := getenv("DB_NAME", "fitsport")
	ssl := getenv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
