package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded into the process environment when present. Variables
// that are already set keep their values.
var envFile = ".env"

// parseEnv overlays Config with environment variables. Unset variables leave
// the current value alone; malformed numbers panic like malformed flags do.
//
//	PORT                   listen port (binds on all interfaces)
//	DATABASE_DSN           PostgreSQL DSN
//	ACCESS_SECRET          JWT HMAC secret
//	ACCESS_EXPIRE_MINUTES  access token lifetime
//	REFRESH_EXPIRE_HOURS   refresh token lifetime
//	FRONTEND_ORIGIN        CORS origin
//	COOKIE_DOMAIN          session cookie Domain
//	ENV                    "production" enables secure cookies
//	GOOGLE_CLIENT_ID       federated sign-in audience
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
func parseEnv(cfg *Config) {
	_ = godotenv.Load(envFile)

	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		cfg.ListenAddr = ":" + v
	}
	setString(&cfg.DatabaseDSN, "DATABASE_DSN")
	setString(&cfg.SecretKey, "ACCESS_SECRET")
	setDuration(&cfg.AccessTokenValidityDuration, "ACCESS_EXPIRE_MINUTES", time.Minute)
	setDuration(&cfg.RefreshTokenValidityDuration, "REFRESH_EXPIRE_HOURS", time.Hour)
	setString(&cfg.FrontendOrigin, "FRONTEND_ORIGIN")
	setString(&cfg.CookieDomain, "COOKIE_DOMAIN")
	if v, ok := os.LookupEnv("ENV"); ok {
		cfg.Production = v == "production"
	}
	setString(&cfg.GoogleClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.S3RootUser, "S3_ROOT_USER")
	setString(&cfg.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&cfg.S3Bucket, "S3_BUCKET")
	setString(&cfg.S3Region, "S3_REGION")
	setString(&cfg.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string, unit time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = time.Duration(n) * unit
}
