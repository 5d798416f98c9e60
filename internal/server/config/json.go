package config

import (
	"encoding/json"
	"os"

	"github.com/wealflow/wealflow/internal/flagx"
	"github.com/wealflow/wealflow/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Intervals use timex.Duration so both "15m" and integer nanoseconds
// are accepted.
type JsonConfig struct {
	ListenAddr                   string         `json:"listen_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	FrontendOrigin               string         `json:"frontend_origin"`
	CookieDomain                 string         `json:"cookie_domain"`
	Production                   *bool          `json:"production"`
	GoogleClientID               string         `json:"google_client_id"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	ExportURLExpiry              timex.Duration `json:"export_url_expiry"`
}

// parseJson loads configuration values from the file named by -c/-config.
// Only keys present in the file override the current values. It panics when
// the file cannot be read or is not valid JSON.
func parseJson(config *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.ListenAddr, c.ListenAddr)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	overlay(&config.FrontendOrigin, c.FrontendOrigin)
	overlay(&config.CookieDomain, c.CookieDomain)
	if c.Production != nil {
		config.Production = *c.Production
	}
	overlay(&config.GoogleClientID, c.GoogleClientID)
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.ExportURLExpiry.Duration > 0 {
		config.ExportURLExpiry = c.ExportURLExpiry.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
