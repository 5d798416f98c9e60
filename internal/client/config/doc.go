// Package config loads runtime configuration for the WealFlow terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the WealFlow API
//	-d string   path to the local SQLite file
//	-t int      request timeout (seconds)
//	-cur string display currency (ISO 4217)
//
// # JSON schema
//
// Timeouts use timex.Duration, so values can be either strings like "10s" or
// integer nanoseconds. Missing keys keep their earlier value:
//
//	{
//	  "server_base_url": "http://localhost:5000",
//	  "local_db_path": "/home/me/.config/wealflow/client.db",
//	  "request_timeout": "10s",
//	  "currency": "EUR"
//	}
package config
