// Package config loads runtime configuration for the journal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   database DSN: a SQLite path or a postgres:// URL
//	-p string   base directory for relative photo paths
//	-a string   journal API base URL
//	-m string   image classification endpoint
//	-k string   connectivity probe kind (http or grpc)
//	-t string   connectivity probe target
//	-i int      online status check interval (seconds)
//	-w int      entries synced concurrently
//	-l string   log level
//
// Secrets (api_secret, inference_token, S3 keys) are read from the JSON file
// only.
//
// # JSON schema
//
//	{
//	  "database_dsn": "journal.db",
//	  "api_base_url": "https://journal.example.com",
//	  "api_secret": "...",
//	  "inference_token": "hf_...",
//	  "probe_kind": "grpc",
//	  "probe_target": "journal.example.com:443",
//	  "online_check_interval": "3s",
//	  "push_timeout": "10s",
//	  "classify_timeout": "30s",
//	  "sync_workers": 4,
//	  "max_image_dimension": 1024,
//	  "s3_region": "eu-central-1"
//	}
package config
