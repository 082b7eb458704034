// Package config provides configuration management for tablecompare.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file (godotenv). Defaults come from the `default` struct
// tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, local source access)
//   - Database: default connection of query-backed sources
//   - Storage: S3/MinIO credentials for object-backed sources
//   - Mail: SMTP relay and sender identity of notifications
//   - Compare: comparison defaults (delimiter, key order, retention, prefetch, format)
//   - Log: Logging level and format
//
// Variables are named SECTION_KEY, e.g. MAIL_SENDER or COMPARE_MAX_FAILURES.
// SMTP_SERVER is still accepted for the mail host.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Compare.Delimiter)
package config
