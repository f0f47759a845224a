// Package config loads the engine's settings from the environment,
// with an optional .env file for local installs.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/mnemo/internal/database"
)

// Defaults for a fresh installation.
const (
	DefaultDataDir     = "data"
	DefaultCatalogDir  = "courses"
	DefaultBackupEvery = 6 * time.Hour
	DefaultHeatmapDays = 91 // thirteen weeks
)

// Config holds every runtime setting.
type Config struct {
	// DataDir holds the sqlite database and, by default, backups.
	DataDir string
	// DBDriver is database.DriverSQLite or database.DriverPostgres.
	DBDriver string
	// DBDSN overrides the data source; empty means a sqlite file
	// under DataDir.
	DBDSN string
	// CatalogDir holds the course manifests.
	CatalogDir string
	// BackupDir receives automatic and manual snapshots.
	BackupDir string
	// BackupEvery is the auto-backup interval for live sessions.
	BackupEvery time.Duration
	// HeatmapDays is the dashboard heatmap window.
	HeatmapDays int
}

// Load reads the configuration. A .env file in the working directory
// is honored when present; real environment variables win.
func Load() Config {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := Config{
		DataDir:     getenv("MNEMO_DATA_DIR", DefaultDataDir),
		DBDriver:    getenv("MNEMO_DB_DRIVER", database.DriverSQLite),
		DBDSN:       os.Getenv("MNEMO_DB_DSN"),
		CatalogDir:  getenv("MNEMO_CATALOG_DIR", DefaultCatalogDir),
		BackupEvery: DefaultBackupEvery,
		HeatmapDays: DefaultHeatmapDays,
	}
	cfg.BackupDir = getenv("MNEMO_BACKUP_DIR", filepath.Join(cfg.DataDir, "backups"))

	if cfg.DBDSN == "" && cfg.DBDriver == database.DriverSQLite {
		cfg.DBDSN = filepath.Join(cfg.DataDir, "mnemo.db")
	}
	if v := os.Getenv("MNEMO_BACKUP_EVERY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.BackupEvery = d
		}
	}
	if v := os.Getenv("MNEMO_HEATMAP_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HeatmapDays = n
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
