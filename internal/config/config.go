// Package config defines the runtime configuration for the seeding tool.
//
// Configuration comes from environment variables (connection details and
// credentials, matching how the target project is deployed) plus a handful of
// CLI flags handled in cmd/seeder. There is intentionally no third-party
// config library and no config file: a one-shot seeder has too few knobs to
// justify either.
package config

import (
	"os"
	"strconv"
)

// Backend kinds accepted by STORAGE_BACKEND.
const (
	BackendPostgREST = "postgrest"
	BackendPostgres  = "postgres"
)

// Defaults for the synthetic generation counts, mirroring the demo dataset
// sizing the backend was designed around.
const (
	DefaultCustomers = 500
	DefaultEmployees = 50
	DefaultSales     = 1000
)

// DefaultDatasetRef is the Kaggle dataset the products are derived from.
const DefaultDatasetRef = "kanchana1990/perfume-e-commerce-dataset-2024"

// DefaultDataDir is the local staging directory for the downloaded dataset.
const DefaultDataDir = "./kaggle_data"

// Config carries everything the pipeline needs to run.
type Config struct {
	// Backend selects the storage implementation: postgrest (default) or
	// postgres.
	Backend string

	// SupabaseURL is the project root for the postgrest backend.
	SupabaseURL string

	// ServiceRoleKey is the privileged credential for the postgrest backend.
	ServiceRoleKey string

	// DatabaseDSN is the pgx connection string for the postgres backend.
	DatabaseDSN string

	// AdminUserID is stamped into created_by on every record.
	AdminUserID string

	// DatasetRef is the Kaggle dataset identifier (owner/slug).
	DatasetRef string

	// DataDir is the local staging directory for the download.
	DataDir string

	// KaggleUsername and KaggleKey are optional API credentials.
	KaggleUsername string
	KaggleKey      string

	// Customers, Employees, and Sales are the synthetic record counts.
	Customers int
	Employees int
	Sales     int
}

// FromEnv builds a Config from the process environment, applying defaults
// for everything optional. It performs no validation; call Validate next.
func FromEnv() Config {
	cfg := Config{
		Backend:        getenv("STORAGE_BACKEND", BackendPostgREST),
		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		ServiceRoleKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		DatabaseDSN:    os.Getenv("DATABASE_URL"),
		AdminUserID:    os.Getenv("ADMIN_USER_ID"),
		DatasetRef:     getenv("KAGGLE_DATASET", DefaultDatasetRef),
		DataDir:        getenv("DATASET_DIR", DefaultDataDir),
		KaggleUsername: os.Getenv("KAGGLE_USERNAME"),
		KaggleKey:      os.Getenv("KAGGLE_KEY"),
		Customers:      getenvInt("SEED_CUSTOMERS", DefaultCustomers),
		Employees:      getenvInt("SEED_EMPLOYEES", DefaultEmployees),
		Sales:          getenvInt("SEED_SALES", DefaultSales),
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
